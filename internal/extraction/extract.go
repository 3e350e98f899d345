package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const numberPattern = `-?\d+(?:[.,]\d{3})*(?:[.,]\d{2})?`

var (
	datePattern     = regexp.MustCompile(`\b(?:19|20)\d{2}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])\b`)
	currencyPattern = regexp.MustCompile(`\b[A-Z]{3}\b`)

	// Invoice identifiers are matched in two stages: keyword occurrences
	// are scanned in document order, and the first one whose suffix
	// carries a plausible identifier wins. A single backtracking regex
	// would let the "Invoice" literal swallow ids such as
	// "Invoice: INV-2024001" whole instead of capturing "2024001".
	idKeywordPattern = regexp.MustCompile(`(?i)\b(?:INV|Invoice|Bill)`)
	idSuffixPattern  = regexp.MustCompile(`^[-:\s]*([A-Z0-9-]{6,})\b`)

	subtotalPattern = regexp.MustCompile(`(?i)\bSubtotal[:\s]*(` + numberPattern + `)`)
	taxPattern      = regexp.MustCompile(`(?i)\bTax[:\s]*(` + numberPattern + `)`)
	totalPattern    = regexp.MustCompile(`(?i)\bTotal[:\s]*(` + numberPattern + `)`)

	upperNamePattern = regexp.MustCompile(`^[A-Z &]{3,}$`)
	plainNamePattern = regexp.MustCompile(`^[A-Za-z0-9 &.'-]+$`)
)

// currencyCodes is the allow-list for high-confidence currency matches.
var currencyCodes = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "JPY": {},
	"AUD": {}, "CAD": {}, "CHF": {}, "CNY": {},
}

// currencyWindow is how many characters of the document head and tail
// are searched before falling back to the full text.
const currencyWindow = 600

// Extract runs all field extractors over text, assembles the Invoice
// with its confidence and anchor maps, and validates it. It is a pure
// function: same text in, same record out, and it never fails.
func Extract(text string) *Invoice {
	id := extractInvoiceID(text)
	date := extractDate(text)
	currency := extractCurrency(text)
	totals := extractTotals(text)
	supplier := extractSupplier(text)

	inv := &Invoice{
		InvoiceID:    id.Value,
		InvoiceDate:  date.Value,
		SupplierName: supplier.Value,
		Currency:     currency.Value,
		Subtotal:     totals["subtotal"].Value,
		Tax:          totals["tax"].Value,
		Total:        totals["total"].Value,
		LineItems:    []LineItem{},
		Confidence: map[string]float64{
			"invoice_id":    id.Confidence,
			"invoice_date":  date.Confidence,
			"supplier_name": supplier.Confidence,
			"currency":      currency.Confidence,
			"subtotal":      totals["subtotal"].Confidence,
			"tax":           totals["tax"].Confidence,
			"total":         totals["total"].Confidence,
		},
		Issues: []string{},
		Anchors: map[string]string{
			"invoice_id":    id.Anchor,
			"invoice_date":  date.Anchor,
			"supplier_name": supplier.Anchor,
			"currency":      currency.Anchor,
			"subtotal":      totals["subtotal"].Anchor,
			"tax":           totals["tax"].Anchor,
			"total":         totals["total"].Anchor,
		},
	}
	Validate(inv)
	return inv
}

// extractInvoiceID finds the first INV/Invoice/Bill keyword that is
// followed by an identifier of at least six characters from [A-Z0-9-].
// Later, possibly better candidates are ignored.
func extractInvoiceID(text string) Field {
	for _, loc := range idKeywordPattern.FindAllStringIndex(text, -1) {
		m := idSuffixPattern.FindStringSubmatchIndex(text[loc[1]:])
		if m == nil {
			continue
		}
		return Field{
			Value:      text[loc[1]+m[2] : loc[1]+m[3]],
			Confidence: 0.90,
			Anchor:     text[loc[0] : loc[1]+m[1]],
		}
	}
	return Field{}
}

// extractDate finds the first ISO-8601 calendar date. Day validation is
// coarse (accepts 2024-02-31); calendar awareness is left downstream.
func extractDate(text string) Field {
	m := datePattern.FindString(text)
	if m == "" {
		return Field{}
	}
	return Field{Value: m, Confidence: 0.90, Anchor: m}
}

// extractCurrency looks for an allow-listed code in the document head
// and tail, then falls back to the first three-letter uppercase token
// anywhere in the text at reduced confidence.
func extractCurrency(text string) Field {
	head := text[:min(len(text), currencyWindow)]
	tail := text[max(0, len(text)-currencyWindow):]

	candidates := currencyPattern.FindAllString(head, -1)
	candidates = append(candidates, currencyPattern.FindAllString(tail, -1)...)
	for _, c := range candidates {
		if _, ok := currencyCodes[strings.ToUpper(c)]; ok {
			return Field{Value: c, Confidence: 0.90, Anchor: c}
		}
	}

	if m := currencyPattern.FindString(text); m != "" {
		return Field{Value: m, Confidence: 0.80, Anchor: m}
	}
	return Field{}
}

// extractTotals resolves the Subtotal, Tax and Total labels. Each label
// searches the full text independently and takes its first occurrence;
// the word boundary keeps "Total" from matching inside "Subtotal".
func extractTotals(text string) map[string]AmountField {
	out := map[string]AmountField{
		"subtotal": {},
		"tax":      {},
		"total":    {},
	}
	labels := []struct {
		name       string
		pattern    *regexp.Regexp
		confidence float64
	}{
		{"subtotal", subtotalPattern, 0.85},
		{"tax", taxPattern, 0.85},
		{"total", totalPattern, 0.90},
	}
	for _, l := range labels {
		m := l.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := ParseNumber(m[1])
		if err != nil {
			// The pattern admits ambiguous separator mixes such as
			// "1.234.56" that are not decimal literals; treat those as
			// no match rather than failing the whole extraction.
			continue
		}
		out[l.name] = AmountField{Value: v, Confidence: l.confidence, Anchor: m[0]}
	}
	return out
}

// extractSupplier applies a layout heuristic: the supplier is the first
// non-blank line that is not an identifier header. All-caps lines are
// title-cased at 0.80; short clean names score 0.80 when capitalized and
// 0.70 otherwise; sentence-like lines are rejected outright.
func extractSupplier(text string) Field {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if extractInvoiceID(line).Anchor != "" {
			continue
		}
		return scoreSupplierLine(line)
	}
	return Field{}
}

func scoreSupplierLine(line string) Field {
	if upperNamePattern.MatchString(line) {
		// A cases.Caser is stateful and must not be shared between
		// goroutines; construct one per call so Extract stays safe
		// under concurrent requests.
		title := cases.Title(language.English).String(line)
		return Field{Value: title, Confidence: 0.80, Anchor: line}
	}
	tokens := strings.Fields(line)
	if len(tokens) > 6 || !plainNamePattern.MatchString(line) {
		return Field{}
	}
	confidence := 0.80
	for _, t := range tokens {
		r := []rune(t)[0]
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			confidence = 0.70
			break
		}
	}
	return Field{Value: line, Confidence: confidence, Anchor: line}
}
