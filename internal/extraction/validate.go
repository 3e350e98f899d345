package extraction

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// requiredFields is the canonical field order. The assembler populates
// the confidence and anchor maps in this order and the validator walks
// it the same way, so issue order is stable across runs.
var requiredFields = []string{
	"invoice_id", "invoice_date", "supplier_name", "currency",
	"subtotal", "tax", "total",
}

var amountFields = []string{"subtotal", "tax", "total"}

var confidenceThresholds = map[string]float64{
	"invoice_id":    0.8,
	"invoice_date":  0.9,
	"supplier_name": 0.8,
	"currency":      0.9,
	"subtotal":      0.85,
	"tax":           0.85,
	"total":         0.9,
}

const defaultThreshold = 0.7

var (
	dateFormatPattern     = regexp.MustCompile(`^(?:19|20)\d{2}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])\b`)
	currencyFormatPattern = regexp.MustCompile(`^[A-Z]{3}\b`)
)

// Validate appends business-rule issues to the invoice. Every check
// runs unconditionally; none interrupts or suppresses another, so a
// missing field also surfaces as a low-confidence issue.
func Validate(inv *Invoice) {
	for _, f := range requiredFields {
		if fieldMissing(inv, f) {
			inv.Issues = append(inv.Issues, fmt.Sprintf("Missing required field: %s", f))
		}
	}

	if inv.InvoiceDate != "" && !dateFormatPattern.MatchString(inv.InvoiceDate) {
		inv.Issues = append(inv.Issues, "Invalid invoice_date format")
	}
	if inv.Currency != "" && !currencyFormatPattern.MatchString(inv.Currency) {
		inv.Issues = append(inv.Issues, "Invalid currency code")
	}

	for _, f := range amountFields {
		if amountValue(inv, f) < 0 {
			inv.Issues = append(inv.Issues, fmt.Sprintf("Negative amount in %s", f))
		}
	}

	if !ReconcileTotals(inv.Subtotal, inv.Tax, inv.Total) {
		inv.Issues = append(inv.Issues, "Totals do not reconcile")
	}

	for _, f := range confidenceOrder(inv) {
		threshold, ok := confidenceThresholds[f]
		if !ok {
			threshold = defaultThreshold
		}
		if v := inv.Confidence[f]; v < threshold {
			inv.Issues = append(inv.Issues, fmt.Sprintf("Low confidence: %s (%.2f)", f, v))
		}
	}
}

// fieldMissing reports whether a required field was not extracted. Text
// fields are missing when blank; amounts are missing when the extractor
// matched nothing, which leaves the anchor empty. A genuinely zero
// amount with a matched label is present.
func fieldMissing(inv *Invoice, field string) bool {
	switch field {
	case "subtotal", "tax", "total":
		return inv.Anchors[field] == ""
	default:
		return strings.TrimSpace(textValue(inv, field)) == ""
	}
}

// confidenceOrder yields the canonical fields first, then any extra
// confidence keys in sorted order so validation stays deterministic.
func confidenceOrder(inv *Invoice) []string {
	order := make([]string, 0, len(inv.Confidence))
	for _, f := range requiredFields {
		if _, ok := inv.Confidence[f]; ok {
			order = append(order, f)
		}
	}
	var extra []string
	for k := range inv.Confidence {
		if !slices.Contains(requiredFields, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(order, extra...)
}

func textValue(inv *Invoice, field string) string {
	switch field {
	case "invoice_id":
		return inv.InvoiceID
	case "invoice_date":
		return inv.InvoiceDate
	case "supplier_name":
		return inv.SupplierName
	case "currency":
		return inv.Currency
	}
	return ""
}

func amountValue(inv *Invoice, field string) float64 {
	switch field {
	case "subtotal":
		return inv.Subtotal
	case "tax":
		return inv.Tax
	case "total":
		return inv.Total
	}
	return 0
}
