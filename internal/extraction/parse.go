package extraction

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// invoiceExtractPrompt is the shared prompt used by all LLM providers
// for extracting invoice fields from document text.
const invoiceExtractPrompt = `You are analyzing the text of an invoice. Carefully read all of it and extract the following information:

1. **Invoice identifier**: the invoice or bill number, without any "INV"/"Invoice"/"Bill" prefix.
2. **Invoice date**: in ISO 8601 format (YYYY-MM-DD).
3. **Supplier name**: the issuing business, usually near the top.
4. **Currency**: the three-letter ISO 4217 code (e.g. USD, EUR).
5. **Amounts**: subtotal, tax and total as plain numbers.

Return ONLY valid JSON in this exact format:
{
  "invoice_id": "",
  "invoice_date": "YYYY-MM-DD",
  "supplier_name": "",
  "currency": "",
  "subtotal": 0.00,
  "tax": 0.00,
  "total": 0.00,
  "anchors": {"invoice_id": "", "invoice_date": "", "supplier_name": "", "currency": "", "subtotal": "", "tax": "", "total": ""}
}

Important:
- Each anchors entry must be the exact substring of the document the value was read from
- Amounts must be numbers (not strings)
- Omit any field you cannot find instead of guessing
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// llmConfidence is assigned to every field an LLM backend reports.
// Absent fields keep confidence 0 so the validator flags them the same
// way it would for the rules engine.
const llmConfidence = 0.90

// invoicePayload mirrors the JSON shape the extraction prompt asks for.
// Amounts are pointers so a reported zero is distinguishable from an
// omitted field.
type invoicePayload struct {
	InvoiceID    string            `json:"invoice_id"`
	InvoiceDate  string            `json:"invoice_date"`
	SupplierName string            `json:"supplier_name"`
	Currency     string            `json:"currency"`
	Subtotal     *float64          `json:"subtotal"`
	Tax          *float64          `json:"tax"`
	Total        *float64          `json:"total"`
	Anchors      map[string]string `json:"anchors"`
}

// parseInvoiceJSON parses the JSON response from an LLM backend and
// assembles it into the same validated Invoice shape the rules engine
// produces, so issues and thresholds behave identically.
func parseInvoiceJSON(text string) (*Invoice, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var payload invoicePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	inv := &Invoice{
		InvoiceID:    strings.TrimSpace(payload.InvoiceID),
		InvoiceDate:  strings.TrimSpace(payload.InvoiceDate),
		SupplierName: strings.TrimSpace(payload.SupplierName),
		Currency:     strings.TrimSpace(payload.Currency),
		LineItems:    []LineItem{},
		Confidence:   map[string]float64{},
		Issues:       []string{},
		Anchors:      map[string]string{},
	}

	texts := map[string]string{
		"invoice_id":    inv.InvoiceID,
		"invoice_date":  inv.InvoiceDate,
		"supplier_name": inv.SupplierName,
		"currency":      inv.Currency,
	}
	amounts := map[string]*float64{
		"subtotal": payload.Subtotal,
		"tax":      payload.Tax,
		"total":    payload.Total,
	}

	for _, f := range requiredFields {
		var found bool
		var anchor string
		if amt, ok := amounts[f]; ok {
			found = amt != nil
			if found {
				anchor = strconv.FormatFloat(*amt, 'f', -1, 64)
			}
		} else {
			found = texts[f] != ""
			anchor = texts[f]
		}
		if reported := strings.TrimSpace(payload.Anchors[f]); reported != "" {
			anchor = reported
		}
		if !found {
			inv.Confidence[f] = 0
			inv.Anchors[f] = ""
			continue
		}
		inv.Confidence[f] = llmConfidence
		inv.Anchors[f] = anchor
	}

	if payload.Subtotal != nil {
		inv.Subtotal = *payload.Subtotal
	}
	if payload.Tax != nil {
		inv.Tax = *payload.Tax
	}
	if payload.Total != nil {
		inv.Total = *payload.Total
	}

	Validate(inv)
	return inv, nil
}
