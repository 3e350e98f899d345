package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// cleanInvoice builds a record that passes every validation rule.
func cleanInvoice() *Invoice {
	return &Invoice{
		InvoiceID:    "2024001",
		InvoiceDate:  "2024-03-15",
		SupplierName: "Acme Corp",
		Currency:     "USD",
		Subtotal:     1000.00,
		Tax:          100.00,
		Total:        1100.00,
		LineItems:    []LineItem{},
		Confidence: map[string]float64{
			"invoice_id":    0.90,
			"invoice_date":  0.90,
			"supplier_name": 0.80,
			"currency":      0.90,
			"subtotal":      0.85,
			"tax":           0.85,
			"total":         0.90,
		},
		Issues: []string{},
		Anchors: map[string]string{
			"invoice_id":    "INV-2024001",
			"invoice_date":  "2024-03-15",
			"supplier_name": "Acme Corp",
			"currency":      "USD",
			"subtotal":      "Subtotal: 1000.00",
			"tax":           "Tax: 100.00",
			"total":         "Total: 1100.00",
		},
	}
}

var _ = Describe("Validate", func() {
	var inv *Invoice

	BeforeEach(func() {
		inv = cleanInvoice()
	})

	JustBeforeEach(func() {
		Validate(inv)
	})

	When("the record is complete and consistent", func() {
		It("should append no issues", func() {
			Expect(inv.Issues).To(BeEmpty())
		})
	})

	When("the date is not ISO formatted", func() {
		BeforeEach(func() {
			inv.InvoiceDate = "03/15/2024"
		})

		It("should flag the date format", func() {
			Expect(inv.Issues).To(ContainElement("Invalid invoice_date format"))
		})

		It("should not flag the date as missing", func() {
			Expect(inv.Issues).NotTo(ContainElement("Missing required field: invoice_date"))
		})
	})

	When("the currency is not a three-letter uppercase code", func() {
		BeforeEach(func() {
			inv.Currency = "usd"
		})

		It("should flag the currency code", func() {
			Expect(inv.Issues).To(ContainElement("Invalid currency code"))
		})
	})

	When("amounts are negative", func() {
		BeforeEach(func() {
			inv.Subtotal = -90.00
			inv.Tax = -10.00
			inv.Total = -100.00
			inv.Anchors["subtotal"] = "Subtotal: -90.00"
			inv.Anchors["tax"] = "Tax: -10.00"
			inv.Anchors["total"] = "Total: -100.00"
		})

		It("should flag each negative amount", func() {
			Expect(inv.Issues).To(ContainElements(
				"Negative amount in subtotal",
				"Negative amount in tax",
				"Negative amount in total",
			))
		})

		It("should still reconcile a consistent negative triple", func() {
			Expect(inv.Issues).NotTo(ContainElement("Totals do not reconcile"))
		})
	})

	When("an amount is genuinely zero", func() {
		BeforeEach(func() {
			inv.Tax = 0
			inv.Total = 1000.00
			inv.Anchors["tax"] = "Tax: 0.00"
			inv.Anchors["total"] = "Total: 1000.00"
		})

		It("should not flag the zero amount as missing", func() {
			Expect(inv.Issues).NotTo(ContainElement("Missing required field: tax"))
		})
	})

	When("an amount was never found", func() {
		BeforeEach(func() {
			inv.Tax = 0
			inv.Confidence["tax"] = 0
			inv.Anchors["tax"] = ""
		})

		It("should flag it as missing", func() {
			Expect(inv.Issues).To(ContainElement("Missing required field: tax"))
		})

		It("should also flag its confidence", func() {
			Expect(inv.Issues).To(ContainElement("Low confidence: tax (0.00)"))
		})
	})

	When("a text field is whitespace only", func() {
		BeforeEach(func() {
			inv.SupplierName = "   "
		})

		It("should flag it as missing", func() {
			Expect(inv.Issues).To(ContainElement("Missing required field: supplier_name"))
		})
	})

	When("the confidence map carries an unlisted key", func() {
		BeforeEach(func() {
			inv.Confidence["po_number"] = 0.60
		})

		It("should apply the default threshold", func() {
			Expect(inv.Issues).To(ContainElement("Low confidence: po_number (0.60)"))
		})
	})

	When("validation runs on an already validated record", func() {
		BeforeEach(func() {
			inv.Tax = 0
			inv.Confidence["tax"] = 0
			inv.Anchors["tax"] = ""
			Validate(inv)
		})

		It("should append, never dedupe", func() {
			count := 0
			for _, issue := range inv.Issues {
				if issue == "Missing required field: tax" {
					count++
				}
			}
			Expect(count).To(Equal(2))
		})
	})
})
