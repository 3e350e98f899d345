package extraction

// LineItem is a single itemized row on an invoice. Nothing in this
// package populates line items yet; they are filled by downstream
// itemization and carried here so the record shape is complete.
type LineItem struct {
	Description string            `json:"description"`
	Quantity    float64           `json:"quantity"`
	UnitPrice   float64           `json:"unit_price"`
	Amount      float64           `json:"amount"`
	Confidence  float64           `json:"confidence"`
	Anchors     map[string]string `json:"anchors"`
}

// Invoice is the assembled extraction result. Text fields use "" and
// amounts use 0 for "not found"; whether an amount was actually found
// is tracked by its anchor (empty anchor means no match in the source).
type Invoice struct {
	InvoiceID    string     `json:"invoice_id"`
	InvoiceDate  string     `json:"invoice_date"`
	SupplierName string     `json:"supplier_name"`
	Currency     string     `json:"currency"`
	Subtotal     float64    `json:"subtotal"`
	Tax          float64    `json:"tax"`
	Total        float64    `json:"total"`
	DueDate      string     `json:"due_date,omitempty"`
	PONumber     string     `json:"po_number,omitempty"`
	LineItems    []LineItem `json:"line_items"`

	// Confidence and Anchors carry one entry per extracted field.
	// Anchors hold the exact source substring that produced each value.
	Confidence map[string]float64 `json:"confidence"`
	Issues     []string           `json:"issues"`
	Anchors    map[string]string  `json:"anchors"`
}

// Field is the result of one text-field extractor: the extracted value,
// a heuristic confidence in [0,1], and the matched source substring.
// The zero value means "not found".
type Field struct {
	Value      string
	Confidence float64
	Anchor     string
}

// AmountField is the numeric counterpart of Field. An empty Anchor
// means the amount was not found, distinguishing it from a real zero.
type AmountField struct {
	Value      float64
	Confidence float64
	Anchor     string
}
