package extraction

// Extractor defines the interface for invoice extraction backends.
type Extractor interface {
	// ExtractInvoice turns raw document text into a validated Invoice.
	ExtractInvoice(text string) (*Invoice, error)
	// Close closes the extractor and releases resources
	Close() error
}

// Rules is the default Extractor: the deterministic regex pipeline.
// It never returns an error; extraction is a total function of the text.
type Rules struct{}

// NewRules creates a new rules-based Extractor instance
func NewRules() *Rules {
	return &Rules{}
}

// ExtractInvoice runs the field extractors and validator over text.
func (r *Rules) ExtractInvoice(text string) (*Invoice, error) {
	return Extract(text), nil
}

// Close is a no-op; the rules engine holds no resources.
func (r *Rules) Close() error {
	return nil
}
