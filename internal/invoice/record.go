package invoice

import (
	"time"

	"invoiceaudit/internal/extraction"
)

// Record represents a stored invoice document with its extraction result
type Record struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	ContentType string             `json:"content_type"`
	Invoice     extraction.Invoice `json:"invoice"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
