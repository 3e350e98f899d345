package invoice

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"invoiceaudit/internal/extraction"
)

// IDGenerator generates unique IDs for invoice records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles invoice operations
type Service struct {
	db          DB
	extractor   extraction.Extractor
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, extractor extraction.Extractor, storage Storage) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor extraction.Extractor, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	// Get the extension
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Remove special characters, keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	// Replace multiple spaces with single space
	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	// Trim spaces
	base = strings.TrimSpace(base)

	// Truncate to reasonable length (50 chars for base, plus extension)
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	// If base is empty after sanitization, use a default
	if base == "" {
		base = "invoice"
	}

	return base + ext
}

// ExtractText runs the extractor over already-decoded document text
// without persisting anything.
func (s *Service) ExtractText(text string) (*extraction.Invoice, error) {
	inv, err := s.extractor.ExtractInvoice(text)
	if err != nil {
		return nil, fmt.Errorf("extracting invoice: %w", err)
	}
	return inv, nil
}

// ProcessDocument uploads an invoice document, extracts its fields, and saves it
func (s *Service) ProcessDocument(filename string, data []byte, contentType string) (*Record, error) {
	// Generate unique ID
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	// Sanitize filename to clean up scanner-generated long filenames
	cleanFilename := sanitizeFilename(filename)

	// Save file to storage
	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	// Pull the text layer out of the document
	text, err := extraction.DocumentText(data, contentType)
	if err != nil {
		slog.Error("Failed to read document text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Clean up the saved file since extraction failed
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("reading document text: %w", err)
	}

	// Extract invoice fields
	inv, err := s.extractor.ExtractInvoice(text)
	if err != nil {
		slog.Error("Failed to extract invoice",
			"filename", filename,
			"content_type", contentType,
			"error", err,
		)
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("extracting invoice: %w", err)
	}

	// Create invoice record
	record := &Record{
		ID:          id,
		Filename:    savedPath,
		ContentType: contentType,
		Invoice:     *inv,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Save to database
	if err := s.db.SaveInvoice(record); err != nil {
		// Clean up file if database save fails
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}

	return record, nil
}

// GetInvoice retrieves an invoice record by ID
func (s *Service) GetInvoice(id string) (*Record, error) {
	record, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return record, nil
}

// ListInvoices returns all invoice records
func (s *Service) ListInvoices() ([]*Record, error) {
	records, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return records, nil
}

// DeleteInvoice removes an invoice record and its file
func (s *Service) DeleteInvoice(id string) error {
	record, err := s.db.GetInvoice(id)
	if err != nil {
		return fmt.Errorf("getting invoice for deletion: %w", err)
	}

	// Delete file
	if err := s.storage.Delete(record.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", record.Filename, "error", err)
	}

	// Delete from database
	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice from database: %w", err)
	}
	return nil
}

// GetInvoiceFile retrieves the original document for an invoice record
func (s *Service) GetInvoiceFile(id string) ([]byte, string, error) {
	record, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice: %w", err)
	}

	data, err := s.storage.Get(record.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice file: %w", err)
	}

	return data, record.ContentType, nil
}
