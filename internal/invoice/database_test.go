package invoice

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"invoiceaudit/internal/extraction"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveInvoice", func() {
		var (
			record *Record
			err    error
		)

		BeforeEach(func() {
			record = &Record{
				ID:          "test-id",
				Filename:    "test.pdf",
				ContentType: "application/pdf",
				Invoice: extraction.Invoice{
					InvoiceID:    "2024001",
					SupplierName: "Acme Corp",
					Total:        1100.00,
				},
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveInvoice(record)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the record to the database", func() {
				saved, getErr := db.GetInvoice("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
			})
		})
	})

	Describe("GetInvoice", func() {
		var (
			recordID string
			record   *Record
			err      error
		)

		JustBeforeEach(func() {
			record, err = db.GetInvoice(recordID)
		})

		When("the record exists", func() {
			BeforeEach(func() {
				recordID = "test-id"
				testRecord := &Record{
					ID:          "test-id",
					Filename:    "test.pdf",
					ContentType: "application/pdf",
					Invoice: extraction.Invoice{
						InvoiceID:    "2024001",
						SupplierName: "Acme Corp",
						Currency:     "USD",
						Subtotal:     1000.00,
						Tax:          100.00,
						Total:        1100.00,
						Issues:       []string{},
					},
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				Expect(db.SaveInvoice(testRecord)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct record ID", func() {
				Expect(record.ID).To(Equal("test-id"))
			})

			It("should round-trip the extracted invoice", func() {
				Expect(record.Invoice.InvoiceID).To(Equal("2024001"))
				Expect(record.Invoice.SupplierName).To(Equal("Acme Corp"))
				Expect(record.Invoice.Total).To(Equal(1100.00))
			})
		})

		When("the record does not exist", func() {
			var expectedErr error

			BeforeEach(func() {
				recordID = "nonexistent"
				expectedErr = errors.New("invoice not found: nonexistent")
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(expectedErr))
			})
		})
	})

	Describe("ListInvoices", func() {
		var (
			records []*Record
			err     error
		)

		JustBeforeEach(func() {
			records, err = db.ListInvoices()
		})

		When("records exist", func() {
			BeforeEach(func() {
				record1 := &Record{
					ID:        "id1",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				record2 := &Record{
					ID:        "id2",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				Expect(db.SaveInvoice(record1)).NotTo(HaveOccurred())
				Expect(db.SaveInvoice(record2)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all records", func() {
				Expect(records).To(HaveLen(2))
			})
		})

		When("no records exist", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an empty list", func() {
				Expect(records).To(BeEmpty())
			})
		})
	})

	Describe("DeleteInvoice", func() {
		var (
			recordID string
			err      error
		)

		JustBeforeEach(func() {
			err = db.DeleteInvoice(recordID)
		})

		When("the record exists", func() {
			BeforeEach(func() {
				recordID = "test-id"
				record := &Record{
					ID:        "test-id",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				Expect(db.SaveInvoice(record)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the record from the database", func() {
				_, getErr := db.GetInvoice("test-id")
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("the record does not exist", func() {
			BeforeEach(func() {
				recordID = "nonexistent"
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			err := db.Close()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
