package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/pantrykeep/receipt-scan/constants"
	"github.com/pantrykeep/receipt-scan/internal/history"
	"github.com/pantrykeep/receipt-scan/internal/parser"
)

func TestExport(t *testing.T) {
	// Disable logging during tests
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Export Suite")
}

// fakeLister is a canned history.Repository read side.
type fakeLister struct {
	recs    []history.ScanRecord
	listErr error
}

func (f *fakeLister) ListScans(_ context.Context, _ int) ([]history.ScanRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.recs, nil
}

func price(v float64) *float64 {
	return &v
}

var _ = Describe("Service.ExportScansXLSX", func() {
	var (
		lister  *fakeLister
		service *Service
		data    []byte
		err     error
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	BeforeEach(func() {
		lister = &fakeLister{
			recs: []history.ScanRecord{{
				ID:        uuid.New(),
				CreatedAt: time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC),
				Source:    "vision",
				Success:   true,
				Message:   "ok",
				Items: []parser.Item{
					{Name: "Bananas", Quantity: "2 LB", Price: price(1.18), Category: constants.Produce, Confidence: constants.ConfidenceHigh},
					{Name: "Milk On Sale", Quantity: "1", Category: constants.Dairy, Confidence: constants.ConfidenceMedium},
				},
			}},
		}
		service = NewService(lister, logger)
	})

	JustBeforeEach(func() {
		data, err = service.ExportScansXLSX(context.Background(), 0)
	})

	When("scans are recorded", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("produces a readable workbook", func() {
			f, openErr := excelize.OpenReader(bytes.NewReader(data))
			Expect(openErr).NotTo(HaveOccurred())
			defer func() {
				_ = f.Close()
			}()

			header, _ := f.GetCellValue("Scanned Items", "A1")
			Expect(header).To(Equal("Scan Date"))
		})

		It("writes one row per item", func() {
			f, openErr := excelize.OpenReader(bytes.NewReader(data))
			Expect(openErr).NotTo(HaveOccurred())
			defer func() {
				_ = f.Close()
			}()

			name, _ := f.GetCellValue("Scanned Items", "C2")
			Expect(name).To(Equal("Bananas"))
			name, _ = f.GetCellValue("Scanned Items", "C3")
			Expect(name).To(Equal("Milk On Sale"))
		})

		It("leaves the price cell blank when the item had none", func() {
			f, openErr := excelize.OpenReader(bytes.NewReader(data))
			Expect(openErr).NotTo(HaveOccurred())
			defer func() {
				_ = f.Close()
			}()

			cell, _ := f.GetCellValue("Scanned Items", "E3")
			Expect(cell).To(Equal(""))
		})
	})

	When("the history query fails", func() {
		BeforeEach(func() {
			lister.listErr = errors.New("db gone")
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
			Expect(data).To(BeNil())
		})
	})
})
