package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pantrykeep/receipt-scan/internal/history"
)

// ScanLister is the slice of the history repository the exporter needs.
type ScanLister interface {
	ListScans(ctx context.Context, limit int) ([]history.ScanRecord, error)
}

// Service produces XLSX bytes from recorded scans.
type Service struct {
	scans  ScanLister
	logger *slog.Logger
}

func NewService(scans ScanLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{scans: scans, logger: logger}
}

// ExportScansXLSX returns an XLSX workbook (as bytes) with one row per
// recorded item, newest scans first. A limit <= 0 exports every recorded
// scan.
func (s *Service) ExportScansXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	recs, err := s.scans.ListScans(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Scanned Items"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Scan Date",
		"Source",
		"Item",
		"Quantity",
		"Price",
		"Category",
		"Confidence",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, rec := range recs {
		for _, item := range rec.Items {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			write(1, rec.CreatedAt.Format("2006-01-02 15:04"))
			write(2, rec.Source)
			write(3, item.Name)
			write(4, item.Quantity)
			if item.Price != nil {
				write(5, *item.Price)
			} else {
				write(5, "")
			}
			write(6, string(item.Category))
			write(7, string(item.Confidence))
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.Info("export.scans.ok",
		"scans", len(recs),
		"rows", row-2,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
