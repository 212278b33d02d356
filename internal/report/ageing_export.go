// Package report renders reconciliation data into spreadsheet form for the
// shop's accountant.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/service"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
)

// AgeingExporter writes the outstanding snapshot into an Excel workbook
type AgeingExporter struct {
	companyName string
	logger      *zap.Logger
}

// NewAgeingExporter creates a new ageing exporter
func NewAgeingExporter(companyName string, logger *zap.Logger) *AgeingExporter {
	return &AgeingExporter{
		companyName: companyName,
		logger:      logger,
	}
}

// Export writes a workbook with the bill detail sheet and a bucket summary
// sheet to w.
func (e *AgeingExporter) Export(w io.Writer, bills []*entity.OutstandingBill, summary *service.AgeingSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	detailSheet := "Outstanding Bills"
	if err := f.SetSheetName("Sheet1", detailSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	e.setCell(f, detailSheet, "A1", e.companyName)
	e.setCell(f, detailSheet, "A2", "Outstanding bills as of "+time.Now().Format("2006-01-02"))

	headers := []string{"Party", "Bill", "Bill Date", "Closing Balance", "Credit Period", "Ageing Days", "Bucket", "Overdue"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		e.setCell(f, detailSheet, cell, h)
	}

	for i, bill := range bills {
		row := i + 5
		e.setRow(f, detailSheet, row,
			bill.PartyName,
			bill.BillName,
			bill.BillDate.Format("2006-01-02"),
			bill.ClosingBalance.StringFixed(2),
			fmt.Sprintf("%d", bill.CreditPeriod),
			fmt.Sprintf("%d", bill.AgeingDays),
			bill.Bucket,
			yesNo(bill.Overdue()),
		)
	}

	summarySheet := "Ageing Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	e.setCell(f, summarySheet, "A1", "Bucket")
	e.setCell(f, summarySheet, "B1", "Bills")
	e.setCell(f, summarySheet, "C1", "Total")
	for i, bucket := range summary.Buckets {
		row := i + 2
		e.setRow(f, summarySheet, row,
			bucket.Bucket,
			fmt.Sprintf("%d", bucket.BillCount),
			bucket.Total.StringFixed(2),
		)
	}
	totalRow := len(summary.Buckets) + 2
	e.setRow(f, summarySheet, totalRow, "Grand Total", "", summary.GrandTotal.StringFixed(2))

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Ageing workbook exported",
		zap.Int("bill_count", len(bills)),
		zap.Int("bucket_count", len(summary.Buckets)))
	return nil
}

func (e *AgeingExporter) setRow(f *excelize.File, sheet string, row int, values ...string) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		e.setCell(f, sheet, cell, v)
	}
}

func (e *AgeingExporter) setCell(f *excelize.File, sheet, cell, value string) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
