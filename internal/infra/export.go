package infra

// export.go — downloadable report rendering. Reports are aggregated in SQL by
// the report service; this file only formats the result as an Excel workbook
// (excelize) or a one-page PDF summary (fpdf) and returns the bytes for the
// HTTP download.

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/model"
)

// ReportExport bundles everything a rendered report needs.
type ReportExport struct {
	Title    string // "Daily Report — 2026-09-01" / "Period Report — 2026-09-01 to 2026-09-30"
	Totals   dto.ReportTotals
	Sessions []model.CashSession
}

// ReportToExcel renders the report as an .xlsx workbook with a summary sheet
// and a per-session detail sheet.
func ReportToExcel(r ReportExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	f.SetCellValue(summary, "A1", r.Title)
	f.SetCellStyle(summary, "A1", "A1", bold)

	rows := [][2]any{
		{"Payments total", r.Totals.PaymentTotal.StringFixed(2)},
		{"Payment count", r.Totals.PaymentCount},
		{"Movements in", r.Totals.MovementsIn.StringFixed(2)},
		{"Movements out", r.Totals.MovementsOut.StringFixed(2)},
		{"Movement count", r.Totals.MovementCount},
		{"Sessions", r.Totals.SessionCount},
		{"Closed sessions", r.Totals.ClosedSessionCount},
		{"Variance total", r.Totals.VarianceTotal.StringFixed(2)},
	}
	line := 3
	for _, row := range rows {
		f.SetCellValue(summary, fmt.Sprintf("A%d", line), row[0])
		f.SetCellValue(summary, fmt.Sprintf("B%d", line), row[1])
		line++
	}

	line++
	f.SetCellValue(summary, fmt.Sprintf("A%d", line), "By payment mode")
	f.SetCellStyle(summary, fmt.Sprintf("A%d", line), fmt.Sprintf("A%d", line), bold)
	line++
	for _, mode := range model.PaymentModes {
		f.SetCellValue(summary, fmt.Sprintf("A%d", line), mode)
		f.SetCellValue(summary, fmt.Sprintf("B%d", line), r.Totals.PaymentsByMode[mode].StringFixed(2))
		line++
	}

	const detail = "Sessions"
	if _, err := f.NewSheet(detail); err != nil {
		return nil, err
	}
	headers := []string{"Session", "Date", "Status", "Starting", "Expected", "Actual", "Variance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(detail, cell, h)
		f.SetCellStyle(detail, cell, cell, bold)
	}
	for i, s := range r.Sessions {
		row := i + 2
		f.SetCellValue(detail, fmt.Sprintf("A%d", row), s.SessionNumber)
		f.SetCellValue(detail, fmt.Sprintf("B%d", row), s.SessionDate.Format("2006-01-02"))
		f.SetCellValue(detail, fmt.Sprintf("C%d", row), s.Status)
		f.SetCellValue(detail, fmt.Sprintf("D%d", row), s.StartingCashAmount.StringFixed(2))
		if s.ExpectedClosingBalance != nil {
			f.SetCellValue(detail, fmt.Sprintf("E%d", row), s.ExpectedClosingBalance.StringFixed(2))
		}
		if s.ActualClosingBalance != nil {
			f.SetCellValue(detail, fmt.Sprintf("F%d", row), s.ActualClosingBalance.StringFixed(2))
		}
		if s.Variance != nil {
			f.SetCellValue(detail, fmt.Sprintf("G%d", row), s.Variance.StringFixed(2))
		}
	}
	f.SetColWidth(detail, "A", "G", 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportToPDF renders the report as a one-page A4 summary.
func ReportToPDF(r ReportExport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 9, r.Title, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	label := func(k, v string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW*0.5, 7, k, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW*0.5, 7, v, "", 1, "R", false, 0, "")
	}

	label("Payments total", r.Totals.PaymentTotal.StringFixed(2))
	label("Payment count", fmt.Sprintf("%d", r.Totals.PaymentCount))
	label("Movements in", r.Totals.MovementsIn.StringFixed(2))
	label("Movements out", r.Totals.MovementsOut.StringFixed(2))
	label("Sessions (closed/total)", fmt.Sprintf("%d / %d", r.Totals.ClosedSessionCount, r.Totals.SessionCount))
	label("Variance total", r.Totals.VarianceTotal.StringFixed(2))

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "By payment mode", "B", 1, "L", false, 0, "")
	for _, mode := range model.PaymentModes {
		label(modeLabel(mode), r.Totals.PaymentsByMode[mode].StringFixed(2))
	}

	if len(r.Sessions) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Sessions", "B", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.30, 6, "Session", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.20, 6, "Date", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.20, 6, "Status", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.30, 6, "Variance", "", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, s := range r.Sessions {
			variance := "—"
			if s.Variance != nil {
				variance = s.Variance.StringFixed(2)
			}
			pdf.CellFormat(contentW*0.30, 6, s.SessionNumber, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.20, 6, s.SessionDate.Format("2006-01-02"), "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.20, 6, s.Status, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.30, 6, variance, "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
