package infra

// pdf.go — PDF receipt generation using go-pdf/fpdf.
// Generates A7-size receipt-style slips with:
//   - School name header
//   - Receipt number (payment ID short form) and timestamp
//   - Student name and matricule
//   - Fee type, payment mode and reference
//   - Bold amount
//
// The output file is saved to storagePath/receipt_{paymentID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/amare53/school-sub001/internal/model"
)

// GenerateReceiptPDF renders the payment receipt handed (or mailed) to the
// guardian. storagePath is created if needed. Returns the absolute path to the
// generated file.
func GenerateReceiptPDF(payment *model.Payment, student *model.Student, feeType *model.FeeType, session *model.CashSession, schoolName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", payment.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — matches the slip printers used at the cash desk
	// (custom size, "A7" is not in fpdf's named list)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, schoolName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Receipt info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Receipt "+shortID(payment.ID.String()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, payment.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Session "+session.SessionNumber, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Student ───────────────────────────────────────────────────────────────
	name := student.FirstName + " " + student.LastName
	if len(name) > 30 {
		name = name[:29] + "…"
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Matricule: "+student.Matricule, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Payment detail ────────────────────────────────────────────────────────
	col1 := contentW * 0.45
	col2 := contentW * 0.55

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1, 5, "Fee:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, feeType.Name, "", 1, "R", false, 0, "")
	pdf.CellFormat(col1, 5, "Mode:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, modeLabel(payment.PaymentMode), "", 1, "R", false, 0, "")
	if payment.Reference != "" {
		pdf.CellFormat(col1, 5, "Reference:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, payment.Reference, "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Amount ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 6, "AMOUNT:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, payment.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Keep this receipt for your records.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// shortID keeps the first UUID block — enough to read back to a cashier over
// the phone while staying unique within a school day.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return id
}

func modeLabel(mode string) string {
	switch mode {
	case model.ModeCash:
		return "Cash"
	case model.ModeMobileMoney:
		return "Mobile Money"
	case model.ModeBankTransfer:
		return "Bank Transfer"
	case model.ModeCheck:
		return "Check"
	default:
		return mode
	}
}
