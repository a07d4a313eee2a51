package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipts: generates the PDF receipt for a
// recorded payment and, when the student has a guardian email on file,
// enqueues the delivery job. PDF generation uses exponential backoff
// (max 3 attempts) before the receipt is parked for the retry cron.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/amare53/school-sub001/internal/infra"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipts.
type ReceiptJobPayload struct {
	PaymentID string `json:"payment_id"`
}

// ReceiptWorker turns a recorded payment into a PDF receipt and hands the
// delivery off to the email queue.
type ReceiptWorker struct {
	cashRepo       repository.CashRepository
	schoolRepo     repository.SchoolRepository
	receiptRepo    repository.ReceiptRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

// NewReceiptWorker wires all dependencies for the receipt worker.
func NewReceiptWorker(
	cashRepo repository.CashRepository,
	schoolRepo repository.SchoolRepository,
	receiptRepo repository.ReceiptRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		cashRepo:       cashRepo,
		schoolRepo:     schoolRepo,
		receiptRepo:    receiptRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the Payment (with student + fee type) and its session
//  3. Create the Receipt record with status="pending"
//  4. Generate the PDF with exponential backoff (max 3 attempts)
//  5. Enqueue the email job when a guardian email is on file
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	paymentID, err := uuid.Parse(payload.PaymentID)
	if err != nil {
		log.Error().Str("payment_id", payload.PaymentID).Msg("receipt_worker: invalid payment_id")
		return
	}

	payment, err := w.cashRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		log.Error().Err(err).Str("payment_id", payload.PaymentID).Msg("receipt_worker: payment not found")
		return
	}
	if payment.Student == nil || payment.FeeType == nil {
		log.Error().Str("payment_id", payload.PaymentID).Msg("receipt_worker: payment missing student or fee type")
		return
	}

	session, err := w.cashRepo.FindSessionByID(ctx, payment.SessionID)
	if err != nil {
		log.Error().Err(err).Str("payment_id", payload.PaymentID).Msg("receipt_worker: session not found")
		return
	}

	schoolName := "School Cash Desk"
	if school, err := w.schoolRepo.FindByID(ctx, payment.SchoolID); err == nil {
		schoolName = school.Name
	}

	receipt := &model.Receipt{
		PaymentID: paymentID,
		Status:    model.ReceiptPending,
	}
	if payment.Student.GuardianEmail != nil && *payment.Student.GuardianEmail != "" {
		receipt.EmailTo = payment.Student.GuardianEmail
	}
	if err := w.receiptRepo.Create(ctx, receipt); err != nil {
		log.Error().Err(err).Str("payment_id", payload.PaymentID).Msg("receipt_worker: failed to create receipt")
		return
	}

	var pdfPath string
	pdfErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateReceiptPDF(payment, payment.Student, payment.FeeType, session, schoolName, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("payment_id", payload.PaymentID).
				Msg("receipt_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})

	if pdfErr != nil {
		// Park for the retry cron
		receipt.Status = model.ReceiptError
		errMsg := fmt.Sprintf("PDF generation failed after 3 attempts: %v", pdfErr)
		receipt.LastError = &errMsg
		nextRetry := time.Now().Add(computeRetryBackoff(1))
		receipt.NextRetryAt = &nextRetry
		_ = w.receiptRepo.Update(ctx, receipt)
		log.Error().Err(pdfErr).Str("payment_id", payload.PaymentID).Msg("receipt_worker: PDF generation failed")
		return
	}

	receipt.PDFPath = &pdfPath

	// No guardian email on file — the printed slip is the only delivery
	if receipt.EmailTo == nil {
		receipt.Status = model.ReceiptSent
		_ = w.receiptRepo.Update(ctx, receipt)
		log.Info().Str("payment_id", payload.PaymentID).Str("pdf", pdfPath).Msg("receipt_worker: receipt generated, no guardian email")
		return
	}

	_ = w.receiptRepo.Update(ctx, receipt)

	emailJob := EmailJobPayload{
		ReceiptID: receipt.ID.String(),
		ToEmail:   *receipt.EmailTo,
		Subject:   fmt.Sprintf("%s — Payment Receipt %s", schoolName, session.SessionNumber),
		Body: fmt.Sprintf("Payment received for %s %s (matricule %s).\nAmount: %s\nFee: %s",
			payment.Student.FirstName, payment.Student.LastName, payment.Student.Matricule,
			payment.Amount.StringFixed(2), payment.FeeType.Name),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *receipt.EmailTo).Msg("receipt_worker: failed to enqueue email")
	} else {
		log.Info().Str("email", *receipt.EmailTo).Str("payment_id", payload.PaymentID).Msg("receipt_worker: email job enqueued")
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
