package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the PDF receipt to the guardian
// via SMTP and records the delivery outcome on the Receipt row. Failed sends
// are scheduled for the retry cron.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/amare53/school-sub001/internal/infra"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ReceiptID string `json:"receipt_id"`
	ToEmail   string `json:"to_email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	PDFPath   string `json:"pdf_path"`
}

// EmailWorker sends PDF receipts to guardian emails via SMTP.
type EmailWorker struct {
	mailer      *infra.Mailer
	receiptRepo repository.ReceiptRepository
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer *infra.Mailer, receiptRepo repository.ReceiptRepository) *EmailWorker {
	return &EmailWorker{mailer: mailer, receiptRepo: receiptRepo}
}

// Process sends an email with the PDF receipt as attachment and updates the
// Receipt delivery state.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	sendErr := w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)

	receiptID, err := uuid.Parse(payload.ReceiptID)
	if err != nil {
		if sendErr != nil {
			log.Error().Err(sendErr).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		}
		return
	}

	rc, err := w.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		log.Error().Err(err).Str("receipt_id", payload.ReceiptID).Msg("email_worker: receipt not found")
		return
	}

	if sendErr != nil {
		rc.Status = model.ReceiptError
		rc.RetryCount++
		errMsg := sendErr.Error()
		rc.LastError = &errMsg
		nextRetry := time.Now().Add(computeRetryBackoff(rc.RetryCount))
		rc.NextRetryAt = &nextRetry
		_ = w.receiptRepo.Update(ctx, rc)
		log.Error().Err(sendErr).Str("to", payload.ToEmail).Msg("email_worker: failed to send email, scheduled retry")
		return
	}

	rc.Status = model.ReceiptSent
	rc.NextRetryAt = nil
	rc.LastError = nil
	_ = w.receiptRepo.Update(ctx, rc)
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: receipt sent successfully")
}
