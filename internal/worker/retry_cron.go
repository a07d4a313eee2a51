package worker

// retry_cron.go
// Background goroutine that periodically re-attempts delivery for receipts
// stuck in status='error' with a next_retry_at in the past. Uses the Circuit
// Breaker to avoid hammering a downed SMTP relay.

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/amare53/school-sub001/internal/infra"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxReceiptRetries bounds delivery attempts before the receipt is moved
	// to the DLQ for manual inspection.
	MaxReceiptRetries = 5
)

// computeRetryBackoff returns the wait before the next delivery attempt:
// 1m, 2m, 4m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	backoff := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if backoff > 30*time.Minute {
		backoff = 30 * time.Minute
	}
	return backoff
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	ReceiptRepo repository.ReceiptRepository
	Mailer      *infra.Mailer
	CB          *infra.CircuitBreaker
	RDB         *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries failed receipts, and re-attempts delivery through the CB.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed relay
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	receipts, err := cfg.ReceiptRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}

	if len(receipts) == 0 {
		return
	}

	log.Info().Int("count", len(receipts)).Msg("retry_cron: processing failed receipts")

	for i := range receipts {
		rc := &receipts[i]

		// Check CB state before each call — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		// Delivery needs both a recipient and a rendered PDF; anything else
		// was parked by a generation failure and cannot be retried here.
		if rc.EmailTo == nil || rc.PDFPath == nil {
			rc.NextRetryAt = nil
			_ = cfg.ReceiptRepo.Update(ctx, rc)
			log.Warn().Str("receipt_id", rc.ID.String()).Msg("retry_cron: receipt not deliverable, dropping from retry queue")
			continue
		}

		cbErr := cfg.CB.Execute(func() error {
			return cfg.Mailer.SendReceipt(*rc.EmailTo, "Payment Receipt", "Please find your payment receipt attached.", *rc.PDFPath)
		})

		if cbErr != nil {
			rc.RetryCount++
			errMsg := cbErr.Error()
			rc.LastError = &errMsg
			nextRetry := time.Now().Add(computeRetryBackoff(rc.RetryCount))
			rc.NextRetryAt = &nextRetry

			if rc.RetryCount >= MaxReceiptRetries {
				rc.NextRetryAt = nil
				log.Error().
					Str("receipt_id", rc.ID.String()).
					Str("payment_id", rc.PaymentID.String()).
					Int("retries", rc.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to DLQ")

				// Send to DLQ for manual inspection
				payload := fmt.Sprintf(`{"receipt_id":"%s","payment_id":"%s"}`, rc.ID, rc.PaymentID)
				SendToDLQ(ctx, cfg.RDB, QueueEmail, "email", []byte(payload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxReceiptRetries, errMsg),
					rc.RetryCount)
			} else {
				log.Warn().
					Str("receipt_id", rc.ID.String()).
					Int("retry_count", rc.RetryCount).
					Time("next_retry_at", *rc.NextRetryAt).
					Msg("retry_cron: delivery retry failed, scheduled next attempt")
			}

			_ = cfg.ReceiptRepo.Update(ctx, rc)
			continue
		}

		rc.Status = model.ReceiptSent
		rc.NextRetryAt = nil
		rc.LastError = nil
		_ = cfg.ReceiptRepo.Update(ctx, rc)

		log.Info().
			Str("receipt_id", rc.ID.String()).
			Int("total_retries", rc.RetryCount).
			Msg("retry_cron: receipt delivered after retry")
	}
}
