package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt delivery states.
const (
	ReceiptPending = "pending"
	ReceiptSent    = "sent"
	ReceiptError   = "error"
)

// Receipt tracks the PDF receipt generated for a payment and its email
// delivery to the student's guardian. Delivery failures are retried by the
// background cron until RetryCount exhausts, then parked in the DLQ.
type Receipt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	EmailTo     *string
	PDFPath     *string
	Status      string `gorm:"type:varchar(20);not null;default:'pending'"`
	RetryCount  int    `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
