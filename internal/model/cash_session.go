package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session lifecycle states. Closed is terminal — a closed session and its
// payments/movements are never mutated again.
const (
	SessionOpeningControl = "opening_control"
	SessionInProgress     = "in_progress"
	SessionClosed         = "closed"
)

// CashSession represents one cashier-day of drawer activity, from opening
// count to closing reconciliation. At most one in_progress session exists
// per cashier at a time.
type CashSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CashierID uuid.UUID `gorm:"type:uuid;not null;index"`
	// SessionNumber is the human-readable identifier printed on reports,
	// e.g. CS-20260901-0042.
	SessionNumber      string          `gorm:"type:varchar(30);uniqueIndex;not null"`
	SessionDate        time.Time       `gorm:"type:date;not null;index"`
	StartingCashAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status             string          `gorm:"type:varchar(20);not null;default:'in_progress'"`
	OpeningNotes       *string

	// Closing fields — written exactly once by close-session.
	// Variance = ActualClosingBalance − ExpectedClosingBalance
	// (positive = surplus, negative = shortage).
	ExpectedClosingBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ActualClosingBalance   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Variance               *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ClosingNotes           *string
	OpenedAt               time.Time
	ClosedAt               *time.Time

	Payments  []Payment      `gorm:"foreignKey:SessionID"`
	Movements []CashMovement `gorm:"foreignKey:SessionID"`
}

// Movement directions.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// CashMovement is an immutable manual adjustment to the cash drawer not tied
// to a student payment (deposit, withdrawal, correction). Movements are NEVER
// updated or deleted — corrections create inverse entries.
type CashMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction   string          `gorm:"type:varchar(3);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason      string          `gorm:"not null"`
	Description *string
	CreatedAt   time.Time
}
