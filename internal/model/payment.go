package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment modes accepted at the cash desk.
const (
	ModeCash         = "cash"
	ModeMobileMoney  = "mobile_money"
	ModeBankTransfer = "bank_transfer"
	ModeCheck        = "check"
)

// PaymentModes lists every accepted mode, in reporting order.
var PaymentModes = []string{ModeCash, ModeMobileMoney, ModeBankTransfer, ModeCheck}

// Payment is an immutable record of money received against a fee type for a
// student, scoped to exactly one CashSession. Created once, never mutated —
// corrections are handled with compensating CashMovements.
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SchoolID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	StudentID   uuid.UUID       `gorm:"type:uuid;not null"`
	FeeTypeID   uuid.UUID       `gorm:"type:uuid;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMode string          `gorm:"type:varchar(20);not null"`
	Reference   string          `gorm:"type:varchar(64)"`
	Notes       *string
	CreatedAt   time.Time

	Student *Student `gorm:"foreignKey:StudentID"`
	FeeType *FeeType `gorm:"foreignKey:FeeTypeID"`
}
