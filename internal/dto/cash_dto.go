package dto

import (
	"github.com/shopspring/decimal"

	"github.com/amare53/school-sub001/internal/cashbox"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	StartingCashAmount decimal.Decimal `json:"startingCashAmount" validate:"min=0"`
	Notes              *string         `json:"notes"`
}

type RecordPaymentRequest struct {
	StudentID   string          `json:"studentId"   validate:"required,uuid"`
	FeeTypeID   string          `json:"feeTypeId"   validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	PaymentMode string          `json:"paymentMode" validate:"required,oneof=cash mobile_money bank_transfer check"`
	Reference   string          `json:"reference"   validate:"omitempty,max=64"`
	Notes       *string         `json:"notes"`
}

type RecordMovementRequest struct {
	Direction   string          `json:"direction"   validate:"required,oneof=in out"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Reason      string          `json:"reason"      validate:"required"`
	Description *string         `json:"description"`
}

type CloseSessionRequest struct {
	ActualClosingBalance decimal.Decimal `json:"actualClosingBalance" validate:"min=0"`
	Notes                *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID                     string           `json:"id"`
	SessionNumber          string           `json:"sessionNumber"`
	SchoolID               string           `json:"schoolId"`
	CashierID              string           `json:"cashierId"`
	SessionDate            string           `json:"sessionDate"`
	StartingCashAmount     decimal.Decimal  `json:"startingCashAmount"`
	Status                 string           `json:"status"`
	OpeningNotes           *string          `json:"openingNotes"`
	ExpectedClosingBalance *decimal.Decimal `json:"expectedClosingBalance"`
	ActualClosingBalance   *decimal.Decimal `json:"actualClosingBalance"`
	Variance               *decimal.Decimal `json:"variance"`
	ClosingNotes           *string          `json:"closingNotes"`
	OpenedAt               string           `json:"openedAt"`
	ClosedAt               *string          `json:"closedAt"`
}

type PaymentResponse struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	StudentID   string          `json:"studentId"`
	FeeTypeID   string          `json:"feeTypeId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"paymentMode"`
	Reference   string          `json:"reference"`
	Notes       *string         `json:"notes"`
	CreatedAt   string          `json:"createdAt"`
}

type MovementResponse struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Description *string         `json:"description"`
	CreatedAt   string          `json:"createdAt"`
}

// RecordPaymentResponse returns the created record together with the
// recomputed session aggregates so the client can refresh its running
// balance without a second round-trip.
type RecordPaymentResponse struct {
	Payment PaymentResponse      `json:"payment"`
	Stats   cashbox.SessionStats `json:"stats"`
}

type RecordMovementResponse struct {
	Movement MovementResponse     `json:"movement"`
	Stats    cashbox.SessionStats `json:"stats"`
}

// CurrentSessionResponse is the full client-visible view of the active
// session: the session row, its history, and the derived aggregates.
type CurrentSessionResponse struct {
	Session   SessionResponse      `json:"session"`
	Payments  []PaymentResponse    `json:"payments"`
	Movements []MovementResponse   `json:"movements"`
	Stats     cashbox.SessionStats `json:"stats"`
}

// Variance labels reported on close. The label is informational only and
// never blocks the close.
const (
	VarianceBalanced = "balanced"
	VarianceSurplus  = "surplus"
	VarianceShortage = "shortage"
)

type CloseSessionResponse struct {
	Session                SessionResponse `json:"session"`
	ExpectedClosingBalance decimal.Decimal `json:"expectedClosingBalance"`
	ActualClosingBalance   decimal.Decimal `json:"actualClosingBalance"`
	Variance               decimal.Decimal `json:"variance"`
	VarianceLabel          string          `json:"varianceLabel"`
}
