package cashbox

import (
	"github.com/shopspring/decimal"

	"github.com/amare53/school-sub001/internal/model"
)

// SessionStats is the derived aggregate view of a cash session. It is a pure
// function of (session, payments, movements), recomputed from scratch after
// every mutation and never persisted.
type SessionStats struct {
	TotalPayments     decimal.Decimal            `json:"totalPayments"`
	PaymentCount      int                        `json:"paymentCount"`
	TotalMovementsIn  decimal.Decimal            `json:"totalMovementsIn"`
	TotalMovementsOut decimal.Decimal            `json:"totalMovementsOut"`
	MovementCount     int                        `json:"movementCount"`
	ExpectedBalance   decimal.Decimal            `json:"expectedBalance"`
	PaymentsByMode    map[string]decimal.Decimal `json:"paymentsByMode"`
}

// ZeroStats returns the all-zero aggregate used when no session is active.
// Every payment mode is present in the breakdown with a zero total.
func ZeroStats() SessionStats {
	byMode := make(map[string]decimal.Decimal, len(model.PaymentModes))
	for _, mode := range model.PaymentModes {
		byMode[mode] = decimal.Zero
	}
	return SessionStats{
		TotalPayments:     decimal.Zero,
		TotalMovementsIn:  decimal.Zero,
		TotalMovementsOut: decimal.Zero,
		ExpectedBalance:   decimal.Zero,
		PaymentsByMode:    byMode,
	}
}

// Compute derives SessionStats from a session and its recorded activity:
//
//	expectedBalance = startingCashAmount + Σ payments + Σ movements(in) − Σ movements(out)
//
// The order of the input slices does not affect the result. A nil session
// yields ZeroStats.
func Compute(session *model.CashSession, payments []model.Payment, movements []model.CashMovement) SessionStats {
	stats := ZeroStats()
	if session == nil {
		return stats
	}

	for _, p := range payments {
		stats.TotalPayments = stats.TotalPayments.Add(p.Amount)
		stats.PaymentsByMode[p.PaymentMode] = stats.PaymentsByMode[p.PaymentMode].Add(p.Amount)
	}
	stats.PaymentCount = len(payments)

	for _, m := range movements {
		if m.Direction == model.MovementOut {
			stats.TotalMovementsOut = stats.TotalMovementsOut.Add(m.Amount)
		} else {
			stats.TotalMovementsIn = stats.TotalMovementsIn.Add(m.Amount)
		}
	}
	stats.MovementCount = len(movements)

	stats.ExpectedBalance = session.StartingCashAmount.
		Add(stats.TotalPayments).
		Add(stats.TotalMovementsIn).
		Sub(stats.TotalMovementsOut)
	return stats
}

// copyStats returns a deep copy so callers can never alias the Store's
// internal breakdown map.
func copyStats(s SessionStats) SessionStats {
	byMode := make(map[string]decimal.Decimal, len(s.PaymentsByMode))
	for mode, total := range s.PaymentsByMode {
		byMode[mode] = total
	}
	s.PaymentsByMode = byMode
	return s
}
