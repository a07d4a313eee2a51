package cashbox

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amare53/school-sub001/internal/model"
)

func openSession(starting float64) *model.CashSession {
	return &model.CashSession{
		ID:                 uuid.New(),
		SchoolID:           uuid.New(),
		CashierID:          uuid.New(),
		SessionNumber:      "CS-20260901-0001",
		StartingCashAmount: decimal.NewFromFloat(starting),
		Status:             model.SessionInProgress,
	}
}

func payment(sessionID uuid.UUID, mode string, amount float64) model.Payment {
	return model.Payment{
		ID:          uuid.New(),
		SessionID:   sessionID,
		StudentID:   uuid.New(),
		FeeTypeID:   uuid.New(),
		Amount:      decimal.NewFromFloat(amount),
		PaymentMode: mode,
	}
}

func movement(sessionID uuid.UUID, direction string, amount float64) model.CashMovement {
	return model.CashMovement{
		ID:        uuid.New(),
		SessionID: sessionID,
		Direction: direction,
		Amount:    decimal.NewFromFloat(amount),
		Reason:    "change fund",
	}
}

func TestExpectedBalance(t *testing.T) {
	// starting 50000 + payments 0 + in 15000 − out 5000 = 60000
	session := openSession(50000)
	store := NewStore()
	store.SetActiveSession(session)

	require.NoError(t, store.AddMovement(movement(session.ID, model.MovementIn, 15000)))
	require.NoError(t, store.AddMovement(movement(session.ID, model.MovementOut, 5000)))

	stats := store.Stats()
	assert.Equal(t, "60000", stats.ExpectedBalance.String())
	assert.Equal(t, "15000", stats.TotalMovementsIn.String())
	assert.Equal(t, "5000", stats.TotalMovementsOut.String())
	assert.Equal(t, 2, stats.MovementCount)
}

func TestPaymentsByMode(t *testing.T) {
	session := openSession(0)
	store := NewStore()
	store.SetActiveSession(session)

	require.NoError(t, store.AddPayment(payment(session.ID, model.ModeCash, 1000)))
	require.NoError(t, store.AddPayment(payment(session.ID, model.ModeCash, 2000)))
	require.NoError(t, store.AddPayment(payment(session.ID, model.ModeMobileMoney, 500)))

	stats := store.Stats()
	assert.Equal(t, "3500", stats.TotalPayments.String())
	assert.Equal(t, 3, stats.PaymentCount)
	assert.Equal(t, "3000", stats.PaymentsByMode[model.ModeCash].String())
	assert.Equal(t, "500", stats.PaymentsByMode[model.ModeMobileMoney].String())
	// Unused modes still appear with a zero total
	assert.Equal(t, "0", stats.PaymentsByMode[model.ModeBankTransfer].String())
	assert.Equal(t, "0", stats.PaymentsByMode[model.ModeCheck].String())
}

func TestAppendOrderIrrelevant(t *testing.T) {
	a := openSession(10000)
	b := &model.CashSession{}
	*b = *a

	records := []model.Payment{
		payment(a.ID, model.ModeCash, 300),
		payment(a.ID, model.ModeCheck, 700),
		payment(a.ID, model.ModeCash, 150),
	}

	forward := NewStore()
	forward.SetActiveSession(a)
	for _, p := range records {
		require.NoError(t, forward.AddPayment(p))
	}

	reversed := NewStore()
	reversed.SetActiveSession(b)
	for i := len(records) - 1; i >= 0; i-- {
		require.NoError(t, reversed.AddPayment(records[i]))
	}

	assert.Equal(t, forward.Stats().ExpectedBalance.String(), reversed.Stats().ExpectedBalance.String())
	assert.Equal(t, forward.Stats().PaymentsByMode[model.ModeCash].String(),
		reversed.Stats().PaymentsByMode[model.ModeCash].String())
}

func TestAppendGuards(t *testing.T) {
	store := NewStore()

	// No session at all
	err := store.AddPayment(payment(uuid.New(), model.ModeCash, 100))
	assert.ErrorIs(t, err, ErrNoActiveSession)

	// Wrong session id
	session := openSession(1000)
	store.SetActiveSession(session)
	err = store.AddPayment(payment(uuid.New(), model.ModeCash, 100))
	assert.ErrorIs(t, err, ErrSessionMismatch)
	err = store.AddMovement(movement(uuid.New(), model.MovementIn, 100))
	assert.ErrorIs(t, err, ErrSessionMismatch)

	// Session no longer in progress
	closed := openSession(1000)
	closed.Status = model.SessionClosed
	store.SetActiveSession(closed)
	err = store.AddPayment(payment(closed.ID, model.ModeCash, 100))
	assert.ErrorIs(t, err, ErrSessionClosed)

	// Nothing got in
	assert.Empty(t, store.Payments())
	assert.Empty(t, store.Movements())
}

func TestClearResetsEverything(t *testing.T) {
	session := openSession(5000)
	store := NewStore()
	store.SetActiveSession(session)
	require.NoError(t, store.AddPayment(payment(session.ID, model.ModeCash, 2500)))

	store.Clear()

	assert.Nil(t, store.Session())
	assert.Empty(t, store.Payments())
	stats := store.Stats()
	assert.True(t, stats.ExpectedBalance.IsZero())
	assert.Equal(t, 0, stats.PaymentCount)
}

func TestSetActiveSessionReplacesHistory(t *testing.T) {
	first := openSession(1000)
	store := NewStore()
	store.SetActiveSession(first)
	require.NoError(t, store.AddPayment(payment(first.ID, model.ModeCash, 400)))

	// Replacing with nil discards the collections; a fresh session starts clean
	store.SetActiveSession(nil)
	second := openSession(2000)
	store.SetActiveSession(second)

	assert.Empty(t, store.Payments())
	assert.Equal(t, "2000", store.Stats().ExpectedBalance.String())
}

func TestStatsDetachedFromStore(t *testing.T) {
	session := openSession(0)
	store := NewStore()
	store.SetActiveSession(session)
	require.NoError(t, store.AddPayment(payment(session.ID, model.ModeCash, 100)))

	stats := store.Stats()
	stats.PaymentsByMode[model.ModeCash] = decimal.NewFromInt(999999)

	// Mutating the returned map must not leak back into the store
	assert.Equal(t, "100", store.Stats().PaymentsByMode[model.ModeCash].String())
}

func TestComputeNilSession(t *testing.T) {
	stats := Compute(nil, []model.Payment{payment(uuid.New(), model.ModeCash, 50)}, nil)
	assert.True(t, stats.ExpectedBalance.IsZero())
	assert.Equal(t, 0, stats.PaymentCount)
}

func TestComputeRecomputeIdempotent(t *testing.T) {
	session := openSession(500)
	payments := []model.Payment{payment(session.ID, model.ModeCash, 250)}
	movements := []model.CashMovement{movement(session.ID, model.MovementOut, 100)}

	first := Compute(session, payments, movements)
	second := Compute(session, payments, movements)
	assert.Equal(t, first.ExpectedBalance.String(), second.ExpectedBalance.String())
	assert.Equal(t, "650", first.ExpectedBalance.String())
}
