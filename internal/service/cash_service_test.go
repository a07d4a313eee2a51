package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amare53/school-sub001/internal/cashbox"
	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
	"github.com/amare53/school-sub001/internal/worker"
)

// ── Full in-memory CashRepository ────────────────────────────────────────────

type fakeCashRepo struct {
	sessions  map[uuid.UUID]*model.CashSession
	payments  []model.Payment
	movements []model.CashMovement
	seq       int64
}

func newFakeCashRepo() *fakeCashRepo {
	return &fakeCashRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *fakeCashRepo) CreateSession(_ context.Context, s *model.CashSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeCashRepo) FindOpenSessionByCashier(_ context.Context, cashierID uuid.UUID) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.CashierID == cashierID && s.Status == model.SessionInProgress {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCashRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeCashRepo) UpdateSession(_ context.Context, s *model.CashSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeCashRepo) ListClosedSessions(_ context.Context, schoolID uuid.UUID, page, limit int) ([]model.CashSession, int64, error) {
	var all []model.CashSession
	for _, s := range r.sessions {
		if s.SchoolID == schoolID && s.Status == model.SessionClosed {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeCashRepo) NextSessionNumber(_ context.Context, date time.Time) (string, error) {
	r.seq++
	return fmt.Sprintf("CS-%s-%04d", date.Format("20060102"), r.seq), nil
}

func (r *fakeCashRepo) CreatePayment(_ context.Context, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakeCashRepo) FindPaymentByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	for _, p := range r.payments {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeCashRepo) ListPayments(_ context.Context, sessionID uuid.UUID) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range r.payments {
		if p.SessionID == sessionID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeCashRepo) CountPayments(_ context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.payments {
		if p.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCashRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeCashRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var result []model.CashMovement
	for _, m := range r.movements {
		if m.SessionID == sessionID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeCashRepo) CountMovements(_ context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range r.movements {
		if m.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

var _ repository.CashRepository = (*fakeCashRepo)(nil)

// ── In-memory roster repositories ────────────────────────────────────────────

type fakeStudentRepo struct {
	students map[uuid.UUID]*model.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]*model.Student)}
}

func (r *fakeStudentRepo) Create(_ context.Context, s *model.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.students[s.ID] = &cp
	return nil
}

func (r *fakeStudentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStudentRepo) FindByMatricule(_ context.Context, schoolID uuid.UUID, matricule string) (*model.Student, error) {
	for _, s := range r.students {
		if s.SchoolID == schoolID && s.Matricule == matricule {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeStudentRepo) List(_ context.Context, schoolID uuid.UUID, page, limit int) ([]model.Student, int64, error) {
	var all []model.Student
	for _, s := range r.students {
		if s.SchoolID == schoolID {
			all = append(all, *s)
		}
	}
	return all, int64(len(all)), nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *model.Student) error {
	cp := *s
	r.students[s.ID] = &cp
	return nil
}

func (r *fakeStudentRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if s, ok := r.students[id]; ok {
		s.Active = false
	}
	return nil
}

var _ repository.StudentRepository = (*fakeStudentRepo)(nil)

type fakeFeeTypeRepo struct {
	types map[uuid.UUID]*model.FeeType
}

func newFakeFeeTypeRepo() *fakeFeeTypeRepo {
	return &fakeFeeTypeRepo{types: make(map[uuid.UUID]*model.FeeType)}
}

func (r *fakeFeeTypeRepo) Create(_ context.Context, f *model.FeeType) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	cp := *f
	r.types[f.ID] = &cp
	return nil
}

func (r *fakeFeeTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FeeType, error) {
	f, ok := r.types[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFeeTypeRepo) FindByCode(_ context.Context, schoolID uuid.UUID, code string) (*model.FeeType, error) {
	for _, f := range r.types {
		if f.SchoolID == schoolID && f.Code == code {
			cp := *f
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeFeeTypeRepo) List(_ context.Context, schoolID uuid.UUID) ([]model.FeeType, error) {
	var all []model.FeeType
	for _, f := range r.types {
		if f.SchoolID == schoolID {
			all = append(all, *f)
		}
	}
	return all, nil
}

func (r *fakeFeeTypeRepo) Update(_ context.Context, f *model.FeeType) error {
	cp := *f
	r.types[f.ID] = &cp
	return nil
}

func (r *fakeFeeTypeRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if f, ok := r.types[id]; ok {
		f.Active = false
	}
	return nil
}

var _ repository.FeeTypeRepository = (*fakeFeeTypeRepo)(nil)

// ── Test harness ─────────────────────────────────────────────────────────────

type cashFixture struct {
	svc       CashService
	cashRepo  *fakeCashRepo
	schoolID  uuid.UUID
	cashierID uuid.UUID
	studentID uuid.UUID
	feeTypeID uuid.UUID
	students  *fakeStudentRepo
	feeTypes  *fakeFeeTypeRepo
}

// offlineRedis returns a client pointing at a closed port. Snapshot saves and
// job enqueues are best-effort, so the service must tolerate the failures.
func offlineRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 10 * time.Millisecond})
}

func newCashFixture(t *testing.T) *cashFixture {
	t.Helper()

	cashRepo := newFakeCashRepo()
	studentRepo := newFakeStudentRepo()
	feeTypeRepo := newFakeFeeTypeRepo()

	schoolID := uuid.New()
	student := &model.Student{SchoolID: schoolID, FirstName: "Awa", LastName: "Diallo", Matricule: "MAT-001", Active: true}
	require.NoError(t, studentRepo.Create(context.Background(), student))
	feeType := &model.FeeType{SchoolID: schoolID, Name: "Tuition", Code: "TUI", Active: true}
	require.NoError(t, feeTypeRepo.Create(context.Background(), feeType))

	rdb := offlineRedis()
	svc := NewCashService(
		cashRepo, studentRepo, feeTypeRepo,
		cashbox.NewRegistry(), cashbox.NewSnapshotCache(rdb), worker.NewDispatcher(rdb),
	)

	return &cashFixture{
		svc:       svc,
		cashRepo:  cashRepo,
		schoolID:  schoolID,
		cashierID: uuid.New(),
		studentID: student.ID,
		feeTypeID: feeType.ID,
		students:  studentRepo,
		feeTypes:  feeTypeRepo,
	}
}

func (f *cashFixture) open(t *testing.T, starting float64) *dto.CurrentSessionResponse {
	t.Helper()
	resp, err := f.svc.OpenSession(context.Background(), f.schoolID, f.cashierID, dto.OpenSessionRequest{
		StartingCashAmount: decimal.NewFromFloat(starting),
	})
	require.NoError(t, err)
	return resp
}

func (f *cashFixture) pay(t *testing.T, mode string, amount float64) *dto.RecordPaymentResponse {
	t.Helper()
	resp, err := f.svc.RecordPayment(context.Background(), f.schoolID, f.cashierID, dto.RecordPaymentRequest{
		StudentID:   f.studentID.String(),
		FeeTypeID:   f.feeTypeID.String(),
		Amount:      decimal.NewFromFloat(amount),
		PaymentMode: mode,
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestOpenSession(t *testing.T) {
	f := newCashFixture(t)

	resp := f.open(t, 50000)
	assert.Equal(t, model.SessionInProgress, resp.Session.Status)
	assert.Equal(t, "50000", resp.Session.StartingCashAmount.String())
	assert.Contains(t, resp.Session.SessionNumber, "CS-")
	assert.Equal(t, "50000", resp.Stats.ExpectedBalance.String())
}

func TestOpenSessionDuplicate(t *testing.T) {
	f := newCashFixture(t)
	f.open(t, 5000)

	_, err := f.svc.OpenSession(context.Background(), f.schoolID, f.cashierID, dto.OpenSessionRequest{
		StartingCashAmount: decimal.NewFromFloat(2000),
	})
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)

	// A different cashier is unaffected
	_, err = f.svc.OpenSession(context.Background(), f.schoolID, uuid.New(), dto.OpenSessionRequest{
		StartingCashAmount: decimal.NewFromFloat(2000),
	})
	assert.NoError(t, err)
}

func TestRecordPaymentUpdatesStats(t *testing.T) {
	f := newCashFixture(t)
	f.open(t, 10000)

	resp := f.pay(t, model.ModeCash, 3000)
	assert.Equal(t, "3000", resp.Payment.Amount.String())
	assert.Equal(t, "13000", resp.Stats.ExpectedBalance.String())

	resp = f.pay(t, model.ModeMobileMoney, 500)
	assert.Equal(t, "13500", resp.Stats.ExpectedBalance.String())
	assert.Equal(t, "3000", resp.Stats.PaymentsByMode[model.ModeCash].String())
	assert.Equal(t, "500", resp.Stats.PaymentsByMode[model.ModeMobileMoney].String())
	assert.Equal(t, 2, resp.Stats.PaymentCount)
}

func TestRecordPaymentWithoutSession(t *testing.T) {
	f := newCashFixture(t)

	_, err := f.svc.RecordPayment(context.Background(), f.schoolID, f.cashierID, dto.RecordPaymentRequest{
		StudentID:   f.studentID.String(),
		FeeTypeID:   f.feeTypeID.String(),
		Amount:      decimal.NewFromFloat(100),
		PaymentMode: model.ModeCash,
	})
	assert.ErrorIs(t, err, ErrNoOpenSession)
}

func TestRecordPaymentInactiveStudent(t *testing.T) {
	f := newCashFixture(t)
	f.open(t, 1000)
	require.NoError(t, f.students.SoftDelete(context.Background(), f.studentID))

	_, err := f.svc.RecordPayment(context.Background(), f.schoolID, f.cashierID, dto.RecordPaymentRequest{
		StudentID:   f.studentID.String(),
		FeeTypeID:   f.feeTypeID.String(),
		Amount:      decimal.NewFromFloat(100),
		PaymentMode: model.ModeCash,
	})
	assert.ErrorIs(t, err, ErrStudentInactive)
}

func TestRecordPaymentForeignSchoolStudent(t *testing.T) {
	f := newCashFixture(t)
	f.open(t, 1000)

	// A student enrolled at another school must not be payable here
	other := &model.Student{SchoolID: uuid.New(), FirstName: "X", LastName: "Y", Matricule: "Z", Active: true}
	require.NoError(t, f.students.Create(context.Background(), other))

	_, err := f.svc.RecordPayment(context.Background(), f.schoolID, f.cashierID, dto.RecordPaymentRequest{
		StudentID:   other.ID.String(),
		FeeTypeID:   f.feeTypeID.String(),
		Amount:      decimal.NewFromFloat(100),
		PaymentMode: model.ModeCash,
	})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestRecordMovementDirections(t *testing.T) {
	f := newCashFixture(t)
	f.open(t, 50000)

	in, err := f.svc.RecordMovement(context.Background(), f.schoolID, f.cashierID, dto.RecordMovementRequest{
		Direction: model.MovementIn,
		Amount:    decimal.NewFromFloat(15000),
		Reason:    "bank change fund",
	})
	require.NoError(t, err)
	assert.Equal(t, "65000", in.Stats.ExpectedBalance.String())

	out, err := f.svc.RecordMovement(context.Background(), f.schoolID, f.cashierID, dto.RecordMovementRequest{
		Direction: model.MovementOut,
		Amount:    decimal.NewFromFloat(5000),
		Reason:    "bank deposit",
	})
	require.NoError(t, err)
	assert.Equal(t, "60000", out.Stats.ExpectedBalance.String())
	assert.Equal(t, 2, out.Stats.MovementCount)
}

func TestCloseSessionBalanced(t *testing.T) {
	f := newCashFixture(t)
	opened := f.open(t, 10000)
	f.pay(t, model.ModeCash, 2500)

	resp, err := f.svc.CloseSession(context.Background(), f.schoolID, f.cashierID,
		uuid.MustParse(opened.Session.ID), dto.CloseSessionRequest{
			ActualClosingBalance: decimal.NewFromFloat(12500),
		})
	require.NoError(t, err)
	assert.Equal(t, "12500", resp.ExpectedClosingBalance.String())
	assert.Equal(t, "0", resp.Variance.String())
	assert.Equal(t, dto.VarianceBalanced, resp.VarianceLabel)
	assert.Equal(t, model.SessionClosed, resp.Session.Status)
	assert.NotNil(t, resp.Session.ClosedAt)
}

func TestCloseSessionShortage(t *testing.T) {
	f := newCashFixture(t)
	opened := f.open(t, 10000)
	f.pay(t, model.ModeCash, 5000)

	// Drawer counts 13000 against an expected 15000 → −2000 shortage.
	// The variance is recorded, never a blocker.
	resp, err := f.svc.CloseSession(context.Background(), f.schoolID, f.cashierID,
		uuid.MustParse(opened.Session.ID), dto.CloseSessionRequest{
			ActualClosingBalance: decimal.NewFromFloat(13000),
		})
	require.NoError(t, err)
	assert.Equal(t, "-2000", resp.Variance.String())
	assert.Equal(t, dto.VarianceShortage, resp.VarianceLabel)

	// Persisted row carries the reconciliation fields
	stored, err := f.cashRepo.FindSessionByID(context.Background(), uuid.MustParse(opened.Session.ID))
	require.NoError(t, err)
	require.NotNil(t, stored.Variance)
	assert.Equal(t, "-2000", stored.Variance.String())
}

func TestCloseSessionSurplus(t *testing.T) {
	f := newCashFixture(t)
	opened := f.open(t, 1000)

	resp, err := f.svc.CloseSession(context.Background(), f.schoolID, f.cashierID,
		uuid.MustParse(opened.Session.ID), dto.CloseSessionRequest{
			ActualClosingBalance: decimal.NewFromFloat(1250),
		})
	require.NoError(t, err)
	assert.Equal(t, "250", resp.Variance.String())
	assert.Equal(t, dto.VarianceSurplus, resp.VarianceLabel)
}

func TestCloseSessionGuards(t *testing.T) {
	f := newCashFixture(t)
	opened := f.open(t, 1000)
	sessionID := uuid.MustParse(opened.Session.ID)
	req := dto.CloseSessionRequest{ActualClosingBalance: decimal.NewFromFloat(1000)}

	// Another cashier cannot close someone else's session
	_, err := f.svc.CloseSession(context.Background(), f.schoolID, uuid.New(), sessionID, req)
	assert.ErrorIs(t, err, ErrNotSessionOwner)

	// Wrong school cannot even see it
	_, err = f.svc.CloseSession(context.Background(), uuid.New(), f.cashierID, sessionID, req)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// First close succeeds, second is rejected
	_, err = f.svc.CloseSession(context.Background(), f.schoolID, f.cashierID, sessionID, req)
	require.NoError(t, err)
	_, err = f.svc.CloseSession(context.Background(), f.schoolID, f.cashierID, sessionID, req)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestCurrentSessionAfterRestart(t *testing.T) {
	// The registry is rebuilt from the database when the in-memory view is
	// gone (fresh registry simulates a process restart).
	f := newCashFixture(t)
	opened := f.open(t, 2000)
	f.pay(t, model.ModeCash, 800)

	rdb := offlineRedis()
	restarted := NewCashService(
		f.cashRepo, f.students, f.feeTypes,
		cashbox.NewRegistry(), cashbox.NewSnapshotCache(rdb), worker.NewDispatcher(rdb),
	)

	resp, err := restarted.CurrentSession(context.Background(), f.schoolID, f.cashierID)
	require.NoError(t, err)
	assert.Equal(t, opened.Session.ID, resp.Session.ID)
	assert.Len(t, resp.Payments, 1)
	assert.Equal(t, "2800", resp.Stats.ExpectedBalance.String())
}

func TestRecordPaymentAfterRestartNoDoubleCount(t *testing.T) {
	// When the store is rebuilt from the database the just-persisted payment
	// is already in the loaded rows and must not be counted twice.
	f := newCashFixture(t)
	f.open(t, 10000)
	f.pay(t, model.ModeCash, 1000)

	rdb := offlineRedis()
	restarted := NewCashService(
		f.cashRepo, f.students, f.feeTypes,
		cashbox.NewRegistry(), cashbox.NewSnapshotCache(rdb), worker.NewDispatcher(rdb),
	)

	resp, err := restarted.RecordPayment(context.Background(), f.schoolID, f.cashierID, dto.RecordPaymentRequest{
		StudentID:   f.studentID.String(),
		FeeTypeID:   f.feeTypeID.String(),
		Amount:      decimal.NewFromFloat(2000),
		PaymentMode: model.ModeCash,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Stats.PaymentCount)
	assert.Equal(t, "13000", resp.Stats.ExpectedBalance.String())

	// The rebuilt store serves the same totals afterwards
	current, err := restarted.CurrentSession(context.Background(), f.schoolID, f.cashierID)
	require.NoError(t, err)
	assert.Len(t, current.Payments, 2)
	assert.Equal(t, "13000", current.Stats.ExpectedBalance.String())
}

func TestRecordMovementAfterRestartNoDoubleCount(t *testing.T) {
	f := newCashFixture(t)
	f.open(t, 10000)
	_, err := f.svc.RecordMovement(context.Background(), f.schoolID, f.cashierID, dto.RecordMovementRequest{
		Direction: model.MovementOut,
		Amount:    decimal.NewFromFloat(1000),
		Reason:    "bank deposit",
	})
	require.NoError(t, err)

	rdb := offlineRedis()
	restarted := NewCashService(
		f.cashRepo, f.students, f.feeTypes,
		cashbox.NewRegistry(), cashbox.NewSnapshotCache(rdb), worker.NewDispatcher(rdb),
	)

	resp, err := restarted.RecordMovement(context.Background(), f.schoolID, f.cashierID, dto.RecordMovementRequest{
		Direction: model.MovementIn,
		Amount:    decimal.NewFromFloat(500),
		Reason:    "change fund",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Stats.MovementCount)
	assert.Equal(t, "9500", resp.Stats.ExpectedBalance.String())
}

func TestSnapshotUsable(t *testing.T) {
	f := newCashFixture(t)
	f.open(t, 1000)
	f.pay(t, model.ModeCash, 200)

	svc := f.svc.(*cashService)
	session, err := f.cashRepo.FindOpenSessionByCashier(context.Background(), f.cashierID)
	require.NoError(t, err)
	payments, err := f.cashRepo.ListPayments(context.Background(), session.ID)
	require.NoError(t, err)

	fresh := &cashbox.Snapshot{Session: session, Payments: payments}
	assert.True(t, svc.snapshotUsable(context.Background(), fresh, session))

	// A snapshot that missed the last write is rejected, forcing a DB rebuild
	stale := &cashbox.Snapshot{Session: session}
	assert.False(t, svc.snapshotUsable(context.Background(), stale, session))

	// A snapshot of a different session never applies
	other := *session
	other.ID = uuid.New()
	assert.False(t, svc.snapshotUsable(context.Background(), fresh, &other))
}

func TestCurrentSessionNone(t *testing.T) {
	f := newCashFixture(t)
	_, err := f.svc.CurrentSession(context.Background(), f.schoolID, f.cashierID)
	assert.ErrorIs(t, err, ErrNoOpenSession)
}

func TestListSessionsOnlyClosed(t *testing.T) {
	f := newCashFixture(t)
	opened := f.open(t, 500)

	sessions, total, err := f.svc.ListSessions(context.Background(), f.schoolID, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sessions)

	_, err = f.svc.CloseSession(context.Background(), f.schoolID, f.cashierID,
		uuid.MustParse(opened.Session.ID), dto.CloseSessionRequest{
			ActualClosingBalance: decimal.NewFromFloat(500),
		})
	require.NoError(t, err)

	sessions, total, err = f.svc.ListSessions(context.Background(), f.schoolID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, sessions, 1)
	assert.Equal(t, model.SessionClosed, sessions[0].Status)
}

func TestSessionDrillDown(t *testing.T) {
	f := newCashFixture(t)
	opened := f.open(t, 1000)
	f.pay(t, model.ModeCash, 300)
	_, err := f.svc.RecordMovement(context.Background(), f.schoolID, f.cashierID, dto.RecordMovementRequest{
		Direction: model.MovementOut,
		Amount:    decimal.NewFromFloat(100),
		Reason:    "petty cash",
	})
	require.NoError(t, err)

	sessionID := uuid.MustParse(opened.Session.ID)
	payments, err := f.svc.SessionPayments(context.Background(), f.schoolID, sessionID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	movements, err := f.svc.SessionMovements(context.Background(), f.schoolID, sessionID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)

	// Scoped to the right school
	_, err = f.svc.SessionPayments(context.Background(), uuid.New(), sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
