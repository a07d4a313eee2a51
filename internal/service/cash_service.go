package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/amare53/school-sub001/internal/cashbox"
	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
	"github.com/amare53/school-sub001/internal/worker"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrSessionAlreadyOpen = errors.New("cashier already has an open session")
	ErrNoOpenSession      = errors.New("no open cash session for this cashier")
	ErrSessionNotFound    = errors.New("cash session not found")
	ErrSessionClosed      = errors.New("cash session is already closed")
	ErrNotSessionOwner    = errors.New("session belongs to another cashier")
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentInactive    = errors.New("student is inactive")
	ErrFeeTypeNotFound    = errors.New("fee type not found")
	ErrFeeTypeInactive    = errors.New("fee type is inactive")
)

type CashService interface {
	OpenSession(ctx context.Context, schoolID, cashierID uuid.UUID, req dto.OpenSessionRequest) (*dto.CurrentSessionResponse, error)
	CurrentSession(ctx context.Context, schoolID, cashierID uuid.UUID) (*dto.CurrentSessionResponse, error)
	RecordPayment(ctx context.Context, schoolID, cashierID uuid.UUID, req dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error)
	RecordMovement(ctx context.Context, schoolID, cashierID uuid.UUID, req dto.RecordMovementRequest) (*dto.RecordMovementResponse, error)
	CloseSession(ctx context.Context, schoolID, cashierID, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.CloseSessionResponse, error)
	ListSessions(ctx context.Context, schoolID uuid.UUID, page, limit int) ([]dto.SessionResponse, int64, error)
	SessionPayments(ctx context.Context, schoolID, sessionID uuid.UUID) ([]dto.PaymentResponse, error)
	SessionMovements(ctx context.Context, schoolID, sessionID uuid.UUID) ([]dto.MovementResponse, error)
}

type cashService struct {
	repo        repository.CashRepository
	studentRepo repository.StudentRepository
	feeTypeRepo repository.FeeTypeRepository
	registry    *cashbox.Registry
	snapshots   *cashbox.SnapshotCache
	dispatcher  *worker.Dispatcher
}

func NewCashService(
	repo repository.CashRepository,
	studentRepo repository.StudentRepository,
	feeTypeRepo repository.FeeTypeRepository,
	registry *cashbox.Registry,
	snapshots *cashbox.SnapshotCache,
	dispatcher *worker.Dispatcher,
) CashService {
	return &cashService{
		repo:        repo,
		studentRepo: studentRepo,
		feeTypeRepo: feeTypeRepo,
		registry:    registry,
		snapshots:   snapshots,
		dispatcher:  dispatcher,
	}
}

// ── OpenSession ───────────────────────────────────────────────────────────────

func (s *cashService) OpenSession(ctx context.Context, schoolID, cashierID uuid.UUID, req dto.OpenSessionRequest) (*dto.CurrentSessionResponse, error) {
	// Guard: one in_progress session per cashier
	if existing, err := s.repo.FindOpenSessionByCashier(ctx, cashierID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrSessionAlreadyOpen
	}

	now := time.Now()
	number, err := s.repo.NextSessionNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	session := &model.CashSession{
		SchoolID:           schoolID,
		CashierID:          cashierID,
		SessionNumber:      number,
		SessionDate:        now.Truncate(24 * time.Hour),
		StartingCashAmount: req.StartingCashAmount,
		Status:             model.SessionInProgress,
		OpeningNotes:       req.Notes,
		OpenedAt:           now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	store := s.registry.For(cashierID)
	store.SetActiveSession(session)
	s.saveSnapshot(ctx, cashierID, store)

	log.Info().
		Str("session_number", session.SessionNumber).
		Str("cashier_id", cashierID.String()).
		Str("starting_cash", session.StartingCashAmount.StringFixed(2)).
		Msg("cash session opened")

	return s.currentResponse(store), nil
}

// ── CurrentSession ────────────────────────────────────────────────────────────

func (s *cashService) CurrentSession(ctx context.Context, schoolID, cashierID uuid.UUID) (*dto.CurrentSessionResponse, error) {
	session, err := s.repo.FindOpenSessionByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.SchoolID != schoolID {
		return nil, ErrNoOpenSession
	}

	store, _, err := s.hydratedStore(ctx, cashierID, session)
	if err != nil {
		return nil, err
	}
	return s.currentResponse(store), nil
}

// ── RecordPayment ─────────────────────────────────────────────────────────────

func (s *cashService) RecordPayment(ctx context.Context, schoolID, cashierID uuid.UUID, req dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	session, err := s.repo.FindOpenSessionByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.SchoolID != schoolID {
		return nil, ErrNoOpenSession
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, ErrStudentNotFound
	}
	feeTypeID, err := uuid.Parse(req.FeeTypeID)
	if err != nil {
		return nil, ErrFeeTypeNotFound
	}

	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil || student.SchoolID != schoolID {
		return nil, ErrStudentNotFound
	}
	if !student.Active {
		return nil, ErrStudentInactive
	}
	feeType, err := s.feeTypeRepo.FindByID(ctx, feeTypeID)
	if err != nil || feeType.SchoolID != schoolID {
		return nil, ErrFeeTypeNotFound
	}
	if !feeType.Active {
		return nil, ErrFeeTypeInactive
	}

	payment := &model.Payment{
		SessionID:   session.ID,
		SchoolID:    schoolID,
		StudentID:   studentID,
		FeeTypeID:   feeTypeID,
		Amount:      req.Amount,
		PaymentMode: req.PaymentMode,
		Reference:   req.Reference,
		Notes:       req.Notes,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	store, rebuilt, err := s.hydratedStore(ctx, cashierID, session)
	if err != nil {
		return nil, err
	}
	if !rebuilt {
		if err := store.AddPayment(*payment); err != nil {
			// Stale in-memory view; the DB already holds the new row
			if store, err = s.rebuildStore(ctx, cashierID, session); err != nil {
				return nil, err
			}
		}
	}
	s.saveSnapshot(ctx, cashierID, store)

	if err := s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{PaymentID: payment.ID.String()}); err != nil {
		log.Warn().Err(err).Str("payment_id", payment.ID.String()).Msg("failed to enqueue receipt job")
	}

	return &dto.RecordPaymentResponse{
		Payment: toPaymentResponse(*payment),
		Stats:   store.Stats(),
	}, nil
}

// ── RecordMovement ────────────────────────────────────────────────────────────

func (s *cashService) RecordMovement(ctx context.Context, schoolID, cashierID uuid.UUID, req dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	session, err := s.repo.FindOpenSessionByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.SchoolID != schoolID {
		return nil, ErrNoOpenSession
	}

	movement := &model.CashMovement{
		SessionID:   session.ID,
		Direction:   req.Direction,
		Amount:      req.Amount,
		Reason:      req.Reason,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateMovement(ctx, movement); err != nil {
		return nil, err
	}

	store, rebuilt, err := s.hydratedStore(ctx, cashierID, session)
	if err != nil {
		return nil, err
	}
	if !rebuilt {
		if err := store.AddMovement(*movement); err != nil {
			if store, err = s.rebuildStore(ctx, cashierID, session); err != nil {
				return nil, err
			}
		}
	}
	s.saveSnapshot(ctx, cashierID, store)

	return &dto.RecordMovementResponse{
		Movement: toMovementResponse(*movement),
		Stats:    store.Stats(),
	}, nil
}

// ── CloseSession ──────────────────────────────────────────────────────────────
// Reconciliation: expected balance is recomputed from the persisted rows, not
// the in-memory store, so a restart mid-session cannot skew the count. A
// non-zero variance never blocks the close — it is recorded and reported.

func (s *cashService) CloseSession(ctx context.Context, schoolID, cashierID, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.CloseSessionResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil || session.SchoolID != schoolID {
		return nil, ErrSessionNotFound
	}
	if session.CashierID != cashierID {
		return nil, ErrNotSessionOwner
	}
	if session.Status != model.SessionInProgress {
		return nil, ErrSessionClosed
	}

	payments, err := s.repo.ListPayments(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.ListMovements(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stats := cashbox.Compute(session, payments, movements)
	expected := stats.ExpectedBalance
	actual := req.ActualClosingBalance
	variance := actual.Sub(expected)

	label := dto.VarianceBalanced
	switch {
	case variance.IsPositive():
		label = dto.VarianceSurplus
	case variance.IsNegative():
		label = dto.VarianceShortage
	}

	if !variance.IsZero() && (req.Notes == nil || *req.Notes == "") {
		log.Warn().
			Str("session_number", session.SessionNumber).
			Str("variance", variance.StringFixed(2)).
			Msg("session closed with unexplained variance")
	}

	now := time.Now()
	session.ExpectedClosingBalance = &expected
	session.ActualClosingBalance = &actual
	session.Variance = &variance
	session.ClosingNotes = req.Notes
	session.Status = model.SessionClosed
	session.ClosedAt = &now

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	s.registry.Drop(cashierID)
	if err := s.snapshots.Delete(ctx, cashierID); err != nil {
		log.Warn().Err(err).Str("cashier_id", cashierID.String()).Msg("failed to delete session snapshot")
	}

	log.Info().
		Str("session_number", session.SessionNumber).
		Str("expected", expected.StringFixed(2)).
		Str("actual", actual.StringFixed(2)).
		Str("variance", variance.StringFixed(2)).
		Str("label", label).
		Msg("cash session closed")

	return &dto.CloseSessionResponse{
		Session:                toSessionResponse(*session),
		ExpectedClosingBalance: expected,
		ActualClosingBalance:   actual,
		Variance:               variance,
		VarianceLabel:          label,
	}, nil
}

// ── History ───────────────────────────────────────────────────────────────────

func (s *cashService) ListSessions(ctx context.Context, schoolID uuid.UUID, page, limit int) ([]dto.SessionResponse, int64, error) {
	sessions, total, err := s.repo.ListClosedSessions(ctx, schoolID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.SessionResponse, len(sessions))
	for i, sess := range sessions {
		resp[i] = toSessionResponse(sess)
	}
	return resp, total, nil
}

func (s *cashService) SessionPayments(ctx context.Context, schoolID, sessionID uuid.UUID) ([]dto.PaymentResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil || session.SchoolID != schoolID {
		return nil, ErrSessionNotFound
	}
	payments, err := s.repo.ListPayments(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	return resp, nil
}

func (s *cashService) SessionMovements(ctx context.Context, schoolID, sessionID uuid.UUID) ([]dto.MovementResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil || session.SchoolID != schoolID {
		return nil, ErrSessionNotFound
	}
	movements, err := s.repo.ListMovements(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		resp[i] = toMovementResponse(m)
	}
	return resp, nil
}

// ── Store hydration ───────────────────────────────────────────────────────────

// hydratedStore returns the cashier's store, loading it when the in-memory
// view does not match the open session row. The Redis snapshot is consulted
// first (cheap), the DB rows are the fallback and the source of truth. The
// second result reports whether the store was rebuilt from the DB — a
// rebuilt store already holds every persisted row of the session, so a
// caller that just wrote a row must not append it again.
func (s *cashService) hydratedStore(ctx context.Context, cashierID uuid.UUID, session *model.CashSession) (*cashbox.Store, bool, error) {
	store := s.registry.For(cashierID)
	if current := store.Session(); current != nil && current.ID == session.ID {
		return store, false, nil
	}

	if snap, err := s.snapshots.Load(ctx, cashierID); err == nil && s.snapshotUsable(ctx, snap, session) {
		store.SetActiveSession(session)
		store.SetPayments(snap.Payments)
		store.SetMovements(snap.Movements)
		return store, false, nil
	}

	store, err := s.rebuildStore(ctx, cashierID, session)
	return store, true, err
}

// snapshotUsable reports whether a cached snapshot belongs to the open
// session and still matches the persisted row counts. A snapshot that missed
// a write (Redis was unreachable when it was saved) would otherwise
// undercount until the next rebuild.
func (s *cashService) snapshotUsable(ctx context.Context, snap *cashbox.Snapshot, session *model.CashSession) bool {
	if snap == nil || snap.Session == nil || snap.Session.ID != session.ID {
		return false
	}
	paymentCount, err := s.repo.CountPayments(ctx, session.ID)
	if err != nil || int64(len(snap.Payments)) != paymentCount {
		return false
	}
	movementCount, err := s.repo.CountMovements(ctx, session.ID)
	return err == nil && int64(len(snap.Movements)) == movementCount
}

// rebuildStore reloads the store contents from the database.
func (s *cashService) rebuildStore(ctx context.Context, cashierID uuid.UUID, session *model.CashSession) (*cashbox.Store, error) {
	payments, err := s.repo.ListPayments(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.ListMovements(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	store := s.registry.For(cashierID)
	store.SetActiveSession(session)
	store.SetPayments(payments)
	store.SetMovements(movements)
	return store, nil
}

func (s *cashService) saveSnapshot(ctx context.Context, cashierID uuid.UUID, store *cashbox.Store) {
	if err := s.snapshots.Save(ctx, cashierID, store); err != nil {
		log.Warn().Err(err).Str("cashier_id", cashierID.String()).Msg("failed to save session snapshot")
	}
}

func (s *cashService) currentResponse(store *cashbox.Store) *dto.CurrentSessionResponse {
	session := store.Session()
	payments := store.Payments()
	movements := store.Movements()

	resp := &dto.CurrentSessionResponse{
		Payments:  make([]dto.PaymentResponse, len(payments)),
		Movements: make([]dto.MovementResponse, len(movements)),
		Stats:     store.Stats(),
	}
	if session != nil {
		resp.Session = toSessionResponse(*session)
	}
	for i, p := range payments {
		resp.Payments[i] = toPaymentResponse(p)
	}
	for i, m := range movements {
		resp.Movements[i] = toMovementResponse(m)
	}
	return resp
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

func toSessionResponse(s model.CashSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:                     s.ID.String(),
		SessionNumber:          s.SessionNumber,
		SchoolID:               s.SchoolID.String(),
		CashierID:              s.CashierID.String(),
		SessionDate:            s.SessionDate.Format("2006-01-02"),
		StartingCashAmount:     s.StartingCashAmount,
		Status:                 s.Status,
		OpeningNotes:           s.OpeningNotes,
		ExpectedClosingBalance: s.ExpectedClosingBalance,
		ActualClosingBalance:   s.ActualClosingBalance,
		Variance:               s.Variance,
		ClosingNotes:           s.ClosingNotes,
		OpenedAt:               s.OpenedAt.UTC().Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

func toPaymentResponse(p model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID.String(),
		SessionID:   p.SessionID.String(),
		StudentID:   p.StudentID.String(),
		FeeTypeID:   p.FeeTypeID.String(),
		Amount:      p.Amount,
		PaymentMode: p.PaymentMode,
		Reference:   p.Reference,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toMovementResponse(m model.CashMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID.String(),
		SessionID:   m.SessionID.String(),
		Direction:   m.Direction,
		Amount:      m.Amount,
		Reason:      m.Reason,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
