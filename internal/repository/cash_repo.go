package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amare53/school-sub001/internal/model"
)

type CashRepository interface {
	CreateSession(ctx context.Context, s *model.CashSession) error
	// FindOpenSessionByCashier returns (nil, nil) when the cashier has no
	// in_progress session.
	FindOpenSessionByCashier(ctx context.Context, cashierID uuid.UUID) (*model.CashSession, error)
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error)
	UpdateSession(ctx context.Context, s *model.CashSession) error
	ListClosedSessions(ctx context.Context, schoolID uuid.UUID, page, limit int) ([]model.CashSession, int64, error)
	// NextSessionNumber allocates the next human-readable session number for
	// the given date, e.g. CS-20260901-0042.
	NextSessionNumber(ctx context.Context, date time.Time) (string, error)

	CreatePayment(ctx context.Context, p *model.Payment) error
	// FindPaymentByID preloads Student and FeeType for receipt rendering.
	FindPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	ListPayments(ctx context.Context, sessionID uuid.UUID) ([]model.Payment, error)
	CountPayments(ctx context.Context, sessionID uuid.UUID) (int64, error)

	CreateMovement(ctx context.Context, m *model.CashMovement) error
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	CountMovements(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) CreateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashRepo) FindOpenSessionByCashier(ctx context.Context, cashierID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("cashier_id = ? AND status = ?", cashierID, model.SessionInProgress).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *cashRepo) UpdateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cashRepo) ListClosedSessions(ctx context.Context, schoolID uuid.UUID, page, limit int) ([]model.CashSession, int64, error) {
	var sessions []model.CashSession
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CashSession{}).
		Where("school_id = ? AND status = ?", schoolID, model.SessionClosed)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("closed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *cashRepo) NextSessionNumber(ctx context.Context, date time.Time) (string, error) {
	var seq int64
	if err := r.db.WithContext(ctx).Raw("SELECT nextval('cash_session_number_seq')").Scan(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("CS-%s-%04d", date.Format("20060102"), seq), nil
}

func (r *cashRepo) CreatePayment(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *cashRepo) FindPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("FeeType").
		First(&p, id).Error
	return &p, err
}

func (r *cashRepo) ListPayments(ctx context.Context, sessionID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *cashRepo) CountPayments(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *cashRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cashRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movements []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *cashRepo) CountMovements(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
