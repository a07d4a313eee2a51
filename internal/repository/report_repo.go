package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/amare53/school-sub001/internal/model"
)

// ReportFilter bounds an aggregation window. From and To are inclusive
// session dates; CashierID narrows to one cashier when set.
type ReportFilter struct {
	SchoolID  uuid.UUID
	From      time.Time
	To        time.Time
	CashierID *uuid.UUID
}

// PeriodAggregates carries the raw SQL aggregation results for a window.
type PeriodAggregates struct {
	PaymentTotal       decimal.Decimal
	PaymentCount       int64
	PaymentsByMode     map[string]decimal.Decimal
	MovementsIn        decimal.Decimal
	MovementsOut       decimal.Decimal
	MovementCount      int64
	SessionCount       int64
	ClosedSessionCount int64
	VarianceTotal      decimal.Decimal
}

type ReportRepository interface {
	Aggregate(ctx context.Context, f ReportFilter) (*PeriodAggregates, error)
	SessionsInRange(ctx context.Context, f ReportFilter) ([]model.CashSession, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

// sessionScope selects session IDs inside the filter window. Reused as a
// subquery so payments and movements join against the same population.
func (r *reportRepo) sessionScope(ctx context.Context, f ReportFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.CashSession{}).
		Select("id").
		Where("school_id = ? AND session_date BETWEEN ? AND ?", f.SchoolID, f.From, f.To)
	if f.CashierID != nil {
		q = q.Where("cashier_id = ?", *f.CashierID)
	}
	return q
}

func (r *reportRepo) Aggregate(ctx context.Context, f ReportFilter) (*PeriodAggregates, error) {
	agg := &PeriodAggregates{
		PaymentTotal:   decimal.Zero,
		MovementsIn:    decimal.Zero,
		MovementsOut:   decimal.Zero,
		VarianceTotal:  decimal.Zero,
		PaymentsByMode: make(map[string]decimal.Decimal, len(model.PaymentModes)),
	}
	for _, mode := range model.PaymentModes {
		agg.PaymentsByMode[mode] = decimal.Zero
	}

	scope := r.sessionScope(ctx, f)

	type sessionRow struct {
		SessionCount       int64
		ClosedSessionCount int64
		VarianceTotal      decimal.Decimal
	}
	var sr sessionRow
	sq := r.db.WithContext(ctx).Model(&model.CashSession{}).
		Select(`COUNT(*) AS session_count,
			COUNT(*) FILTER (WHERE status = 'closed') AS closed_session_count,
			COALESCE(SUM(variance), 0) AS variance_total`).
		Where("school_id = ? AND session_date BETWEEN ? AND ?", f.SchoolID, f.From, f.To)
	if f.CashierID != nil {
		sq = sq.Where("cashier_id = ?", *f.CashierID)
	}
	if err := sq.Scan(&sr).Error; err != nil {
		return nil, err
	}
	agg.SessionCount = sr.SessionCount
	agg.ClosedSessionCount = sr.ClosedSessionCount
	agg.VarianceTotal = sr.VarianceTotal

	type modeRow struct {
		PaymentMode string
		Total       decimal.Decimal
		Count       int64
	}
	var modeRows []modeRow
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Select("payment_mode, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("session_id IN (?)", scope).
		Group("payment_mode").
		Scan(&modeRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range modeRows {
		agg.PaymentsByMode[row.PaymentMode] = row.Total
		agg.PaymentTotal = agg.PaymentTotal.Add(row.Total)
		agg.PaymentCount += row.Count
	}

	type movementRow struct {
		TotalIn  decimal.Decimal
		TotalOut decimal.Decimal
		Count    int64
	}
	var mr movementRow
	err = r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Select(`COALESCE(SUM(amount) FILTER (WHERE direction = 'in'), 0) AS total_in,
			COALESCE(SUM(amount) FILTER (WHERE direction = 'out'), 0) AS total_out,
			COUNT(*) AS count`).
		Where("session_id IN (?)", scope).
		Scan(&mr).Error
	if err != nil {
		return nil, err
	}
	agg.MovementsIn = mr.TotalIn
	agg.MovementsOut = mr.TotalOut
	agg.MovementCount = mr.Count

	return agg, nil
}

func (r *reportRepo) SessionsInRange(ctx context.Context, f ReportFilter) ([]model.CashSession, error) {
	var sessions []model.CashSession
	q := r.db.WithContext(ctx).
		Where("school_id = ? AND session_date BETWEEN ? AND ?", f.SchoolID, f.From, f.To)
	if f.CashierID != nil {
		q = q.Where("cashier_id = ?", *f.CashierID)
	}
	err := q.Order("session_date ASC, opened_at ASC").Find(&sessions).Error
	return sessions, err
}
