package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/infra"
	"github.com/amare53/school-sub001/internal/repository"
)

var ErrInvalidDateRange = errors.New("dateFrom must not be after dateTo")

// Export is the downloadable rendering of a report.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ReportService interface {
	Daily(ctx context.Context, schoolID uuid.UUID, date time.Time, cashierID *uuid.UUID) (*dto.DailyReportResponse, error)
	Period(ctx context.Context, schoolID uuid.UUID, from, to time.Time, cashierID *uuid.UUID) (*dto.PeriodReportResponse, error)
	// ExportPeriod renders a period report as "pdf" or "excel".
	ExportPeriod(ctx context.Context, schoolID uuid.UUID, from, to time.Time, cashierID *uuid.UUID, format string) (*Export, error)
}

type reportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) Daily(ctx context.Context, schoolID uuid.UUID, date time.Time, cashierID *uuid.UUID) (*dto.DailyReportResponse, error) {
	totals, err := s.totals(ctx, repository.ReportFilter{
		SchoolID:  schoolID,
		From:      date,
		To:        date,
		CashierID: cashierID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.DailyReportResponse{
		Date:   date.Format("2006-01-02"),
		Totals: *totals,
	}, nil
}

func (s *reportService) Period(ctx context.Context, schoolID uuid.UUID, from, to time.Time, cashierID *uuid.UUID) (*dto.PeriodReportResponse, error) {
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	totals, err := s.totals(ctx, repository.ReportFilter{
		SchoolID:  schoolID,
		From:      from,
		To:        to,
		CashierID: cashierID,
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.PeriodReportResponse{
		DateFrom: from.Format("2006-01-02"),
		DateTo:   to.Format("2006-01-02"),
		Totals:   *totals,
	}
	if cashierID != nil {
		id := cashierID.String()
		resp.CashierID = &id
	}
	return resp, nil
}

func (s *reportService) ExportPeriod(ctx context.Context, schoolID uuid.UUID, from, to time.Time, cashierID *uuid.UUID, format string) (*Export, error) {
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	filter := repository.ReportFilter{
		SchoolID:  schoolID,
		From:      from,
		To:        to,
		CashierID: cashierID,
	}
	totals, err := s.totals(ctx, filter)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.SessionsInRange(ctx, filter)
	if err != nil {
		return nil, err
	}

	window := from.Format("2006-01-02")
	if !from.Equal(to) {
		window = fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	export := infra.ReportExport{
		Title:    "Cash Report — " + window,
		Totals:   *totals,
		Sessions: sessions,
	}

	stamp := from.Format("20060102") + "-" + to.Format("20060102")
	switch format {
	case "excel":
		data, err := infra.ReportToExcel(export)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    fmt.Sprintf("cash-report-%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case "pdf":
		data, err := infra.ReportToPDF(export)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    fmt.Sprintf("cash-report-%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (s *reportService) totals(ctx context.Context, filter repository.ReportFilter) (*dto.ReportTotals, error) {
	agg, err := s.repo.Aggregate(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ReportTotals{
		PaymentTotal:       agg.PaymentTotal,
		PaymentCount:       agg.PaymentCount,
		PaymentsByMode:     agg.PaymentsByMode,
		MovementsIn:        agg.MovementsIn,
		MovementsOut:       agg.MovementsOut,
		MovementCount:      agg.MovementCount,
		SessionCount:       agg.SessionCount,
		ClosedSessionCount: agg.ClosedSessionCount,
		VarianceTotal:      agg.VarianceTotal,
	}, nil
}
