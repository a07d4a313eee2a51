package dto

import "github.com/shopspring/decimal"

// ReportTotals is the aggregate block shared by daily and period reports.
// All figures come straight from SQL aggregation — reports are never
// recomputed by replaying events in memory.
type ReportTotals struct {
	PaymentTotal       decimal.Decimal            `json:"paymentTotal"`
	PaymentCount       int64                      `json:"paymentCount"`
	PaymentsByMode     map[string]decimal.Decimal `json:"paymentsByMode"`
	MovementsIn        decimal.Decimal            `json:"movementsIn"`
	MovementsOut       decimal.Decimal            `json:"movementsOut"`
	MovementCount      int64                      `json:"movementCount"`
	SessionCount       int64                      `json:"sessionCount"`
	ClosedSessionCount int64                      `json:"closedSessionCount"`
	VarianceTotal      decimal.Decimal            `json:"varianceTotal"`
}

type DailyReportResponse struct {
	Date   string       `json:"date"`
	Totals ReportTotals `json:"totals"`
}

type PeriodReportResponse struct {
	DateFrom  string       `json:"dateFrom"`
	DateTo    string       `json:"dateTo"`
	CashierID *string      `json:"cashierId"`
	Totals    ReportTotals `json:"totals"`
}
