package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/amare53/school-sub001/internal/apierror"
	"github.com/amare53/school-sub001/internal/service"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Daily godoc
// @Summary Daily cash report for one date (defaults to today)
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param cashierId query string false "Filter by cashier"
// @Success 200 {object} dto.DailyReportResponse
// @Router /v1/reports/daily [get]
func (h *ReportsHandler) Daily(c *gin.Context) {
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	cashierID, ok := optionalCashier(c)
	if !ok {
		return
	}

	resp, err := h.svc.Daily(c.Request.Context(), schoolID, date, cashierID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Period godoc
// @Summary Aggregated cash report for a date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param dateFrom query string true "Start date (YYYY-MM-DD)"
// @Param dateTo query string true "End date (YYYY-MM-DD)"
// @Param cashierId query string false "Filter by cashier"
// @Success 200 {object} dto.PeriodReportResponse
// @Router /v1/reports/period [get]
func (h *ReportsHandler) Period(c *gin.Context) {
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	cashierID, ok := optionalCashier(c)
	if !ok {
		return
	}

	resp, err := h.svc.Period(c.Request.Context(), schoolID, from, to, cashierID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export streams a period report as a PDF or Excel download.
// ?format=pdf|excel (default pdf).
func (h *ReportsHandler) Export(c *gin.Context) {
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	cashierID, ok := optionalCashier(c)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "pdf")
	if format != "pdf" && format != "excel" {
		c.JSON(http.StatusBadRequest, apierror.New("format must be pdf or excel"))
		return
	}

	export, err := h.svc.ExportPeriod(c.Request.Context(), schoolID, from, to, cashierID, format)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

func dateRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	from, err = time.Parse("2006-01-02", c.Query("dateFrom"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid dateFrom, expected YYYY-MM-DD"))
		return from, to, false
	}
	to, err = time.Parse("2006-01-02", c.Query("dateTo"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid dateTo, expected YYYY-MM-DD"))
		return from, to, false
	}
	return from, to, true
}

func optionalCashier(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("cashierId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid cashierId"))
		return nil, false
	}
	return &id, true
}
