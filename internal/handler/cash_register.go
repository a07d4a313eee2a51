package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amare53/school-sub001/internal/apierror"
	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/service"
)

type CashRegisterHandler struct{ svc service.CashService }

func NewCashRegisterHandler(svc service.CashService) *CashRegisterHandler {
	return &CashRegisterHandler{svc: svc}
}

// OpenSession godoc
// @Summary Open a new cash session for the authenticated cashier
// @Tags cash-register
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenSessionRequest true "Opening data"
// @Success 201 {object} dto.CurrentSessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash-register/open-session [post]
func (h *CashRegisterHandler) OpenSession(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, schoolID, ok := authIDs(c)
	if !ok {
		return
	}

	resp, err := h.svc.OpenSession(c.Request.Context(), schoolID, userID, req)
	if err != nil {
		writeCashError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CurrentSession godoc
// @Summary Get the authenticated cashier's open session with running totals
// @Tags cash-register
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CurrentSessionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash-register/current-session [get]
func (h *CashRegisterHandler) CurrentSession(c *gin.Context) {
	userID, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.CurrentSession(c.Request.Context(), schoolID, userID)
	if err != nil {
		writeCashError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordPayment godoc
// @Summary Record a student payment against the open session
// @Tags cash-register
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RecordPaymentRequest true "Payment data"
// @Success 201 {object} dto.RecordPaymentResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash-register/payments [post]
func (h *CashRegisterHandler) RecordPayment(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, schoolID, ok := authIDs(c)
	if !ok {
		return
	}

	resp, err := h.svc.RecordPayment(c.Request.Context(), schoolID, userID, req)
	if err != nil {
		writeCashError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RecordMovement godoc
// @Summary Record a manual cash movement (deposit or withdrawal)
// @Tags cash-register
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RecordMovementRequest true "Movement data"
// @Success 201 {object} dto.RecordMovementResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash-register/movements [post]
func (h *CashRegisterHandler) RecordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, schoolID, ok := authIDs(c)
	if !ok {
		return
	}

	resp, err := h.svc.RecordMovement(c.Request.Context(), schoolID, userID, req)
	if err != nil {
		writeCashError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CloseSession godoc
// @Summary Close a session with the counted drawer amount
// @Tags cash-register
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body dto.CloseSessionRequest true "Closing declaration"
// @Success 200 {object} dto.CloseSessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash-register/close-session/{id} [post]
func (h *CashRegisterHandler) CloseSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, schoolID, ok := authIDs(c)
	if !ok {
		return
	}

	resp, err := h.svc.CloseSession(c.Request.Context(), schoolID, userID, id, req)
	if err != nil {
		writeCashError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sessions returns the paginated history of closed sessions for the school.
func (h *CashRegisterHandler) Sessions(c *gin.Context) {
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	sessions, total, err := h.svc.ListSessions(c.Request.Context(), schoolID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sessions"))
		return
	}
	collection(c, sessions, total, page, limit)
}

// SessionPayments lists the payments of one session.
func (h *CashRegisterHandler) SessionPayments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	payments, err := h.svc.SessionPayments(c.Request.Context(), schoolID, id)
	if err != nil {
		writeCashError(c, err)
		return
	}
	collection(c, payments, int64(len(payments)), 1, len(payments))
}

// SessionMovements lists the manual movements of one session.
func (h *CashRegisterHandler) SessionMovements(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	movements, err := h.svc.SessionMovements(c.Request.Context(), schoolID, id)
	if err != nil {
		writeCashError(c, err)
		return
	}
	collection(c, movements, int64(len(movements)), 1, len(movements))
}

// writeCashError maps service sentinel errors to HTTP statuses.
func writeCashError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionAlreadyOpen),
		errors.Is(err, service.ErrSessionClosed):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoOpenSession),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrFeeTypeNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrStudentInactive),
		errors.Is(err, service.ErrFeeTypeInactive):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
