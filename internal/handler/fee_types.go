package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amare53/school-sub001/internal/apierror"
	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/service"
)

type FeeTypesHandler struct{ svc service.FeeTypeService }

func NewFeeTypesHandler(svc service.FeeTypeService) *FeeTypesHandler {
	return &FeeTypesHandler{svc: svc}
}

func (h *FeeTypesHandler) Create(c *gin.Context) {
	var req dto.CreateFeeTypeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), schoolID, req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateFeeCode) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FeeTypesHandler) List(c *gin.Context) {
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), schoolID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list fee types"))
		return
	}
	collection(c, resp, int64(len(resp)), 1, len(resp))
}

func (h *FeeTypesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateFeeTypeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), schoolID, id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FeeTypesHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), schoolID, id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
