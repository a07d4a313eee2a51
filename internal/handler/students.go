package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amare53/school-sub001/internal/apierror"
	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/service"
)

type StudentsHandler struct{ svc service.StudentService }

func NewStudentsHandler(svc service.StudentService) *StudentsHandler {
	return &StudentsHandler{svc: svc}
}

func (h *StudentsHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), schoolID, req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateMatricule) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StudentsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), schoolID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StudentsHandler) List(c *gin.Context) {
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	students, total, err := h.svc.List(c.Request.Context(), schoolID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list students"))
		return
	}
	collection(c, students, total, page, limit)
}

func (h *StudentsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
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

func (h *StudentsHandler) Deactivate(c *gin.Context) {
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
