package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amare53/school-sub001/internal/apierror"
	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/service"
)

type UsersHandler struct{ svc service.AuthService }

func NewUsersHandler(svc service.AuthService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.CreateUser(c.Request.Context(), schoolID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsersHandler) List(c *gin.Context) {
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	includeInactive := c.Query("includeInactive") == "true"
	resp, err := h.svc.ListUsers(c.Request.Context(), schoolID, includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list users"))
		return
	}
	collection(c, resp, int64(len(resp)), 1, len(resp))
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.UpdateUser(c.Request.Context(), schoolID, id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateUser(c.Request.Context(), schoolID, id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UsersHandler) Reactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_, schoolID, ok := authIDs(c)
	if !ok {
		return
	}
	if err := h.svc.ReactivateUser(c.Request.Context(), schoolID, id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
