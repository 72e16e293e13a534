// Package handler exposes the leads module's HTTP endpoints.
package handler

import (
	"net/http"

	"madfam_site_backend/internal/leads/service"
	"madfam_site_backend/internal/leads/transport"
	"madfam_site_backend/platform/httpkit"
	"madfam_site_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	errInvalidRequest = "invalid request body"
	errValidation     = "validation error"
)

// Handler handles lead HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new leads handler.
func New(service *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: service, val: val}
}

// HandleCreate captures a lead from a public site form.
// POST /api/v1/leads
func (h *Handler) HandleCreate(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errValidation, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, resp)
}

// HandleList lists captured leads for the admin dashboard.
// GET /api/v1/admin/leads
func (h *Handler) HandleList(c *gin.Context) {
	var q transport.ListLeadsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errValidation, err.Error())
		return
	}

	resp, err := h.service.List(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

// HandleGet returns a single lead.
// GET /api/v1/admin/leads/:id
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}
