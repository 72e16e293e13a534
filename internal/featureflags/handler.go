package featureflags

import (
	"net/http"

	"madfam_site_backend/platform/httpkit"
	"madfam_site_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles feature flag HTTP requests.
type Handler struct {
	service *Service
	val     *validator.Validator
}

// NewHandler creates a new feature flag handler.
func NewHandler(service *Service, val *validator.Validator) *Handler {
	return &Handler{service: service, val: val}
}

// HandleEvaluate evaluates one flag for an optional user.
// GET /api/v1/flags/:key?userId=...
func (h *Handler) HandleEvaluate(c *gin.Context) {
	resp, err := h.service.Evaluate(c.Request.Context(), c.Param("key"), c.Query("userId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// HandleEvaluateAll evaluates every flag for an optional user.
// GET /api/v1/flags?userId=...
func (h *Handler) HandleEvaluateAll(c *gin.Context) {
	resp, err := h.service.EvaluateAll(c.Request.Context(), c.Query("userId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// HandleUpsert creates or replaces a flag definition.
// PUT /api/v1/admin/flags/:key
func (h *Handler) HandleUpsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	flag, err := h.service.Upsert(c.Request.Context(), c.Param("key"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, flag)
}

// HandleList lists every flag definition.
// GET /api/v1/admin/flags
func (h *Handler) HandleList(c *gin.Context) {
	flags, err := h.service.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, flags)
}

// HandleGet returns one flag definition.
// GET /api/v1/admin/flags/:key
func (h *Handler) HandleGet(c *gin.Context) {
	flag, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, flag)
}

// HandleDelete removes a flag.
// DELETE /api/v1/admin/flags/:key
func (h *Handler) HandleDelete(c *gin.Context) {
	if httpkit.HandleError(c, h.service.Delete(c.Request.Context(), c.Param("key"))) {
		return
	}
	c.Status(http.StatusNoContent)
}
