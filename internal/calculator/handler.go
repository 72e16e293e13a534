package calculator

import (
	"context"
	"net/http"
	"time"

	"madfam_site_backend/platform/httpkit"
	"madfam_site_backend/platform/logger"
	"madfam_site_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// logTimeout bounds the fire-and-forget usage log write.
const logTimeout = 5 * time.Second

// Handler handles calculator HTTP requests. Both calculators are pure
// functions over the rate tables; the repository only records usage.
type Handler struct {
	tables Tables
	repo   *Repository
	val    *validator.Validator
	log    *logger.Logger
}

// NewHandler creates a new calculator handler.
func NewHandler(tables Tables, repo *Repository, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{tables: tables, repo: repo, val: val, log: log}
}

// HandleROI projects savings for the described operation.
// POST /api/v1/calculator/roi
func (h *Handler) HandleROI(c *gin.Context) {
	var in ROIInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(in); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	result := CalculateROI(in, h.tables.ROI)
	h.logUsage(KindROI, c.GetHeader("Accept-Language"), in, result)

	httpkit.OK(c, result)
}

// HandleEstimate produces a project quote range.
// POST /api/v1/calculator/estimate
func (h *Handler) HandleEstimate(c *gin.Context) {
	var in EstimateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(in); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	result, err := EstimateProject(in, h.tables.Estimator)
	if httpkit.HandleError(c, err) {
		return
	}
	h.logUsage(KindEstimate, c.GetHeader("Accept-Language"), in, result)

	httpkit.OK(c, result)
}

func (h *Handler) logUsage(kind, locale string, input, result any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), logTimeout)
		defer cancel()
		if err := h.repo.LogRequest(ctx, kind, locale, input, result); err != nil {
			h.log.DatabaseError("calculator.log_request", err)
		}
	}()
}
