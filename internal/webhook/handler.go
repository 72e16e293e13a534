package webhook

import (
	"net/http"
	"net/url"
	"strconv"

	"madfam_site_backend/platform/apperr"
	"madfam_site_backend/platform/httpkit"
	"madfam_site_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 512

// CreateKeyRequest creates a new webhook API key.
type CreateKeyRequest struct {
	Name           string   `json:"name" validate:"required,min=2,max=100"`
	AllowedDomains []string `json:"allowedDomains" validate:"omitempty,max=20,dive,max=253"`
}

// KeyResponse is the admin view of an API key. PlaintextKey is only set
// on creation.
type KeyResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	KeyPrefix      string    `json:"keyPrefix"`
	AllowedDomains []string  `json:"allowedDomains"`
	IsActive       bool      `json:"isActive"`
	PlaintextKey   string    `json:"key,omitempty"`
}

// CreateCampaignRequest creates a trackable campaign.
type CreateCampaignRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=200"`
	Slug       string `json:"slug" validate:"required,min=2,max=100,lowercase"`
	LandingURL string `json:"landingUrl" validate:"required,url,max=2000"`
	UTMSource  string `json:"utmSource" validate:"omitempty,max=100"`
	UTMMedium  string `json:"utmMedium" validate:"omitempty,max=100"`
}

// Handler handles webhook HTTP requests.
type Handler struct {
	service *Service
	repo    *Repository
	val     *validator.Validator
}

// NewHandler creates a new webhook handler.
func NewHandler(service *Service, repo *Repository, val *validator.Validator) *Handler {
	return &Handler{service: service, repo: repo, val: val}
}

// HandleMarketingEvent receives one event from the marketing automation
// platform. Accepted events return 202 whether or not they were handled.
// POST /api/v1/webhook/marketing
func (h *Handler) HandleMarketingEvent(c *gin.Context) {
	var evt MarketingEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(evt); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	sourceDomain := originHost(c)
	result, err := h.service.Process(c.Request.Context(), evt, sourceDomain)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, result)
}

// HandleCreateKey issues a new API key. The plaintext is in this response
// and nowhere else.
// POST /api/v1/admin/webhook/keys
func (h *Handler) HandleCreateKey(c *gin.Context) {
	var req CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	plaintext, hash, prefix, err := GenerateAPIKey()
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to generate key", err))
		return
	}
	key, err := h.repo.CreateKey(c.Request.Context(), req.Name, hash, prefix, req.AllowedDomains)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to store key", err))
		return
	}

	httpkit.Created(c, KeyResponse{
		ID:             key.ID,
		Name:           key.Name,
		KeyPrefix:      key.KeyPrefix,
		AllowedDomains: key.AllowedDomains,
		IsActive:       key.IsActive,
		PlaintextKey:   plaintext,
	})
}

// HandleListKeys lists API keys without their hashes.
// GET /api/v1/admin/webhook/keys
func (h *Handler) HandleListKeys(c *gin.Context) {
	keys, err := h.repo.ListKeys(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to list keys", err))
		return
	}
	out := make([]KeyResponse, len(keys))
	for i, key := range keys {
		out[i] = KeyResponse{
			ID:             key.ID,
			Name:           key.Name,
			KeyPrefix:      key.KeyPrefix,
			AllowedDomains: key.AllowedDomains,
			IsActive:       key.IsActive,
		}
	}
	httpkit.OK(c, out)
}

// HandleRevokeKey deactivates an API key.
// DELETE /api/v1/admin/webhook/keys/:id
func (h *Handler) HandleRevokeKey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid key ID", nil)
		return
	}
	if err := h.repo.RevokeKey(c.Request.Context(), id); err != nil {
		if err == ErrAPIKeyNotFound {
			httpkit.HandleError(c, apperr.NotFound("API key not found"))
			return
		}
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to revoke key", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleListTouchpoints returns a contact's recorded interactions.
// GET /api/v1/admin/webhook/touchpoints?email=...
func (h *Handler) HandleListTouchpoints(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		httpkit.Error(c, http.StatusBadRequest, "email query parameter is required", nil)
		return
	}
	if err := h.val.Var(email, "email,max=320"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid email", nil)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			httpkit.Error(c, http.StatusBadRequest, "limit must be between 1 and 500", nil)
			return
		}
		limit = parsed
	}

	tps, err := h.repo.ListTouchpointsByEmail(c.Request.Context(), email, limit)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to list touchpoints", err))
		return
	}
	httpkit.OK(c, tps)
}

// HandleCreateCampaign stores a new campaign.
// POST /api/v1/admin/webhook/campaigns
func (h *Handler) HandleCreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	campaign, err := h.repo.CreateCampaign(c.Request.Context(), Campaign{
		Name:       req.Name,
		Slug:       req.Slug,
		LandingURL: req.LandingURL,
		UTMSource:  req.UTMSource,
		UTMMedium:  req.UTMMedium,
	})
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to store campaign", err))
		return
	}
	httpkit.Created(c, campaign)
}

// HandleListCampaigns lists campaigns.
// GET /api/v1/admin/webhook/campaigns
func (h *Handler) HandleListCampaigns(c *gin.Context) {
	campaigns, err := h.repo.ListCampaigns(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to list campaigns", err))
		return
	}
	httpkit.OK(c, campaigns)
}

// HandleCampaignQR renders the campaign's tracking link as a PNG QR code
// for print material.
// GET /api/v1/admin/webhook/campaigns/:id/qr
func (h *Handler) HandleCampaignQR(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid campaign ID", nil)
		return
	}

	campaign, err := h.repo.GetCampaign(c.Request.Context(), id)
	if err != nil {
		if err == ErrCampaignNotFound {
			httpkit.HandleError(c, apperr.NotFound("campaign not found"))
			return
		}
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to load campaign", err))
		return
	}

	tracking, err := TrackingURL(campaign)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "invalid landing URL", err))
		return
	}
	png, err := qrcode.Encode(tracking, qrcode.Medium, qrImageSize)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to render QR code", err))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// TrackingURL builds the campaign landing URL with its UTM parameters.
func TrackingURL(c Campaign) (string, error) {
	u, err := url.Parse(c.LandingURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("utm_campaign", c.Slug)
	if c.UTMSource != "" {
		q.Set("utm_source", c.UTMSource)
	}
	if c.UTMMedium != "" {
		q.Set("utm_medium", c.UTMMedium)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func originHost(c *gin.Context) string {
	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = c.GetHeader("Referer")
	}
	if origin == "" {
		return ""
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
