// Package transport defines the leads module's request/response shapes.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateLeadRequest is the public lead-capture payload posted by the site's
// contact forms. Field-level validation happens at the HTTP boundary.
type CreateLeadRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Company string `json:"company" validate:"max=200"`
	Phone   string `json:"phone" validate:"max=40"`
	Message string `json:"message" validate:"max=5000"`
	Tier    string `json:"tier" validate:"max=40"`
	Source  string `json:"source" validate:"max=100"`
	Locale  string `json:"locale" validate:"omitempty,oneof=es-MX en-US pt-BR"`
}

// LeadResponse is returned on capture and from the admin endpoints.
type LeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message,omitempty"`
	Tier      string    `json:"tier,omitempty"`
	Source    string    `json:"source,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListLeadsQuery captures the admin list filters.
type ListLeadsQuery struct {
	MinScore int    `form:"minScore" validate:"min=0,max=100"`
	Status   string `form:"status" validate:"max=40"`
	Limit    int    `form:"limit" validate:"min=0,max=200"`
	Offset   int    `form:"offset" validate:"min=0"`
}
