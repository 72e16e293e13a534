package assessment

import (
	"time"

	"github.com/google/uuid"
)

// SubmitRequest is the public assessment submission payload.
type SubmitRequest struct {
	Name    string         `json:"name" validate:"required,min=2,max=200"`
	Email   string         `json:"email" validate:"required,email,max=320"`
	Company string         `json:"company" validate:"omitempty,max=200"`
	Locale  string         `json:"locale" validate:"omitempty,oneof=es-MX en-US pt-BR"`
	Answers map[string]int `json:"answers" validate:"required,min=1,dive,min=1,max=5"`
}

// SubmitResponse returns the stored submission with its scored result.
type SubmitResponse struct {
	ID        uuid.UUID `json:"id"`
	Result    Result    `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListQuery narrows admin assessment listings.
type ListQuery struct {
	MinScore int `form:"minScore" validate:"omitempty,min=0,max=100"`
	Limit    int `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset   int `form:"offset" validate:"omitempty,min=0"`
}

// Record is an admin view of a stored submission.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Locale    string    `json:"locale"`
	Result    Result    `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}
