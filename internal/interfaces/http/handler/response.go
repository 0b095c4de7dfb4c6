package handler

import "github.com/kaizen/backend/internal/interfaces/http/dto"

// Envelope types referenced by the swag annotations on the team handlers.

// APIResponse wraps a typed payload, e.g. APIResponse[appnumbering.AllocateResponse]
// @Description Success envelope with typed data
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is returned for every failed request. Bootstrap failures carry
// the team and period in error.context.
// @Description Failure envelope
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
