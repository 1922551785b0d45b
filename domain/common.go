package domain

import (
	"errors"
	"fmt"
)

var (
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"

	// Error kinds. Every domain error wraps exactly one of these so the
	// HTTP boundary can pick a status code with errors.Is.
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")

	ErrParseUUID     = fmt.Errorf("%w: failed to parse UUID", ErrValidation)
	ErrTokenNotFound = fmt.Errorf("%w: failed to token not found", ErrUnauthorized)
	ErrTokenInvalid  = fmt.Errorf("%w: token invalid", ErrUnauthorized)
	ErrTokenExpired  = fmt.Errorf("%w: token expired", ErrUnauthorized)
)

type (
	// AuthUser is the identity the auth middleware resolves from a token.
	AuthUser struct {
		UserID string
	}

	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}
)

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}
