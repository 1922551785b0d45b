package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessRegister = "user registered successfully"
	MessageSuccessLogin    = "user logged in successfully"
	MessageSuccessLogout   = "user logged out successfully"
	MessageSuccessGetUser  = "success get user"

	MessageFailedRegister = "failed to register user"
	MessageFailedLogin    = "failed to login"
	MessageFailedGetUser  = "failed to get user"

	ErrEmailRequired      = fmt.Errorf("%w: email is required", ErrValidation)
	ErrPasswordRequired   = fmt.Errorf("%w: password is required", ErrValidation)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrInvalidPassword    = fmt.Errorf("%w: invalid password", ErrUnauthorized)
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrGenerateToken      = fmt.Errorf("%w: failed to generate token", ErrInternal)
	ErrHashPassword       = fmt.Errorf("%w: failed to hash password", ErrInternal)
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	// LoginRequest is checked by the user service so missing fields
	// surface as ErrEmailRequired / ErrPasswordRequired.
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}

	LoginResponse struct {
		User        UserResponse       `json:"user"`
		AccessToken string             `json:"access_token"`
		Items       []FoodItemResponse `json:"items"`
		StatusSync  StatusSyncReport   `json:"status_sync"`
	}
)
