package services

import "errors"

// Sentinel errors surfaced by the service layer. Handlers map these onto
// HTTP statuses; everything else is a store failure and becomes a 500.
var (
	ErrEmptyQuery         = errors.New("search query cannot be empty")
	ErrEmptyMessage       = errors.New("chat message cannot be empty")
	ErrQuotaExceeded      = errors.New("weekly chat limit reached")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
