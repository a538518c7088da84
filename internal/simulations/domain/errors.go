package domain

import "errors"

var (
	ErrNotFound   = errors.New("simulation not found")
	ErrValidation = errors.New("invalid simulation request")
	ErrForbidden  = errors.New("forbidden")
)
