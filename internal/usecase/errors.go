package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("resource not found")
	ErrMissingTeamStats = errors.New("missing team stats")
	ErrPersistence      = errors.New("persistence failed")
)
