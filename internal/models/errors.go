package models

import "errors"

// Custom errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
	ErrInvalidID          = errors.New("invalid ID format")
	ErrOddsUnavailable    = errors.New("no valid odds available")
	ErrNoActionableMarket = errors.New("no actionable market")
	ErrResultNotFinal     = errors.New("match result not final")
	ErrAmbiguousResult    = errors.New("match result is ambiguous")
)
