// Package oracle provides client interfaces for the language-model
// prediction oracle.
package oracle

import "errors"

var (
	// ErrOracleDisabled indicates the oracle is not configured
	ErrOracleDisabled = errors.New("oracle disabled")

	// ErrOracleUnavailable indicates the oracle endpoint is unreachable
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrInvalidAdvice indicates the oracle response could not be parsed
	ErrInvalidAdvice = errors.New("invalid oracle advice")

	// ErrAllModelsFailed indicates both the primary and fallback model failed
	ErrAllModelsFailed = errors.New("all oracle models failed")
)
