// Package config provides configuration management for the Goal Edge application.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField performs validations spanning multiple sections
func validateCrossField(cfg *Config) error {
	// Replay eligibility must be a sub-band of the scoring sanity band,
	// otherwise no prediction could ever reach the ledger.
	if cfg.Ledger.OddsMin < cfg.Scoring.OddsMin || cfg.Ledger.OddsMax > cfg.Scoring.OddsMax {
		return fmt.Errorf("ledger odds band [%.2f, %.2f] must sit inside scoring band [%.2f, %.2f]",
			cfg.Ledger.OddsMin, cfg.Ledger.OddsMax, cfg.Scoring.OddsMin, cfg.Scoring.OddsMax)
	}

	if cfg.Oracle.Enabled {
		if cfg.Oracle.BaseURL == "" || cfg.Oracle.APIKey == "" {
			return fmt.Errorf("oracle enabled but base_url or api_key missing")
		}
		if cfg.Oracle.Model == "" {
			return fmt.Errorf("oracle enabled but model not set")
		}
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, expr := range map[string]string{
		"prediction_schedule": cfg.Pipeline.PredictionSchedule,
		"settlement_schedule": cfg.Pipeline.SettlementSchedule,
	} {
		if expr == "" {
			continue
		}
		if _, err := parser.Parse(expr); err != nil {
			return fmt.Errorf("invalid cron expression for %s: %w", name, err)
		}
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}
