package validation

import (
	"errors"
	"fmt"
	"time"
)

// ConfigValidator collects cross-field validation errors instead of failing
// on the first one.
type ConfigValidator struct {
	errors []error
	name   string // config section for error messages
}

// NewConfigValidator creates a validator whose messages are prefixed by name.
func NewConfigValidator(name string) *ConfigValidator {
	return &ConfigValidator{name: name}
}

// NonNegativeInt requires value >= 0.
func (cv *ConfigValidator) NonNegativeInt(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d must not be negative", cv.name, field, value))
	}
	return cv
}

// NonNegativeDuration requires value >= 0.
func (cv *ConfigValidator) NonNegativeDuration(field string, value time.Duration) *ConfigValidator {
	if value < 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: duration %v must not be negative", cv.name, field, value))
	}
	return cv
}

// Custom records fn's error, if any, against field.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// Errors returns all validation errors.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate joins every collected error, or returns nil.
func (cv *ConfigValidator) Validate() error {
	return errors.Join(cv.errors...)
}
