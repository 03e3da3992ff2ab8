// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

// Package validate implements request payload validation as a chainable rule
// set that accumulates field-level failures into one [apperr.AppError].
//
// Handlers run their chains before calling into a service, so the service
// layer only ever sees semantically valid input.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/verdano/marketplace-api/internal/platform/apperr"
)

// ErrInvalidJSON is the uniform response for an undecodable request body.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Accepts v4 and v7, lowercase after normalization.
var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Validator accumulates field errors across a chain of rule calls.
//
// Not safe for concurrent use; build one per request.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails when the value is empty after trimming whitespace.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MinLen fails when the value holds fewer than min Unicode characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// MaxLen fails when the value holds more than max Unicode characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Email fails when the value does not parse as an RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// UUID fails when the value is not a UUID, case-insensitively.
func (v *Validator) UUID(field, value string) *Validator {
	if !uuidPattern.MatchString(strings.ToLower(value)) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// OneOf fails when the value is outside the allowed set.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom records a failure with the given message when failed is true.
//
// Example:
//
//	v.Custom("role", !role.Valid(), "Must be seller or buyer")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// HasErrors reports whether any rule in the chain has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err terminates the chain: nil when every rule passed, otherwise a single
// VALIDATION_ERROR carrying all collected field failures.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError builds a one-field validation error without a chain, for
// cases like a missing URL parameter.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
