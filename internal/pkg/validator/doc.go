// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface. V10Validator is the
// go-playground/validator implementation with English and Arabic messages.
package validator

// Validator checks struct tags and reports field violations.
type Validator interface {
	// Validate reports violations with English messages.
	Validate(data any) error
	// ValidateLocale reports violations in lang ("ar" or "en"); unknown
	// languages fall back to English.
	ValidateLocale(lang string, data any) error
}
