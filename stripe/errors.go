package stripe

import (
	"fmt"
)

// StripeError represents a Stripe-specific error
type StripeError struct {
	Code    string
	Message string
	Err     error
}

func (e *StripeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Code, e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.Err
}

// Common Stripe errors
var (
	ErrInvalidEvent      = &StripeError{Code: "invalid_event", Message: "invalid webhook event"}
	ErrAPICallFailed     = &StripeError{Code: "api_call_failed", Message: "stripe API call failed"}
	ErrWebhookValidation = &StripeError{Code: "webhook_validation", Message: "webhook signature validation failed"}
)

// NewStripeError creates a new StripeError with the given code, message, and underlying error
func NewStripeError(code, message string, err error) *StripeError {
	return &StripeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether the error is a webhook signature
// verification failure, which must be answered with HTTP 400 and never
// retried. Failures after the signature has verified are never in this class:
// they either propagate (500, the provider redelivers) or are acknowledged.
func IsValidationError(err error) bool {
	stripeErr, ok := err.(*StripeError)
	return ok && stripeErr.Code == "webhook_validation"
}
