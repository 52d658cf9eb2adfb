// Package errors provides custom error types and definitions for the application.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the
// current last 4XXX or 5XXX. If you notice there's a gap, DON'T fill it in, that
// code was used in the past for some error (not anymore) and shouldn't be reused.
var (
	// Authentication errors (401)
	ErrUnauthorized       = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required"), LogLevel: "info"}
	ErrInvalidCredentials = Error{Code: 40002, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid email or password"), LogLevel: "info"}

	// Validation errors (400)
	ErrMalformedBody         = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrEmailMalformed        = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid email format")}
	ErrPasswordTooShort      = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("password must be at least 8 characters")}
	ErrMalformedURLParam     = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid URL parameter")}
	ErrAmountOrTierRequired  = Error{Code: 40007, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("exactly one of amount or tier must be provided")}
	ErrNoCampaignProvided    = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("campaign id is required")}
	ErrInvalidTier           = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid donation tier")}
	ErrDonationBelowMinimum  = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("Minimum donation is $1.")}
	ErrRecurringRequiresTier = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("recurring donations require a tier")}
	ErrInvalidDonationData   = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid donation information provided")}
	ErrInvalidUserData       = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid user information provided")}
	ErrInvalidData           = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid data provided")}
	ErrStorageInvalidObject  = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid storage object or parameters")}

	// Not found errors (404)
	ErrCampaignNotFound    = Error{Code: 40016, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("campaign not found")}
	ErrUserNotFound        = Error{Code: 40017, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("user not found")}
	ErrFAQNotFound         = Error{Code: 40018, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("faq not found")}
	ErrSkillNotFound       = Error{Code: 40019, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("skill not found")}
	ErrTestimonialNotFound = Error{Code: 40020, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("testimonial not found")}
	ErrDonationNotFound    = Error{Code: 40021, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("donation not found")}

	// Conflict errors (409)
	ErrDuplicateConflict = Error{Code: 40901, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("resource already exists")}

	// Server errors (500) - These should be used sparingly and only for true internal errors
	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response"), LogLevel: "error"}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: operation failed"), LogLevel: "error"}
	ErrStripeError                = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment processing failed"), LogLevel: "error"}
	ErrInternalStorageError       = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: storage operation failed"), LogLevel: "error"}
	ErrStripeWebhookError         = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: stripe webhook failed"), LogLevel: "error"}
)
