package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryValidation    ErrorCategory = "validation"
	CategorySignature     ErrorCategory = "signature"
	CategoryAPI           ErrorCategory = "api"
	CategoryNetworkError  ErrorCategory = "network_error"
)

var (
	// ErrNoDefaultClient is returned by the package-level helpers before SetDetails has been called
	ErrNoDefaultClient = errors.New("you must set your account details first")
	// ErrInvalidMethod is returned for HTTP methods the API does not accept
	ErrInvalidMethod = errors.New("invalid HTTP method")

	// Resource materialization errors
	ErrMissingID           = errors.New("resource attributes have no id")
	ErrUnknownResourceType = errors.New("unknown resource type")
	ErrKindMismatch        = errors.New("resource is of a different kind")
	ErrUnexpectedResponse  = errors.New("unexpected response shape")

	// ErrNotApplicable is returned by accessors for fields or links the
	// response did not include
	ErrNotApplicable = errors.New("not applicable to this resource")
)

// ConfigError is returned when a required credential or setting is missing.
// It is always raised before any network activity.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error on '%s': %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Category returns the error category
func (e *ConfigError) Category() ErrorCategory { return CategoryConfiguration }

// NewConfigError creates a new configuration error
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Category returns the error category
func (e *ValidationError) Category() ErrorCategory { return CategoryValidation }

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// SignatureError means a supplied signature did not match the recomputed one.
// Callers must treat it as an authentication failure and never retry.
type SignatureError struct {
	Message string
}

func (e *SignatureError) Error() string {
	return "signature error: " + e.Message
}

// Category returns the error category
func (e *SignatureError) Category() ErrorCategory { return CategorySignature }

// NewSignatureError creates a new signature error
func NewSignatureError(message string) *SignatureError {
	return &SignatureError{Message: message}
}

// APIError carries an error reported by the remote API in the response body
type APIError struct {
	Message    string
	StatusCode int
	Payload    interface{}
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Category returns the error category
func (e *APIError) Category() ErrorCategory { return CategoryAPI }

// NewAPIError builds an APIError from the decoded "error" or "errors" value
func NewAPIError(payload interface{}) *APIError {
	return &APIError{
		Message: "Error calling api, message was " + StringifyAPIErrors(payload),
		Payload: payload,
	}
}

// StringifyAPIErrors flattens an error payload into one message.
// Lists are joined with ", "; maps of field to messages become "{field} {message}".
func StringifyAPIErrors(payload interface{}) string {
	var msgs []string
	switch v := payload.(type) {
	case string:
		return v
	case []interface{}:
		for _, item := range v {
			msgs = append(msgs, fmt.Sprint(item))
		}
	case []string:
		msgs = append(msgs, v...)
	case map[string]interface{}:
		fields := make([]string, 0, len(v))
		for field := range v {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			switch list := v[field].(type) {
			case []interface{}:
				for _, msg := range list {
					msgs = append(msgs, fmt.Sprintf("%s %v", field, msg))
				}
			default:
				msgs = append(msgs, fmt.Sprintf("%s %v", field, list))
			}
		}
	default:
		return fmt.Sprint(payload)
	}
	return strings.Join(msgs, ", ")
}

// TransportError wraps a network failure from the HTTP layer
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Category returns the error category
func (e *TransportError) Category() ErrorCategory { return CategoryNetworkError }

// NewTransportError creates a new transport error
func NewTransportError(method, url string, err error) *TransportError {
	return &TransportError{Method: method, URL: url, Err: err}
}
