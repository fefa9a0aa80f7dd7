package amdapi

import "fmt"

// AuthError is returned when the auth endpoint rejects the client
// credentials, or when the API rejects the bearer token (401/403).
type AuthError struct {
	StatusCode int
	Reason     string
}

func (e *AuthError) Error() string {
	switch e.StatusCode {
	case 400:
		return fmt.Sprintf("amdapi: authorization failed (%d): invalid client credentials", e.StatusCode)
	case 401, 403:
		return fmt.Sprintf("amdapi: authorization failed (%d): token rejected", e.StatusCode)
	default:
		return fmt.Sprintf("amdapi: authorization failed (%d): %s", e.StatusCode, e.Reason)
	}
}

// ValidationError is returned when a parameter fails local validation, or
// when the API reports a malformed request (400/422). Local enum checks fail
// before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("amdapi: invalid %s: %s", e.Field, e.Message)
	}
	return "amdapi: validation failed: " + e.Message
}

// NotFoundError is returned when no call matches the supplied UUID.
type NotFoundError struct {
	UUID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("amdapi: call %q not found", e.UUID)
}

// ServerError is returned on any 5xx response.
type ServerError struct {
	StatusCode int
	Reason     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("amdapi: server error (%d): %s", e.StatusCode, e.Reason)
}

// PageOutOfRangeError is returned by SearchCalls when the requested page
// number exceeds the number of result pages.
type PageOutOfRangeError struct {
	PageNumber int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("amdapi: search page %d is out of range", e.PageNumber)
}

// TransportError wraps a network-level failure (connection refused, timeout,
// DNS) encountered before a response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("amdapi: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
