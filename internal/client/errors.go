package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GeneralErrorKey is the reserved field name the server uses for errors that
// belong to no particular input field.
const GeneralErrorKey = "general"

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a 4xx response carrying per-field messages in the
// server's `{errors: {field: [messages]}}` shape.
type ValidationError struct {
	Status int
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation error (status %d)", e.Status)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation error: " + strings.Join(parts, ", ")
}

// AuthError is a 401 or 403 response. Callers typically redirect to login.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (status %d)", e.Status)
}

// NotFoundError is a 404 response for a single-item request.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// ServerError is any 5xx response.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsServer reports whether err is a ServerError.
func IsServer(err error) bool {
	var e *ServerError
	return errors.As(err, &e)
}

// FieldMessages extracts the first message per named field from a validation
// error, skipping the reserved general key. Returns nil when err carries no
// field detail.
func FieldMessages(err error) map[string]string {
	var e *ValidationError
	if !errors.As(err, &e) {
		return nil
	}
	var out map[string]string
	for field, msgs := range e.Fields {
		if field == GeneralErrorKey || len(msgs) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(e.Fields))
		}
		out[field] = msgs[0]
	}
	return out
}

// GeneralMessages extracts the messages under the reserved general key from a
// validation error, if any.
func GeneralMessages(err error) []string {
	var e *ValidationError
	if !errors.As(err, &e) {
		return nil
	}
	return e.Fields[GeneralErrorKey]
}
