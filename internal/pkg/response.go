package pkg

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/karirkit/karirkit/internal/domain"
)

// ErrorResponse is the JSON shape of every error response. Field-level
// validation failures map field names to one or more messages; errors not
// attributable to a field use the reserved key "general".
type ErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// GeneralErrorKey is the reserved field name for errors that do not belong
// to any input field.
const GeneralErrorKey = "general"

// MassDeleteResponse reports how many items a mass-delete removed.
type MassDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// MessageResponse is the body of responses that carry only a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Item sends a 200 response whose body is the resource item itself.
func Item(c *gin.Context, item any) {
	c.JSON(http.StatusOK, item)
}

// Created sends a 201 response whose body is the created resource item.
func Created(c *gin.Context, item any) {
	c.JSON(http.StatusCreated, item)
}

// List sends a 200 response with the {items, pagination} list envelope.
// page should be a *domain.Page[T].
func List(c *gin.Context, page any) {
	c.JSON(http.StatusOK, page)
}

// Error sends an error response. *domain.AppError codes map to HTTP status
// codes; anything else is reported as a 500. The message lands under the
// reserved "general" key so clients never mistake it for a field error.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	var appErr *domain.AppError
	msg := "internal error"
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.JSON(status, ErrorResponse{
		Errors: map[string][]string{GeneralErrorKey: {msg}},
	})
}

// FieldErrors sends a 422 response with per-field validation messages.
func FieldErrors(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Errors: fields})
}

// BindAndValidate binds the request body to obj and validates it.
// On failure it sends a field-error response and returns false.
// Because obj is available, JSON struct tags are used for field names when possible.
// Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		fieldErrorsFromBinding(c, err, obj)
		return false
	}
	return true
}

// fieldErrorsFromBinding sends a validation error response for a binding failure.
// When obj is non-nil, it reflects on the struct to prefer JSON tag names.
func fieldErrorsFromBinding(c *gin.Context, err error, obj any) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		// Malformed body rather than failed field rules.
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Errors: map[string][]string{GeneralErrorKey: {err.Error()}},
		})
		return
	}

	jsonTags := buildJSONTagMap(obj)

	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fields[name] = append(fields[name], msg)
	}

	FieldErrors(c, fields)
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
// If obj is nil or not a struct (pointer), it returns an empty map.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if name := parseJSONTagName(tag); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
