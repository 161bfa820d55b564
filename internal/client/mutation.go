package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Notifier receives general, non-field failure messages. Field-level
// validation errors never reach the notifier; they are returned to the
// caller for form mapping instead.
type Notifier interface {
	Notify(message string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}

// Mutator issues create/update/delete/bulk-delete requests for one resource
// and keeps the query cache coherent: every successful mutation invalidates
// the resource's namespace plus any configured secondary namespaces.
type Mutator struct {
	transport *Transport
	store     *QueryStore
	resource  string
	secondary []string
	notifier  Notifier
	validate  *validator.Validate
}

// MutatorOption configures a Mutator.
type MutatorOption func(*Mutator)

// WithSecondaryNamespaces adds cache namespaces invalidated alongside the
// primary resource, for resources with secondary views (e.g. "blogs" and
// "blogs/published").
func WithSecondaryNamespaces(namespaces ...string) MutatorOption {
	return func(m *Mutator) { m.secondary = namespaces }
}

// WithNotifier routes general error messages to n.
func WithNotifier(n Notifier) MutatorOption {
	return func(m *Mutator) { m.notifier = n }
}

// NewMutator creates a Mutator for the named resource.
func NewMutator(t *Transport, store *QueryStore, resource string, opts ...MutatorOption) *Mutator {
	m := &Mutator{
		transport: t,
		store:     store,
		resource:  resource,
		notifier:  NopNotifier{},
		validate:  validator.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create POSTs a typed input and returns the created item raw. The input's
// validate tags are checked before anything goes on the wire.
func (m *Mutator) Create(ctx context.Context, input any) (json.RawMessage, error) {
	if err := m.checkInput(input); err != nil {
		return nil, err
	}
	var item json.RawMessage
	if err := m.transport.Do(ctx, http.MethodPost, "/"+m.resource, nil, input, &item); err != nil {
		return nil, m.fail("create", err)
	}
	m.invalidate(ctx)
	return item, nil
}

// CreateMultipart uploads a file with accompanying form fields and returns
// the created item raw. Used by resources whose create endpoint takes
// multipart bodies (documents).
func (m *Mutator) CreateMultipart(ctx context.Context, fields map[string]string, fileField, fileName string, file io.Reader) (json.RawMessage, error) {
	var item json.RawMessage
	if err := m.transport.DoMultipart(ctx, http.MethodPost, "/"+m.resource, fields, fileField, fileName, file, &item); err != nil {
		return nil, m.fail("upload", err)
	}
	m.invalidate(ctx)
	return item, nil
}

// Update PUTs a typed input for one item and returns the updated item raw.
func (m *Mutator) Update(ctx context.Context, id string, input any) (json.RawMessage, error) {
	if err := m.checkInput(input); err != nil {
		return nil, err
	}
	var item json.RawMessage
	if err := m.transport.Do(ctx, http.MethodPut, "/"+m.resource+"/"+id, nil, input, &item); err != nil {
		return nil, m.fail("update", err)
	}
	m.invalidate(ctx)
	return item, nil
}

// Delete removes one item.
func (m *Mutator) Delete(ctx context.Context, id string) error {
	if err := m.transport.Do(ctx, http.MethodDelete, "/"+m.resource+"/"+id, nil, nil, nil); err != nil {
		return m.fail("delete", err)
	}
	m.invalidate(ctx)
	return nil
}

// BulkDelete removes a set of items and returns the server-reported count.
// The cache is invalidated whenever the request completes, regardless of how
// many items the server actually deleted: the surviving id set is only
// knowable from a fresh fetch.
func (m *Mutator) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, &ValidationError{Fields: map[string][]string{"ids": {"at least one id is required"}}}
	}
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	body := map[string][]string{"ids": ids}
	if err := m.transport.Do(ctx, http.MethodDelete, "/"+m.resource+"/mass-delete", nil, body, &resp); err != nil {
		return 0, m.fail("bulk delete", err)
	}
	m.invalidate(ctx)
	return resp.Deleted, nil
}

// checkInput runs the validator over a typed input before transmission and
// converts tag failures into the same ValidationError shape the server
// produces, so form mapping works identically for both.
func (m *Mutator) checkInput(input any) error {
	if input == nil {
		return nil
	}
	v := reflect.ValueOf(input)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		// Untyped payloads skip boundary validation; the server
		// still validates.
		return nil
	}
	err := m.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		fields[field] = append(fields[field], fmt.Sprintf("failed %q validation", fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}

// fail routes general error messages to the notifier. Field-level validation
// detail passes through untouched for the caller to map onto its form.
func (m *Mutator) fail(action string, err error) error {
	if IsValidation(err) {
		for _, msg := range GeneralMessages(err) {
			m.notifier.Notify(msg)
		}
		return err
	}
	m.notifier.Notify(fmt.Sprintf("%s %s failed: %v", m.resource, action, err))
	return err
}

func (m *Mutator) invalidate(ctx context.Context) {
	namespaces := append([]string{m.resource}, m.secondary...)
	m.store.Invalidate(ctx, namespaces...)
}
