package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	n.messages = append(n.messages, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type jobInput struct {
	Title   string `json:"title" validate:"required"`
	Company string `json:"company" validate:"required"`
}

func TestMutatorCreate_ValidatesBeforeTransmission(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL)
	m := NewMutator(tr, NewQueryStore(tr), "jobs")

	_, err := m.Create(context.Background(), jobInput{Title: "Backend Engineer"})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := FieldMessages(err)["Company"]; !ok {
		t.Errorf("expected Company field error, got %v", FieldMessages(err))
	}
	if hits.Load() != 0 {
		t.Errorf("invalid input reached the wire (%d requests)", hits.Load())
	}
}

func TestMutatorCreate_InvalidatesOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "j1", "title": "Backend Engineer"})
		default:
			w.Write([]byte(`{"items": [], "pagination": {"page": 1, "per_page": 20, "total_items": 0, "total_pages": 0}}`))
		}
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL)
	store := NewQueryStore(tr)
	ctx := context.Background()

	if _, err := store.List(ctx, "jobs", Params{Page: 1}); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	var refreshes atomic.Int32
	cancel := store.Watch("jobs", func(context.Context) { refreshes.Add(1) })
	defer cancel()

	m := NewMutator(tr, store, "jobs")
	item, err := m.Create(ctx, jobInput{Title: "Backend Engineer", Company: "Acme"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var created map[string]string
	if err := json.Unmarshal(item, &created); err != nil {
		t.Fatalf("unmarshal created item: %v", err)
	}
	if created["id"] != "j1" {
		t.Errorf("created = %v", created)
	}
	if refreshes.Load() != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes.Load())
	}
}

func TestMutatorUpdate_FieldErrorsNotNotified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": map[string][]string{"email": {"Format email tidak valid"}},
		})
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL)
	notifier := &recordingNotifier{}
	m := NewMutator(tr, NewQueryStore(tr), "users", WithNotifier(notifier))

	_, err := m.Update(context.Background(), "u1", map[string]string{"email": "nope"})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := FieldMessages(err)["email"]; got != "Format email tidak valid" {
		t.Errorf("email message = %q", got)
	}
	if msgs := notifier.all(); len(msgs) != 0 {
		t.Errorf("field errors must not also notify: %v", msgs)
	}
}

func TestMutatorUpdate_GeneralErrorNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": map[string][]string{"general": {"email already in use"}},
		})
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL)
	notifier := &recordingNotifier{}
	m := NewMutator(tr, NewQueryStore(tr), "users", WithNotifier(notifier))

	_, err := m.Update(context.Background(), "u1", map[string]string{"email": "taken@example.com"})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	msgs := notifier.all()
	if len(msgs) != 1 || msgs[0] != "email already in use" {
		t.Errorf("notifications = %v", msgs)
	}
	if got := FieldMessages(err); len(got) != 0 {
		t.Errorf("general errors must not map to fields: %v", got)
	}
}

func TestMutatorDelete_ServerErrorNotifiesAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, WithMaxRetries(0))
	notifier := &recordingNotifier{}
	m := NewMutator(tr, NewQueryStore(tr), "jobs", WithNotifier(notifier))

	if err := m.Delete(context.Background(), "j1"); !IsServer(err) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if msgs := notifier.all(); len(msgs) != 1 {
		t.Fatalf("notifications = %v, want one generic failure", msgs)
	}
}

func TestMutatorBulkDelete(t *testing.T) {
	var gotIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/jobs/mass-delete" && r.Method == http.MethodDelete {
			var body struct {
				IDs []string `json:"ids"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			gotIDs = body.IDs
			json.NewEncoder(w).Encode(map[string]int{"deleted": 2})
			return
		}
		w.Write([]byte(`{"items": [], "pagination": {"page": 1, "per_page": 20, "total_items": 0, "total_pages": 0}}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL)
	store := NewQueryStore(tr)
	ctx := context.Background()

	var refreshes atomic.Int32
	cancel := store.Watch("jobs", func(context.Context) { refreshes.Add(1) })
	defer cancel()

	m := NewMutator(tr, store, "jobs")

	// Partial success: three ids sent, two deleted. The cache is
	// invalidated regardless.
	deleted, err := m.BulkDelete(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BulkDelete() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if len(gotIDs) != 3 {
		t.Errorf("sent ids = %v", gotIDs)
	}
	if refreshes.Load() != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes.Load())
	}

	if _, err := m.BulkDelete(ctx, nil); !IsValidation(err) {
		t.Errorf("empty id set should fail client-side, got %v", err)
	}
}

func TestMutatorSecondaryNamespaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "b1"}`))
		default:
			w.Write([]byte(`{"items": [], "pagination": {"page": 1, "per_page": 20, "total_items": 0, "total_pages": 0}}`))
		}
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL)
	store := NewQueryStore(tr)
	ctx := context.Background()

	var adminRefreshes, publicRefreshes atomic.Int32
	c1 := store.Watch("blogs", func(context.Context) { adminRefreshes.Add(1) })
	defer c1()
	c2 := store.Watch("blogs/published", func(context.Context) { publicRefreshes.Add(1) })
	defer c2()

	m := NewMutator(tr, store, "blogs", WithSecondaryNamespaces("blogs/published"))
	if _, err := m.Create(ctx, map[string]string{"title": "Hello"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if adminRefreshes.Load() != 1 || publicRefreshes.Load() != 1 {
		t.Errorf("refreshes = (%d, %d), want (1, 1): both namespaces invalidate",
			adminRefreshes.Load(), publicRefreshes.Load())
	}
}
