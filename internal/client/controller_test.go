package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"
)

// listServer serves a deterministic page for any params: one item whose id
// encodes the requested page and query, so tests can tell results apart.
func listServer(t *testing.T, delays map[string]time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			json.NewEncoder(w).Encode(map[string]int{"deleted": 0})
			return
		}
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}
		if d, ok := delays[page]; ok {
			time.Sleep(d)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{{"id": "item-page-" + page}},
			"pagination": map[string]any{
				"page": 1, "per_page": 20, "total_items": 1, "total_pages": 1,
			},
		})
	}))
}

func firstItemID(t *testing.T, s ListState) string {
	t.Helper()
	if s.Page == nil || len(s.Page.Items) == 0 {
		t.Fatalf("state has no items: %+v", s)
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(s.Page.Items[0], &item); err != nil {
		t.Fatalf("unmarshal item: %v", err)
	}
	return item.ID
}

func TestListController_SortToggle(t *testing.T) {
	srv := listServer(t, nil)
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs",
		WithColumnDefaultOrder(map[string]string{"applied_at": "desc"}))
	defer c.Close()
	ctx := context.Background()

	c.ToggleSort(ctx, "title")
	if field, order := c.Sort(); field != "title" || order != "asc" {
		t.Errorf("after first click: (%q, %q), want (title, asc)", field, order)
	}

	c.ToggleSort(ctx, "title")
	if field, order := c.Sort(); field != "title" || order != "desc" {
		t.Errorf("after second click: (%q, %q), want (title, desc)", field, order)
	}

	c.ToggleSort(ctx, "status")
	if field, order := c.Sort(); field != "status" || order != "asc" {
		t.Errorf("after switching column: (%q, %q), want (status, asc)", field, order)
	}

	// Date columns start with their configured default direction.
	c.ToggleSort(ctx, "applied_at")
	if field, order := c.Sort(); field != "applied_at" || order != "desc" {
		t.Errorf("date column: (%q, %q), want (applied_at, desc)", field, order)
	}
}

func TestListController_ApplyFiltersResetsPageAndSelection(t *testing.T) {
	srv := listServer(t, nil)
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs")
	defer c.Close()
	ctx := context.Background()

	c.SetPage(ctx, 3)
	c.ToggleSelect("a")
	c.ToggleSelect("b")

	c.StageQuery("golang")
	c.StageFilter("status", "applied")

	// Staging alone changes nothing.
	if p := c.Params(); p.Q != "" || len(p.Filters) != 0 {
		t.Errorf("staged filters leaked into params: %+v", p)
	}

	c.ApplyFilters(ctx)
	p := c.Params()
	if p.Q != "golang" || p.Filters["status"] != "applied" {
		t.Errorf("applied params = %+v", p)
	}
	if p.Page != 1 {
		t.Errorf("page = %d, want 1 after applying filters", p.Page)
	}
	if len(c.Selected()) != 0 {
		t.Errorf("selection survived a filter change: %v", c.Selected())
	}

	c.ResetFilters(ctx)
	p = c.Params()
	if p.Q != "" || len(p.Filters) != 0 {
		t.Errorf("reset left filters behind: %+v", p)
	}
}

func TestListController_PerPageChangeResetsPage(t *testing.T) {
	srv := listServer(t, nil)
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs")
	defer c.Close()
	ctx := context.Background()

	c.SetPage(ctx, 4)
	c.SetPerPage(ctx, 50)

	p := c.Params()
	if p.PerPage != 50 || p.Page != 1 {
		t.Errorf("params = %+v, want per_page 50 page 1", p)
	}
}

func TestListController_Selection(t *testing.T) {
	srv := listServer(t, nil)
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs")
	defer c.Close()

	c.ToggleSelect("a")
	c.ToggleSelect("b")
	c.ToggleSelect("a") // deselect

	if got := c.Selected(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Selected() = %v, want [b]", got)
	}

	c.SelectAllOnPage([]string{"x", "y", "z"})
	got := c.Selected()
	sort.Strings(got)
	if len(got) != 3 || got[0] != "x" {
		t.Errorf("Selected() = %v, want page ids exactly", got)
	}

	c.ClearSelection()
	if len(c.Selected()) != 0 {
		t.Error("ClearSelection left ids behind")
	}
}

func TestListController_DeleteSelectedClearsSelection(t *testing.T) {
	// The server reports zero deletions; the selection clears anyway.
	srv := listServer(t, nil)
	defer srv.Close()

	tr := NewTransport(srv.URL)
	store := NewQueryStore(tr)
	c := NewListController(store, "jobs")
	defer c.Close()
	ctx := context.Background()

	c.SelectAllOnPage([]string{"a", "b", "c"})
	c.SetBulkDeleteDialog(true)

	m := NewMutator(tr, store, "jobs")
	deleted, err := c.DeleteSelected(ctx, m)
	if err != nil {
		t.Fatalf("DeleteSelected() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0 (server fixture)", deleted)
	}
	if len(c.Selected()) != 0 {
		t.Errorf("selection = %v, want empty regardless of reported count", c.Selected())
	}
	if c.BulkDeleteDialogOpen() {
		t.Error("bulk delete dialog should close on completion")
	}
}

func TestListController_MutationInvalidationClearsSelection(t *testing.T) {
	// Deleting one row outside the bulk path still invalidates the list; the
	// other selected ids could point at rows the refresh no longer returns,
	// so the whole selection goes.
	srv := listServer(t, nil)
	defer srv.Close()

	tr := NewTransport(srv.URL)
	store := NewQueryStore(tr)
	c := NewListController(store, "jobs")
	defer c.Close()
	ctx := context.Background()

	c.Refresh(ctx)
	c.ToggleSelect("doomed")
	c.ToggleSelect("survivor")

	m := NewMutator(tr, store, "jobs")
	if err := m.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if got := c.Selected(); len(got) != 0 {
		t.Errorf("selection after single-row delete = %v, want empty", got)
	}
	if c.State().Phase != PhaseReady {
		t.Errorf("phase = %v, want the refreshed page", c.State().Phase)
	}
}

func TestListController_StaleResponseNeverOverwritesNewer(t *testing.T) {
	// Page 1 answers slowly, page 2 instantly. A refresh for page 1 that
	// resolves after the page 2 refresh must not be rendered.
	srv := listServer(t, map[string]time.Duration{"1": 100 * time.Millisecond})
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs")
	defer c.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Refresh(ctx) // page 1, slow
	}()
	time.Sleep(10 * time.Millisecond)
	c.SetPage(ctx, 2) // page 2, fast, completes first
	wg.Wait()

	state := c.State()
	if state.Phase != PhaseReady {
		t.Fatalf("phase = %v, want ready", state.Phase)
	}
	if got := firstItemID(t, state); got != "item-page-2" {
		t.Errorf("rendered item = %q, want item-page-2 (stale page 1 must be dropped)", got)
	}
}

func TestListController_ErrorLeavesStateUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL, WithMaxRetries(0)))
	c := NewListController(store, "jobs", WithDefaultSort("applied_at", "desc"))
	defer c.Close()
	ctx := context.Background()

	c.StageQuery("golang")
	c.ApplyFilters(ctx)
	c.ToggleSelect("a")

	state := c.State()
	if state.Phase != PhaseError || state.Err == nil {
		t.Fatalf("state = %+v, want error phase", state)
	}

	// Filters, sort, and selection all survive so the user can retry.
	p := c.Params()
	if p.Q != "golang" {
		t.Errorf("q = %q, want golang", p.Q)
	}
	if field, order := c.Sort(); field != "applied_at" || order != "desc" {
		t.Errorf("sort = (%q, %q), want (applied_at, desc)", field, order)
	}
	if got := c.Selected(); len(got) != 1 {
		t.Errorf("selection = %v, want [a]", got)
	}
}

func TestListController_EmptyDistinctFromError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [], "pagination": {"page": 1, "per_page": 20, "total_items": 0, "total_pages": 0}}`))
	}))
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs")
	defer c.Close()

	c.Refresh(context.Background())
	state := c.State()
	if state.Phase != PhaseEmpty {
		t.Fatalf("phase = %v, want empty", state.Phase)
	}
	if state.Err != nil {
		t.Errorf("empty result carries an error: %v", state.Err)
	}
}

func TestListController_NoUpdatesAfterClose(t *testing.T) {
	srv := listServer(t, map[string]time.Duration{"1": 50 * time.Millisecond})
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs")
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Refresh(ctx)
	}()
	time.Sleep(10 * time.Millisecond)
	c.Close()
	wg.Wait()

	if state := c.State(); state.Phase == PhaseReady {
		t.Error("a closed controller accepted a late fetch result")
	}

	// The watcher is gone: invalidation does not resurrect it.
	store.Invalidate(ctx, "jobs")
	if state := c.State(); state.Phase == PhaseReady {
		t.Error("invalidation refreshed a closed controller")
	}
}

func TestListController_ColumnVisibility(t *testing.T) {
	srv := listServer(t, nil)
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs")
	defer c.Close()

	if !c.ColumnVisible("title") {
		t.Error("columns should start visible")
	}
	c.SetColumnVisible("title", false)
	if c.ColumnVisible("title") {
		t.Error("hidden column reported visible")
	}
	c.SetColumnVisible("title", true)
	if !c.ColumnVisible("title") {
		t.Error("re-shown column reported hidden")
	}
}

func TestListController_DialogFlagsIndependent(t *testing.T) {
	srv := listServer(t, nil)
	defer srv.Close()

	store := NewQueryStore(NewTransport(srv.URL))
	c := NewListController(store, "jobs")
	defer c.Close()

	c.SetDeleteDialog(true)
	c.SetFilterDialog(true)
	if !c.DeleteDialogOpen() || !c.FilterDialogOpen() || c.BulkDeleteDialogOpen() {
		t.Error("dialog flags are not independent")
	}
	c.SetDeleteDialog(false)
	if c.DeleteDialogOpen() || !c.FilterDialogOpen() {
		t.Error("closing one dialog touched another")
	}
}
