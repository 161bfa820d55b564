package client

import (
	"context"
	"sync"
)

// Phase is the display state of a list view. Loading, error, and empty are
// distinct: an error affordance is not the same thing as zero results.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseEmpty
	PhaseReady
)

// ListState is a snapshot of what a list view should render.
type ListState struct {
	Phase Phase
	Page  *Page
	Err   error
}

// ControllerOption configures a ListController.
type ControllerOption func(*ListController)

// WithDefaultSort sets the sort applied before the user picks a column.
func WithDefaultSort(field, order string) ControllerOption {
	return func(c *ListController) {
		c.sortBy = field
		c.sortOrder = order
	}
}

// WithColumnDefaultOrder sets the direction a column starts with when it is
// first selected for sorting. Columns without an entry start ascending
// (date columns typically start descending).
func WithColumnDefaultOrder(orders map[string]string) ControllerOption {
	return func(c *ListController) { c.columnOrder = orders }
}

// WithPerPage sets the initial page size.
func WithPerPage(n int) ControllerOption {
	return func(c *ListController) { c.perPage = n }
}

// ListController owns the transient UI state of one list view: staged and
// applied filters, sort, pagination, row selection, column visibility, and
// dialog flags. It derives query parameters from that state and renders only
// the page matching the current derived parameters, so a stale response can
// never overwrite a newer one.
type ListController struct {
	store    *QueryStore
	resource string

	mu sync.Mutex

	stagedQ       string
	stagedFilters map[string]string
	activeQ       string
	activeFilters map[string]string

	sortBy      string
	sortOrder   string
	columnOrder map[string]string

	page    int
	perPage int

	selection map[string]struct{}
	columns   map[string]bool

	deleteDialogOpen     bool
	bulkDeleteDialogOpen bool
	filterDialogOpen     bool

	state       ListState
	renderedKey string
	closed      bool
	unwatch     func()
}

// NewListController creates a controller for the named resource and binds it
// to the store as a live query: a mutation that invalidates the resource
// clears the selection (the selected ids may no longer exist) and re-fetches.
// Call Close when the view goes away.
func NewListController(store *QueryStore, resource string, opts ...ControllerOption) *ListController {
	c := &ListController{
		store:     store,
		resource:  resource,
		page:      1,
		perPage:   20,
		selection: make(map[string]struct{}),
		columns:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.unwatch = store.Watch(resource, func(ctx context.Context) {
		c.ClearSelection()
		c.Refresh(ctx)
	})
	return c
}

// Close detaches the controller from the store. No state updates happen
// after Close returns.
func (c *ListController) Close() {
	c.unwatch()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Params derives the query parameters from the applied filter, sort, and
// pagination state.
func (c *ListController) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paramsLocked()
}

func (c *ListController) paramsLocked() Params {
	p := Params{
		Page:      c.page,
		PerPage:   c.perPage,
		Q:         c.activeQ,
		SortBy:    c.sortBy,
		SortOrder: c.sortOrder,
	}
	if len(c.activeFilters) > 0 {
		p.Filters = make(map[string]string, len(c.activeFilters))
		for k, v := range c.activeFilters {
			p.Filters[k] = v
		}
	}
	return p
}

// State returns the current render snapshot.
func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Refresh fetches the page for the current derived parameters. The result is
// committed only if the parameters are still current when it arrives; on
// error the fetch state turns to PhaseError but filters, sort, pagination,
// and selection all survive so the user can retry.
func (c *ListController) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	params := c.paramsLocked()
	key := CacheKey(c.resource, params)
	c.renderedKey = key
	c.state.Phase = PhaseLoading
	c.mu.Unlock()

	page, err := c.store.List(ctx, c.resource, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.renderedKey != key {
		// Superseded by a newer parameter set; drop the result.
		return
	}
	if err != nil {
		c.state = ListState{Phase: PhaseError, Err: err}
		return
	}
	phase := PhaseReady
	if len(page.Items) == 0 {
		phase = PhaseEmpty
	}
	c.state = ListState{Phase: phase, Page: page}
}

// StageQuery stages the free-text query without applying it.
func (c *ListController) StageQuery(q string) {
	c.mu.Lock()
	c.stagedQ = q
	c.mu.Unlock()
}

// StageFilter stages one resource-specific filter field without applying it.
func (c *ListController) StageFilter(field, value string) {
	c.mu.Lock()
	if c.stagedFilters == nil {
		c.stagedFilters = make(map[string]string)
	}
	c.stagedFilters[field] = value
	c.mu.Unlock()
}

// ApplyFilters commits the staged filters, resets to the first page, clears
// the selection, and re-fetches.
func (c *ListController) ApplyFilters(ctx context.Context) {
	c.mu.Lock()
	c.activeQ = c.stagedQ
	c.activeFilters = nil
	if len(c.stagedFilters) > 0 {
		c.activeFilters = make(map[string]string, len(c.stagedFilters))
		for k, v := range c.stagedFilters {
			c.activeFilters[k] = v
		}
	}
	c.page = 1
	c.clearSelectionLocked()
	c.filterDialogOpen = false
	c.mu.Unlock()
	c.Refresh(ctx)
}

// ResetFilters clears both staged and applied filters and re-fetches from
// the first page.
func (c *ListController) ResetFilters(ctx context.Context) {
	c.mu.Lock()
	c.stagedQ = ""
	c.stagedFilters = nil
	c.activeQ = ""
	c.activeFilters = nil
	c.page = 1
	c.clearSelectionLocked()
	c.mu.Unlock()
	c.Refresh(ctx)
}

// ToggleSort sorts by the given column. Clicking the active column flips the
// direction; clicking a new column applies that column's default direction.
// Either way the selection is cleared and the list re-fetches.
func (c *ListController) ToggleSort(ctx context.Context, column string) {
	c.mu.Lock()
	if c.sortBy == column {
		if c.sortOrder == "asc" {
			c.sortOrder = "desc"
		} else {
			c.sortOrder = "asc"
		}
	} else {
		c.sortBy = column
		c.sortOrder = c.defaultOrderFor(column)
	}
	c.clearSelectionLocked()
	c.mu.Unlock()
	c.Refresh(ctx)
}

func (c *ListController) defaultOrderFor(column string) string {
	if order, ok := c.columnOrder[column]; ok {
		return order
	}
	return "asc"
}

// Sort returns the applied sort field and direction.
func (c *ListController) Sort() (field, order string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortBy, c.sortOrder
}

// SetPage jumps to a page and re-fetches. Selection does not survive a page
// change.
func (c *ListController) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.page = page
	c.clearSelectionLocked()
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetPerPage changes the page size, resets to the first page, and
// re-fetches.
func (c *ListController) SetPerPage(ctx context.Context, perPage int) {
	c.mu.Lock()
	c.perPage = perPage
	c.page = 1
	c.clearSelectionLocked()
	c.mu.Unlock()
	c.Refresh(ctx)
}

// ToggleSelect adds or removes one row id from the selection.
func (c *ListController) ToggleSelect(id string) {
	c.mu.Lock()
	if _, ok := c.selection[id]; ok {
		delete(c.selection, id)
	} else {
		c.selection[id] = struct{}{}
	}
	c.mu.Unlock()
}

// SelectAllOnPage sets the selection to exactly the ids of the currently
// rendered page.
func (c *ListController) SelectAllOnPage(ids []string) {
	c.mu.Lock()
	c.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		c.selection[id] = struct{}{}
	}
	c.mu.Unlock()
}

// ClearSelection empties the selection.
func (c *ListController) ClearSelection() {
	c.mu.Lock()
	c.clearSelectionLocked()
	c.mu.Unlock()
}

func (c *ListController) clearSelectionLocked() {
	c.selection = make(map[string]struct{})
}

// Selected returns the selected row ids.
func (c *ListController) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.selection))
	for id := range c.selection {
		ids = append(ids, id)
	}
	return ids
}

// DeleteSelected bulk-deletes the selected rows through m. The selection is
// cleared whenever the request completes, whatever count the server reports,
// since the surviving ids are only knowable from the fresh fetch the
// mutation already triggered.
func (c *ListController) DeleteSelected(ctx context.Context, m *Mutator) (int64, error) {
	ids := c.Selected()
	deleted, err := m.BulkDelete(ctx, ids)
	if err == nil {
		c.mu.Lock()
		c.clearSelectionLocked()
		c.bulkDeleteDialogOpen = false
		c.mu.Unlock()
	}
	return deleted, err
}

// SetColumnVisible shows or hides a column. Visibility lives only for the
// lifetime of the view.
func (c *ListController) SetColumnVisible(column string, visible bool) {
	c.mu.Lock()
	c.columns[column] = visible
	c.mu.Unlock()
}

// ColumnVisible reports whether a column is shown. Columns are visible until
// explicitly hidden.
func (c *ListController) ColumnVisible(column string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	visible, ok := c.columns[column]
	return !ok || visible
}

// Dialog flags. These are independent booleans; which one is meaningfully
// active is a UI convention, not a data invariant.

func (c *ListController) SetDeleteDialog(open bool) {
	c.mu.Lock()
	c.deleteDialogOpen = open
	c.mu.Unlock()
}

func (c *ListController) SetBulkDeleteDialog(open bool) {
	c.mu.Lock()
	c.bulkDeleteDialogOpen = open
	c.mu.Unlock()
}

func (c *ListController) SetFilterDialog(open bool) {
	c.mu.Lock()
	c.filterDialogOpen = open
	c.mu.Unlock()
}

func (c *ListController) DeleteDialogOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteDialogOpen
}

func (c *ListController) BulkDeleteDialogOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bulkDeleteDialogOpen
}

func (c *ListController) FilterDialogOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterDialogOpen
}
