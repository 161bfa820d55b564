package pkg

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/karirkit/karirkit/internal/domain"
	"gorm.io/gorm"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
	maxPerPage     = 100
)

// reservedParams lists query parameter names used for pagination/sorting/search,
// not for field filtering.
var reservedParams = map[string]bool{
	"page":       true,
	"per_page":   true,
	"q":          true,
	"sort_by":    true,
	"sort_order": true,
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParseListQuery extracts pagination, sorting, search, and filtering
// parameters from the request query string. Parameters with empty values are
// treated as absent.
func ParseListQuery(c *gin.Context) domain.ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	return domain.ListQuery{
		Page:      page,
		PerPage:   perPage,
		Q:         strings.TrimSpace(c.Query("q")),
		SortBy:    strings.TrimSpace(c.Query("sort_by")),
		SortOrder: strings.ToLower(strings.TrimSpace(c.Query("sort_order"))),
		Filter:    filter,
	}
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET based on the query.
func Paginate(q domain.ListQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (q.Page - 1) * q.PerPage
		return db.Offset(offset).Limit(q.PerPage)
	}
}

// Sort returns a GORM scope that applies ORDER BY based on sort_by/sort_order.
// Only field names present in the allowed list are accepted; anything else
// falls back to the resource's default ordering (e.g. "created_at desc").
// A missing or invalid sort_order defaults to "asc".
func Sort(q domain.ListQuery, allowed []string, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := q.SortBy
		if field == "" || !validFieldName.MatchString(field) || !slices.Contains(allowed, field) {
			if fallback == "" {
				return db
			}
			return db.Order(fallback)
		}

		direction := q.SortOrder
		if direction != "asc" && direction != "desc" {
			direction = "asc"
		}

		return db.Order(field + " " + direction)
	}
}

// Search returns a GORM scope that applies a case-insensitive LIKE condition
// over the given columns for the free-text q parameter. An empty q is a no-op.
func Search(q domain.ListQuery, columns []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Q == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + q.Q + "%"
		var (
			clauses []string
			args    []any
		)
		for _, col := range columns {
			if !validFieldName.MatchString(col) {
				continue
			}
			clauses = append(clauses, col+" LIKE ?")
			args = append(args, pattern)
		}
		if len(clauses) == 0 {
			return db
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// Filter returns a GORM scope that applies exact-match WHERE conditions for
// resource-specific filter parameters. Only keys present in the allowed list
// are applied; others are silently ignored.
func Filter(q domain.ListQuery, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range q.Filter {
			if !validFieldName.MatchString(key) {
				continue
			}
			if !slices.Contains(allowed, key) {
				continue
			}
			db = db.Where(key+" = ?", value)
		}
		return db
	}
}
