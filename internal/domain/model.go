package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is the common base struct for all domain models.
// IDs are UUID strings assigned on create; CreatedAt/UpdatedAt are managed
// by the database layer and never accepted from clients.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when no ID was provided.
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ListQuery holds pagination, sorting, and filtering parameters for list
// endpoints. Absence means "no filter": empty values are never stored in
// Filter.
type ListQuery struct {
	Page      int
	PerPage   int
	Q         string
	SortBy    string
	SortOrder string
	Filter    map[string]string
}

// Pagination is the metadata block returned alongside every list page.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Page is an ordered slice of items plus pagination metadata.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPage builds a Page from the fetched items, the unpaginated total, and
// the query that produced them. TotalPages = ceil(total_items / per_page).
func NewPage[T any](items []T, total int64, q ListQuery) *Page[T] {
	totalPages := 0
	if q.PerPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.PerPage)))
	}

	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Items: items,
		Pagination: Pagination{
			Page:       q.Page,
			PerPage:    q.PerPage,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}
}
