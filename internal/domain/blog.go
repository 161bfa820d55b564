package domain

import (
	"context"
	"time"
)

// Blog statuses.
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// Blog represents a blog post. Draft posts are visible only through the
// admin listing; published posts additionally appear in the public listing.
type Blog struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Body        string     `gorm:"type:text" json:"body"`
	Status      string     `gorm:"size:20;not null;default:draft" json:"status"`
	PublishedAt *time.Time `json:"published_at"`
}

// BlogRepository defines the data access interface for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, blog *Blog) error
	GetByID(ctx context.Context, id string) (*Blog, error)
	GetBySlug(ctx context.Context, slug string) (*Blog, error)
	List(ctx context.Context, q ListQuery) (*Page[Blog], error)
	ListPublished(ctx context.Context, q ListQuery) (*Page[Blog], error)
	Update(ctx context.Context, blog *Blog) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// BlogService defines the business logic interface for blog posts.
type BlogService interface {
	CreateBlog(ctx context.Context, title, slug, body, status string) (*Blog, error)
	GetBlog(ctx context.Context, id string) (*Blog, error)
	ListBlogs(ctx context.Context, q ListQuery) (*Page[Blog], error)
	ListPublishedBlogs(ctx context.Context, q ListQuery) (*Page[Blog], error)
	UpdateBlog(ctx context.Context, id, title, slug, body, status string) (*Blog, error)
	DeleteBlog(ctx context.Context, id string) error
	DeleteBlogs(ctx context.Context, ids []string) (int64, error)
}
