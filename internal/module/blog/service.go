package blog

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/events"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title into a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// blogService implements domain.BlogService.
type blogService struct {
	repo      domain.BlogRepository
	publisher events.Publisher
}

// NewBlogService creates a new BlogService. publisher may be a NoopPublisher
// but must not be nil.
func NewBlogService(repo domain.BlogRepository, publisher events.Publisher) domain.BlogService {
	return &blogService{repo: repo, publisher: publisher}
}

// CreateBlog validates input and persists a new post. Publishing at creation
// time stamps PublishedAt and emits a blog.published event.
func (s *blogService) CreateBlog(ctx context.Context, title, slug, body, status string) (*domain.Blog, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = Slugify(title)
	}

	status, err := normalizeStatus(status)
	if err != nil {
		return nil, err
	}
	if err := validateTitleSlug(title, slug); err != nil {
		return nil, err
	}

	blog := &domain.Blog{
		Title:  title,
		Slug:   slug,
		Body:   body,
		Status: status,
	}
	if status == domain.BlogStatusPublished {
		now := time.Now().UTC()
		blog.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}

	if blog.Status == domain.BlogStatusPublished {
		s.emitPublished(ctx, blog)
	}
	return blog, nil
}

// GetBlog retrieves a post by ID.
func (s *blogService) GetBlog(ctx context.Context, id string) (*domain.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

// ListBlogs returns a paginated list of all posts, drafts included.
func (s *blogService) ListBlogs(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Blog], error) {
	return s.repo.List(ctx, q)
}

// ListPublishedBlogs returns a paginated list of published posts only.
func (s *blogService) ListPublishedBlogs(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Blog], error) {
	return s.repo.ListPublished(ctx, q)
}

// UpdateBlog loads the existing post, applies changes, and persists them.
// A draft-to-published transition stamps PublishedAt and emits an event;
// the original publish timestamp is kept on later edits.
func (s *blogService) UpdateBlog(ctx context.Context, id, title, slug, body, status string) (*domain.Blog, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = Slugify(title)
	}

	status, err := normalizeStatus(status)
	if err != nil {
		return nil, err
	}
	if err := validateTitleSlug(title, slug); err != nil {
		return nil, err
	}

	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	justPublished := blog.Status != domain.BlogStatusPublished && status == domain.BlogStatusPublished

	blog.Title = title
	blog.Slug = slug
	blog.Body = body
	blog.Status = status
	if justPublished {
		now := time.Now().UTC()
		blog.PublishedAt = &now
	}

	if err := s.repo.Update(ctx, blog); err != nil {
		return nil, err
	}

	if justPublished {
		s.emitPublished(ctx, blog)
	}
	return blog, nil
}

// DeleteBlog removes a post by ID.
func (s *blogService) DeleteBlog(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DeleteBlogs removes several posts at once and reports how many rows were deleted.
func (s *blogService) DeleteBlogs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewAppError(domain.CodeValidation, "ids must not be empty", nil)
	}
	return s.repo.DeleteMany(ctx, ids)
}

// emitPublished publishes the event best-effort. A broker outage must not
// fail the write that already happened.
func (s *blogService) emitPublished(ctx context.Context, blog *domain.Blog) {
	e := events.NewBlogPublished(blog.ID, blog.Slug, blog.Title)
	if err := s.publisher.PublishBlogPublished(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish blog.published event",
			"blog_id", blog.ID, "error", err)
	}
}

func normalizeStatus(status string) (string, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return domain.BlogStatusDraft, nil
	}
	if status != domain.BlogStatusDraft && status != domain.BlogStatusPublished {
		return "", domain.NewAppError(domain.CodeValidation, "status must be draft or published", nil)
	}
	return status, nil
}

func validateTitleSlug(title, slug string) error {
	if title == "" {
		return domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	if utf8.RuneCountInString(title) > 200 {
		return domain.NewAppError(domain.CodeValidation, "title must be at most 200 characters", nil)
	}
	if slug == "" {
		return domain.NewAppError(domain.CodeValidation, "slug is required", nil)
	}
	if len(slug) > 200 {
		return domain.NewAppError(domain.CodeValidation, "slug must be at most 200 characters", nil)
	}
	if Slugify(slug) != slug {
		return domain.NewAppError(domain.CodeValidation, "slug may contain only lowercase letters, digits, and hyphens", nil)
	}
	return nil
}
