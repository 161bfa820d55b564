package blog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"title", "slug", "status", "published_at", "created_at", "updated_at"}
	allowedFilterFields = []string{"status"}
	searchColumns       = []string{"title", "slug", "body"}
)

const defaultOrder = "created_at desc"

// blogRepository implements domain.BlogRepository using GORM.
type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new BlogRepository backed by the given GORM database.
func NewBlogRepository(db *gorm.DB) domain.BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	var blog domain.Blog
	if err := r.db.WithContext(ctx).First(&blog, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &blog, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	var blog domain.Blog
	if err := r.db.WithContext(ctx).First(&blog, "slug = ?", slug).Error; err != nil {
		return nil, mapError(err)
	}
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Blog], error) {
	return r.list(ctx, q, r.db.WithContext(ctx).Model(&domain.Blog{}))
}

// ListPublished restricts the listing to published posts. The status filter
// is forced here so callers of the public surface can never widen it.
func (r *blogRepository) ListPublished(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Blog], error) {
	base := r.db.WithContext(ctx).Model(&domain.Blog{}).
		Where("status = ?", domain.BlogStatusPublished)
	return r.list(ctx, q, base)
}

func (r *blogRepository) list(_ context.Context, q domain.ListQuery, base *gorm.DB) (*domain.Page[domain.Blog], error) {
	base = base.Scopes(
		pkg.Search(q, searchColumns),
		pkg.Filter(q, allowedFilterFields),
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var blogs []domain.Blog
	if err := base.Scopes(
		pkg.Paginate(q),
		pkg.Sort(q, allowedSortFields, defaultOrder),
	).Find(&blogs).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPage(blogs, total, q), nil
}

func (r *blogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Blog{}, "id = ?", id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany removes all posts whose ID is in ids and reports the row count.
func (r *blogRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Blog{}, "id IN ?", ids)
		if result.Error != nil {
			return mapError(result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "slug already in use", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
