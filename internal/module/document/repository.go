package document

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"title", "file_name", "size_bytes", "uploaded_at", "created_at", "updated_at"}
	allowedFilterFields = []string{"content_type"}
	searchColumns       = []string{"title", "file_name"}
)

const defaultOrder = "uploaded_at desc"

// documentRepository implements domain.DocumentRepository using GORM.
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository backed by the given
// GORM database.
func NewDocumentRepository(db *gorm.DB) domain.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Document], error) {
	base := r.db.WithContext(ctx).Model(&domain.Document{}).
		Scopes(
			pkg.Search(q, searchColumns),
			pkg.Filter(q, allowedFilterFields),
		)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var docs []domain.Document
	if err := base.Scopes(
		pkg.Paginate(q),
		pkg.Sort(q, allowedSortFields, defaultOrder),
	).Find(&docs).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPage(docs, total, q), nil
}

func (r *documentRepository) Update(ctx context.Context, doc *domain.Document) error {
	if err := r.db.WithContext(ctx).Save(doc).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Document{}, "id = ?", id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany removes all documents whose ID is in ids and reports the row count.
func (r *documentRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Document{}, "id IN ?", ids)
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
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
