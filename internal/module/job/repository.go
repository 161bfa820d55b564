package job

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"title", "company", "status", "applied_at", "created_at", "updated_at"}
	allowedFilterFields = []string{"status", "employment_type", "company"}
	searchColumns       = []string{"title", "company", "location"}
)

const defaultOrder = "applied_at desc"

// jobRepository implements domain.JobRepository using GORM.
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository backed by the given GORM database.
func NewJobRepository(db *gorm.DB) domain.JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &job, nil
}

func (r *jobRepository) List(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Job], error) {
	base := r.db.WithContext(ctx).Model(&domain.Job{}).
		Scopes(
			pkg.Search(q, searchColumns),
			pkg.Filter(q, allowedFilterFields),
		)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var jobs []domain.Job
	if err := base.Scopes(
		pkg.Paginate(q),
		pkg.Sort(q, allowedSortFields, defaultOrder),
	).Find(&jobs).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPage(jobs, total, q), nil
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Job{}, "id = ?", id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany removes all applications whose ID is in ids and reports the row count.
func (r *jobRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Job{}, "id IN ?", ids)
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
