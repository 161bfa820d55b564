package user

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
	allowedSortFields   = []string{"name", "email", "role", "created_at", "updated_at"}
	allowedFilterFields = []string{"role"}
	searchColumns       = []string{"name", "email"}
)

const defaultOrder = "created_at desc"

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository backed by the given GORM database.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a user by its primary key.
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// List returns a paginated, sorted, searched, and filtered list of users.
func (r *userRepository) List(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.User], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.User{}).
		Scopes(
			pkg.Search(q, searchColumns),
			pkg.Filter(q, allowedFilterFields),
		)

	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var users []domain.User
	if err := base.Scopes(
		pkg.Paginate(q),
		pkg.Sort(q, allowedSortFields, defaultOrder),
	).Find(&users).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPage(users, total, q), nil
}

// Update saves changes to an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes a user by ID.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany removes all users whose ID is in ids and reports the row count.
// Runs in a transaction so a failure leaves all rows in place.
func (r *userRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		result := tx.Delete(&domain.User{}, "id IN ?", ids)
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
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. This is needed because not all GORM dialectors translate
// driver-level errors to gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
