package user

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/karirkit/karirkit/internal/domain"
)

// userService implements domain.UserService.
type userService struct {
	repo domain.UserRepository
}

// NewUserService creates a new UserService with the given repository.
func NewUserService(repo domain.UserRepository) domain.UserService {
	return &userService{repo: repo}
}

// CreateUser validates input, builds a User, and persists it via the repository.
func (s *userService) CreateUser(ctx context.Context, name, email, role string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}
	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:  name,
		Email: email,
		Role:  role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.User], error) {
	return s.repo.List(ctx, q)
}

// UpdateUser loads the existing user, applies changes, and persists them.
func (s *userService) UpdateUser(ctx context.Context, id, name, email, role string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}
	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email
	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user by ID.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DeleteUsers removes several users at once and reports how many rows were
// deleted. Unknown IDs are skipped rather than treated as errors.
func (s *userService) DeleteUsers(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewAppError(domain.CodeValidation, "ids must not be empty", nil)
	}
	return s.repo.DeleteMany(ctx, ids)
}

// normalizeRole defaults an empty role to member and rejects unknown values.
func normalizeRole(role string) (string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return domain.RoleMember, nil
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return "", domain.NewAppError(domain.CodeValidation, "role must be admin or member", nil)
	}
	return role, nil
}

// validateNameEmail checks that name and email are well-formed.
func validateNameEmail(name, email string) error {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	if utf8.RuneCountInString(trimmedName) < 2 {
		return domain.NewAppError(domain.CodeValidation, "name must be at least 2 characters", nil)
	}
	if utf8.RuneCountInString(trimmedName) > 100 {
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	}

	trimmedEmail := strings.TrimSpace(email)
	if trimmedEmail == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	if _, err := mail.ParseAddress(trimmedEmail); err != nil {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}
	return nil
}
