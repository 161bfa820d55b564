package domain

import "context"

// User roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents an account on the platform.
type User struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role         string `gorm:"size:20;not null;default:member" json:"role"`
	PasswordHash string `gorm:"size:255" json:"-"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q ListQuery) (*Page[User], error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// UserService defines the business logic interface for users.
type UserService interface {
	CreateUser(ctx context.Context, name, email, role string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, q ListQuery) (*Page[User], error)
	UpdateUser(ctx context.Context, id, name, email, role string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	DeleteUsers(ctx context.Context, ids []string) (int64, error)
}
