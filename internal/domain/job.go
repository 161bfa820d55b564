package domain

import (
	"context"
	"time"
)

// Job application statuses.
const (
	JobStatusApplied   = "applied"
	JobStatusInterview = "interview"
	JobStatusOffer     = "offer"
	JobStatusRejected  = "rejected"
)

// Job represents a tracked job application.
type Job struct {
	BaseModel
	Title          string     `gorm:"size:200;not null" json:"title"`
	Company        string     `gorm:"size:200;not null" json:"company"`
	Location       string     `gorm:"size:200" json:"location"`
	EmploymentType string     `gorm:"size:50" json:"employment_type"`
	Status         string     `gorm:"size:20;not null;default:applied" json:"status"`
	AppliedAt      *time.Time `json:"applied_at"`
}

// JobRepository defines the data access interface for job applications.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, q ListQuery) (*Page[Job], error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// JobService defines the business logic interface for job applications.
type JobService interface {
	CreateJob(ctx context.Context, input JobInput) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, q ListQuery) (*Page[Job], error)
	UpdateJob(ctx context.Context, id string, input JobInput) (*Job, error)
	DeleteJob(ctx context.Context, id string) error
	DeleteJobs(ctx context.Context, ids []string) (int64, error)
}

// JobInput carries the caller-supplied fields of a job application.
type JobInput struct {
	Title          string
	Company        string
	Location       string
	EmploymentType string
	Status         string
	AppliedAt      *time.Time
}
