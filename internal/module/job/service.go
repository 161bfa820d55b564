package job

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/karirkit/karirkit/internal/domain"
)

var validStatuses = map[string]bool{
	domain.JobStatusApplied:   true,
	domain.JobStatusInterview: true,
	domain.JobStatusOffer:     true,
	domain.JobStatusRejected:  true,
}

// jobService implements domain.JobService.
type jobService struct {
	repo domain.JobRepository
}

// NewJobService creates a new JobService with the given repository.
func NewJobService(repo domain.JobRepository) domain.JobService {
	return &jobService{repo: repo}
}

// CreateJob validates input and persists a new application. An empty status
// defaults to applied; a missing AppliedAt defaults to now.
func (s *jobService) CreateJob(ctx context.Context, input domain.JobInput) (*domain.Job, error) {
	normalized, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		Title:          normalized.Title,
		Company:        normalized.Company,
		Location:       normalized.Location,
		EmploymentType: normalized.EmploymentType,
		Status:         normalized.Status,
		AppliedAt:      normalized.AppliedAt,
	}
	if job.AppliedAt == nil {
		now := time.Now().UTC()
		job.AppliedAt = &now
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob retrieves an application by ID.
func (s *jobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// ListJobs returns a paginated list of applications.
func (s *jobService) ListJobs(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Job], error) {
	return s.repo.List(ctx, q)
}

// UpdateJob loads the existing application, applies changes, and persists them.
func (s *jobService) UpdateJob(ctx context.Context, id string, input domain.JobInput) (*domain.Job, error) {
	normalized, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	job.Title = normalized.Title
	job.Company = normalized.Company
	job.Location = normalized.Location
	job.EmploymentType = normalized.EmploymentType
	job.Status = normalized.Status
	if normalized.AppliedAt != nil {
		job.AppliedAt = normalized.AppliedAt
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteJob removes an application by ID.
func (s *jobService) DeleteJob(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DeleteJobs removes several applications at once and reports the row count.
func (s *jobService) DeleteJobs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewAppError(domain.CodeValidation, "ids must not be empty", nil)
	}
	return s.repo.DeleteMany(ctx, ids)
}

func normalizeInput(input domain.JobInput) (domain.JobInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Company = strings.TrimSpace(input.Company)
	input.Location = strings.TrimSpace(input.Location)
	input.EmploymentType = strings.TrimSpace(input.EmploymentType)
	input.Status = strings.TrimSpace(input.Status)

	if input.Title == "" {
		return input, domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	if utf8.RuneCountInString(input.Title) > 200 {
		return input, domain.NewAppError(domain.CodeValidation, "title must be at most 200 characters", nil)
	}
	if input.Company == "" {
		return input, domain.NewAppError(domain.CodeValidation, "company is required", nil)
	}
	if utf8.RuneCountInString(input.Company) > 200 {
		return input, domain.NewAppError(domain.CodeValidation, "company must be at most 200 characters", nil)
	}
	if input.Status == "" {
		input.Status = domain.JobStatusApplied
	}
	if !validStatuses[input.Status] {
		return input, domain.NewAppError(domain.CodeValidation, "status must be applied, interview, offer, or rejected", nil)
	}
	return input, nil
}
