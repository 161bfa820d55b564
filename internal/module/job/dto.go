package job

import "time"

// CreateJobRequest represents the input for tracking a new job application.
type CreateJobRequest struct {
	Title          string     `json:"title" binding:"required,min=1,max=200"`
	Company        string     `json:"company" binding:"required,min=1,max=200"`
	Location       string     `json:"location" binding:"omitempty,max=200"`
	EmploymentType string     `json:"employment_type" binding:"omitempty,max=50"`
	Status         string     `json:"status" binding:"omitempty,oneof=applied interview offer rejected"`
	AppliedAt      *time.Time `json:"applied_at"`
}

// UpdateJobRequest represents the input for updating a job application.
type UpdateJobRequest struct {
	Title          string     `json:"title" binding:"required,min=1,max=200"`
	Company        string     `json:"company" binding:"required,min=1,max=200"`
	Location       string     `json:"location" binding:"omitempty,max=200"`
	EmploymentType string     `json:"employment_type" binding:"omitempty,max=50"`
	Status         string     `json:"status" binding:"omitempty,oneof=applied interview offer rejected"`
	AppliedAt      *time.Time `json:"applied_at"`
}

// MassDeleteRequest represents the input for deleting several applications at once.
type MassDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}
