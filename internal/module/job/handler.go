package job

import (
	"github.com/gin-gonic/gin"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/pkg"
)

// JobHandler handles REST API requests for the job resource.
type JobHandler struct {
	svc domain.JobService
}

// NewJobHandler creates a new JobHandler with the given service.
func NewJobHandler(svc domain.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// Create handles POST /api/v1/jobs.
func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	job, err := h.svc.CreateJob(c.Request.Context(), domain.JobInput{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		Status:         req.Status,
		AppliedAt:      req.AppliedAt,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, job)
}

// Get handles GET /api/v1/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, job)
}

// List handles GET /api/v1/jobs.
func (h *JobHandler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c)

	result, err := h.svc.ListJobs(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PUT /api/v1/jobs/:id.
func (h *JobHandler) Update(c *gin.Context) {
	var req UpdateJobRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	job, err := h.svc.UpdateJob(c.Request.Context(), c.Param("id"), domain.JobInput{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		Status:         req.Status,
		AppliedAt:      req.AppliedAt,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, job)
}

// Delete handles DELETE /api/v1/jobs/:id.
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, pkg.MessageResponse{Message: "deleted"})
}

// MassDelete handles DELETE /api/v1/jobs/mass-delete.
func (h *JobHandler) MassDelete(c *gin.Context) {
	var req MassDeleteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	deleted, err := h.svc.DeleteJobs(c.Request.Context(), req.IDs)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, pkg.MassDeleteResponse{Deleted: deleted})
}
