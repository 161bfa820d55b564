package job

import "github.com/gin-gonic/gin"

// JobModule implements the app.Module interface for the job resource.
type JobModule struct {
	handler *JobHandler
}

// NewModule creates a new JobModule with the given handler.
// Panics if h is nil.
func NewModule(h *JobHandler) *JobModule {
	if h == nil {
		panic("job.NewModule: handler must not be nil")
	}
	return &JobModule{handler: h}
}

// RegisterRoutes registers job API routes. All job routes require auth.
func (m *JobModule) RegisterRoutes(public *gin.RouterGroup, authed *gin.RouterGroup) {
	authed.POST("/jobs", m.handler.Create)
	authed.GET("/jobs", m.handler.List)
	authed.GET("/jobs/:id", m.handler.Get)
	authed.PUT("/jobs/:id", m.handler.Update)
	authed.DELETE("/jobs/:id", m.handler.Delete)
	authed.DELETE("/jobs/mass-delete", m.handler.MassDelete)
}
