package blog

import "github.com/gin-gonic/gin"

// BlogModule implements the app.Module interface for the blog resource.
type BlogModule struct {
	handler *BlogHandler
}

// NewModule creates a new BlogModule with the given handler.
// Panics if h is nil.
func NewModule(h *BlogHandler) *BlogModule {
	if h == nil {
		panic("blog.NewModule: handler must not be nil")
	}
	return &BlogModule{handler: h}
}

// RegisterRoutes registers blog API routes. The published listing is public;
// everything else requires auth.
func (m *BlogModule) RegisterRoutes(public *gin.RouterGroup, authed *gin.RouterGroup) {
	public.GET("/blogs/published", m.handler.ListPublished)

	authed.POST("/blogs", m.handler.Create)
	authed.GET("/blogs", m.handler.List)
	authed.GET("/blogs/:id", m.handler.Get)
	authed.PUT("/blogs/:id", m.handler.Update)
	authed.DELETE("/blogs/:id", m.handler.Delete)
	authed.DELETE("/blogs/mass-delete", m.handler.MassDelete)
}
