package document

import "github.com/gin-gonic/gin"

// DocumentModule implements the app.Module interface for the document resource.
type DocumentModule struct {
	handler *DocumentHandler
}

// NewModule creates a new DocumentModule with the given handler.
// Panics if h is nil.
func NewModule(h *DocumentHandler) *DocumentModule {
	if h == nil {
		panic("document.NewModule: handler must not be nil")
	}
	return &DocumentModule{handler: h}
}

// RegisterRoutes registers document API routes. All document routes require auth.
func (m *DocumentModule) RegisterRoutes(public *gin.RouterGroup, authed *gin.RouterGroup) {
	authed.POST("/documents", m.handler.Create)
	authed.GET("/documents", m.handler.List)
	authed.GET("/documents/:id", m.handler.Get)
	authed.GET("/documents/:id/download", m.handler.Download)
	authed.PUT("/documents/:id", m.handler.Update)
	authed.DELETE("/documents/:id", m.handler.Delete)
	authed.DELETE("/documents/mass-delete", m.handler.MassDelete)
}
