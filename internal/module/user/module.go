package user

import "github.com/gin-gonic/gin"

// UserModule implements the app.Module interface for the user resource.
type UserModule struct {
	handler *UserHandler
}

// NewModule creates a new UserModule with the given handler.
// Panics if h is nil.
func NewModule(h *UserHandler) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	return &UserModule{handler: h}
}

// RegisterRoutes registers user API routes. All user routes require auth.
func (m *UserModule) RegisterRoutes(public *gin.RouterGroup, authed *gin.RouterGroup) {
	authed.POST("/users", m.handler.Create)
	authed.GET("/users", m.handler.List)
	authed.GET("/users/:id", m.handler.Get)
	authed.PUT("/users/:id", m.handler.Update)
	authed.DELETE("/users/:id", m.handler.Delete)
	authed.DELETE("/users/mass-delete", m.handler.MassDelete)
}
