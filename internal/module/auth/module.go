package auth

import "github.com/gin-gonic/gin"

// AuthModule implements the app.Module interface for authentication.
type AuthModule struct {
	handler *AuthHandler
}

// NewModule creates a new AuthModule with the given handler.
// Panics if h is nil.
func NewModule(h *AuthHandler) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &AuthModule{handler: h}
}

// RegisterRoutes registers auth API routes on the public group.
func (m *AuthModule) RegisterRoutes(public *gin.RouterGroup, authed *gin.RouterGroup) {
	grp := public.Group("/auth")
	grp.POST("/login", m.handler.Login)
	grp.POST("/register", m.handler.Register)
}
