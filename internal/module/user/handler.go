package user

import (
	"github.com/gin-gonic/gin"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/pkg"
)

// UserHandler handles REST API requests for the user resource.
type UserHandler struct {
	svc domain.UserService
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req.Name, req.Email, req.Role)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, user)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, user)
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c)

	result, err := h.svc.ListUsers(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), req.Name, req.Email, req.Role)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, user)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, pkg.MessageResponse{Message: "deleted"})
}

// MassDelete handles DELETE /api/v1/users/mass-delete.
func (h *UserHandler) MassDelete(c *gin.Context) {
	var req MassDeleteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	deleted, err := h.svc.DeleteUsers(c.Request.Context(), req.IDs)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, pkg.MassDeleteResponse{Deleted: deleted})
}
