package blog

import (
	"github.com/gin-gonic/gin"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/pkg"
)

// BlogHandler handles REST API requests for the blog resource.
type BlogHandler struct {
	svc domain.BlogService
}

// NewBlogHandler creates a new BlogHandler with the given service.
func NewBlogHandler(svc domain.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// Create handles POST /api/v1/blogs.
func (h *BlogHandler) Create(c *gin.Context) {
	var req CreateBlogRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	blog, err := h.svc.CreateBlog(c.Request.Context(), req.Title, req.Slug, req.Body, req.Status)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, blog)
}

// Get handles GET /api/v1/blogs/:id.
func (h *BlogHandler) Get(c *gin.Context) {
	blog, err := h.svc.GetBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, blog)
}

// List handles GET /api/v1/blogs. Drafts are included.
func (h *BlogHandler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c)

	result, err := h.svc.ListBlogs(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// ListPublished handles GET /api/v1/blogs/published. Public, no auth.
func (h *BlogHandler) ListPublished(c *gin.Context) {
	q := pkg.ParseListQuery(c)

	result, err := h.svc.ListPublishedBlogs(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PUT /api/v1/blogs/:id.
func (h *BlogHandler) Update(c *gin.Context) {
	var req UpdateBlogRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	blog, err := h.svc.UpdateBlog(c.Request.Context(), c.Param("id"), req.Title, req.Slug, req.Body, req.Status)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, blog)
}

// Delete handles DELETE /api/v1/blogs/:id.
func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteBlog(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, pkg.MessageResponse{Message: "deleted"})
}

// MassDelete handles DELETE /api/v1/blogs/mass-delete.
func (h *BlogHandler) MassDelete(c *gin.Context) {
	var req MassDeleteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	deleted, err := h.svc.DeleteBlogs(c.Request.Context(), req.IDs)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, pkg.MassDeleteResponse{Deleted: deleted})
}
