package document

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/pkg"
)

// unsafeFilenameChars matches characters stripped from download filenames.
var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename reduces a stored file name to a header-safe form.
// Falls back to "download" when nothing survives.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "download"
	}
	return name
}

// DocumentHandler handles REST API requests for the document resource.
type DocumentHandler struct {
	svc domain.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler with the given service.
func NewDocumentHandler(svc domain.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// Create handles POST /api/v1/documents. Expects multipart form data with a
// "file" part and an optional "title" field.
func (h *DocumentHandler) Create(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		pkg.FieldErrors(c, map[string][]string{"file": {"file is required"}})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "failed to read upload", err))
		return
	}
	defer f.Close()

	doc, err := h.svc.CreateDocument(
		c.Request.Context(),
		c.PostForm("title"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		f,
	)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, doc)
}

// Get handles GET /api/v1/documents/:id.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.svc.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, doc)
}

// List handles GET /api/v1/documents.
func (h *DocumentHandler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c)

	result, err := h.svc.ListDocuments(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Download handles GET /api/v1/documents/:id/download. Streams the stored
// bytes with an attachment disposition.
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, rc, err := h.svc.OpenDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", SanitizeFilename(doc.FileName)))
	c.Header("Content-Type", doc.ContentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		// Headers are gone; nothing left to do but record it.
		_ = c.Error(err)
	}
}

// Update handles PUT /api/v1/documents/:id.
func (h *DocumentHandler) Update(c *gin.Context) {
	var req UpdateDocumentRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	doc, err := h.svc.UpdateDocument(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id.
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, pkg.MessageResponse{Message: "deleted"})
}

// MassDelete handles DELETE /api/v1/documents/mass-delete.
func (h *DocumentHandler) MassDelete(c *gin.Context) {
	var req MassDeleteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	deleted, err := h.svc.DeleteDocuments(c.Request.Context(), req.IDs)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Item(c, pkg.MassDeleteResponse{Deleted: deleted})
}
