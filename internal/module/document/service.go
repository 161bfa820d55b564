package document

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/storage"
)

// MaxUploadBytes caps a single document upload.
const MaxUploadBytes = 20 << 20

// documentService implements domain.DocumentService.
type documentService struct {
	repo  domain.DocumentRepository
	store storage.Storage
}

// NewDocumentService creates a new DocumentService with the given repository
// and blob store.
func NewDocumentService(repo domain.DocumentRepository, store storage.Storage) domain.DocumentService {
	return &documentService{repo: repo, store: store}
}

// CreateDocument streams the upload into blob storage and records its
// metadata. An empty title defaults to the file name without extension.
func (s *documentService) CreateDocument(ctx context.Context, title, fileName, contentType string, size int64, body io.Reader) (*domain.Document, error) {
	title = strings.TrimSpace(title)
	fileName = filepath.Base(strings.TrimSpace(fileName))

	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		return nil, domain.NewAppError(domain.CodeValidation, "file name is required", nil)
	}
	if title == "" {
		title = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	if utf8.RuneCountInString(title) > 200 {
		return nil, domain.NewAppError(domain.CodeValidation, "title must be at most 200 characters", nil)
	}
	if size <= 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "file must not be empty", nil)
	}
	if size > MaxUploadBytes {
		return nil, domain.NewAppError(domain.CodeValidation, "file exceeds the 20 MB limit", nil)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.store.Upload(ctx, key, io.LimitReader(body, MaxUploadBytes), contentType); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to store file", err)
	}

	doc := &domain.Document{
		Title:       title,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		StorageKey:  key,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		// Metadata write failed: remove the orphaned blob.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			slog.ErrorContext(ctx, "failed to remove orphaned blob", "key", key, "error", delErr)
		}
		return nil, err
	}

	return doc, nil
}

// GetDocument retrieves document metadata by ID.
func (s *documentService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return s.repo.GetByID(ctx, id)
}

// ListDocuments returns a paginated list of documents.
func (s *documentService) ListDocuments(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Document], error) {
	return s.repo.List(ctx, q)
}

// UpdateDocument renames a document. The stored file is untouched.
func (s *documentService) UpdateDocument(ctx context.Context, id, title string) (*domain.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	if utf8.RuneCountInString(title) > 200 {
		return nil, domain.NewAppError(domain.CodeValidation, "title must be at most 200 characters", nil)
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc.Title = title
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document row and its backing blob.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Blob cleanup is best-effort; the row is already gone.
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		slog.ErrorContext(ctx, "failed to delete blob", "key", doc.StorageKey, "error", err)
	}
	return nil
}

// DeleteDocuments removes several documents at once, blobs included, and
// reports how many rows were deleted.
func (s *documentService) DeleteDocuments(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewAppError(domain.CodeValidation, "ids must not be empty", nil)
	}

	// Collect keys before the rows disappear. Unknown IDs are skipped.
	var keys []string
	for _, id := range ids {
		doc, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return 0, err
		}
		keys = append(keys, doc.StorageKey)
	}

	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.ErrorContext(ctx, "failed to delete blob", "key", key, "error", err)
		}
	}
	return deleted, nil
}

// OpenDocument returns document metadata together with a reader over its
// bytes. The caller must close the reader.
func (s *documentService) OpenDocument(ctx context.Context, id string) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Download(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, domain.NewAppError(domain.CodeNotFound, "stored file is missing", err)
		}
		return nil, nil, domain.NewAppError(domain.CodeInternal, "failed to open file", err)
	}
	return doc, rc, nil
}
