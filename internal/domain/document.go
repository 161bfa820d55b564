package domain

import (
	"context"
	"io"
	"time"
)

// Document represents an uploaded file (CV, certificate, portfolio asset).
// The backing bytes live in blob storage under StorageKey; the row carries
// only metadata.
type Document struct {
	BaseModel
	Title       string    `gorm:"size:200;not null" json:"title"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `gorm:"size:64;not null" json:"-"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DocumentRepository defines the data access interface for documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context, q ListQuery) (*Page[Document], error)
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// DocumentService defines the business logic interface for documents.
type DocumentService interface {
	CreateDocument(ctx context.Context, title, fileName, contentType string, size int64, body io.Reader) (*Document, error)
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context, q ListQuery) (*Page[Document], error)
	UpdateDocument(ctx context.Context, id, title string) (*Document, error)
	DeleteDocument(ctx context.Context, id string) error
	DeleteDocuments(ctx context.Context, ids []string) (int64, error)
	OpenDocument(ctx context.Context, id string) (*Document, io.ReadCloser, error)
}
