package document

// UpdateDocumentRequest represents the input for renaming a document.
// The underlying file is immutable; re-upload to replace it.
type UpdateDocumentRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

// MassDeleteRequest represents the input for deleting several documents at once.
type MassDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}
