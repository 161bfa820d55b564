package blog

// CreateBlogRequest represents the input for creating a blog post.
// An empty slug is derived from the title.
type CreateBlogRequest struct {
	Title  string `json:"title" binding:"required,min=1,max=200"`
	Slug   string `json:"slug" binding:"omitempty,max=200"`
	Body   string `json:"body"`
	Status string `json:"status" binding:"omitempty,oneof=draft published"`
}

// UpdateBlogRequest represents the input for updating a blog post.
type UpdateBlogRequest struct {
	Title  string `json:"title" binding:"required,min=1,max=200"`
	Slug   string `json:"slug" binding:"omitempty,max=200"`
	Body   string `json:"body"`
	Status string `json:"status" binding:"omitempty,oneof=draft published"`
}

// MassDeleteRequest represents the input for deleting several posts at once.
type MassDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}
