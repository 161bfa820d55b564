package events

import "time"

const TypeBlogPublished = "blog.published"

type BlogPublishedPayload struct {
	BlogID string `json:"blog_id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
}

type BlogPublished struct {
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   BlogPublishedPayload `json:"payload"`
}

func NewBlogPublished(blogID, slug, title string) BlogPublished {
	return BlogPublished{
		Type:      TypeBlogPublished,
		Timestamp: time.Now().UTC(),
		Payload: BlogPublishedPayload{
			BlogID: blogID,
			Slug:   slug,
			Title:  title,
		},
	}
}
