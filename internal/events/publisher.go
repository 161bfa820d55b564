package events

import "context"

// Publisher delivers domain events to interested consumers.
type Publisher interface {
	PublishBlogPublished(ctx context.Context, e BlogPublished) error
}
