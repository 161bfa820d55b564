package events

import "context"

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBlogPublished(context.Context, BlogPublished) error {
	return nil
}

var _ Publisher = (*NoopPublisher)(nil)
