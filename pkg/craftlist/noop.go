package craftlist

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink.
// Useful for production when you don't need event handling or for testing.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// CategoryCreated does nothing and returns nil
func (n *NoopEventSink) CategoryCreated(ctx context.Context, category *Category) error {
	return nil
}

// CategoryDeleted does nothing and returns nil
func (n *NoopEventSink) CategoryDeleted(ctx context.Context, categoryID uuid.UUID) error {
	return nil
}

// PostCreated does nothing and returns nil
func (n *NoopEventSink) PostCreated(ctx context.Context, post *Post) error {
	return nil
}

// PostDeleted does nothing and returns nil
func (n *NoopEventSink) PostDeleted(ctx context.Context, postID uuid.UUID) error {
	return nil
}

// TicketClosed does nothing and returns nil
func (n *NoopEventSink) TicketClosed(ctx context.Context, ticket *Ticket) error {
	return nil
}
