package queue

import (
	"context"
	"time"
)

// Storage is the interface to the message queue service.  Implementations
// wrap a remote queue (SQS), a database collection, or a local directory.
type Storage interface {

	// ReceiveMessages blocks for up to `wait` until at least one message is
	// available, and returns no more than `maxMessages` of them.  An empty
	// slice means that the wait elapsed with nothing to deliver.
	ReceiveMessages(ctx context.Context, maxMessages int, wait time.Duration) ([]Message, error)

	// DeleteMessage acknowledges a message so that it is not delivered again.
	DeleteMessage(ctx context.Context, message Message) error

	// SendMessage publishes a new message body to the queue.
	SendMessage(ctx context.Context, body string) error
}
