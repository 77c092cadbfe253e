package queue

import "context"

// Consumer is a function that processes a message from the queue.
type Consumer func(ctx context.Context, message Message) Result
