package queue

import (
	"context"
	"sync"
	"time"

	"github.com/benpate/derp"
	"github.com/benpate/rosetta/channel"
	"github.com/rs/zerolog/log"
)

// Queue long-polls a Storage provider and hands each message to its Consumers,
// one message at a time.
type Queue struct {
	storage     Storage       // Storage is the interface to the message queue service
	consumers   []Consumer    // consumers contains all registered Consumer objects
	maxMessages int           // maxMessages is the number of messages to request in one receive. Default is 1
	waitTime    time.Duration // waitTime is the long-poll duration for one receive. Default is 20 seconds
	done        chan struct{} // done channel is closed to stop the queue
	stopOnce    sync.Once     // stopOnce guards against closing the done channel twice
}

// New returns a fully initialized Queue object, with all options applied.
// Nothing is received until Run (or Poll) is called.
func New(options ...Option) *Queue {

	// Create the new Queue object
	result := Queue{
		maxMessages: 1,
		waitTime:    20 * time.Second,
		done:        make(chan struct{}),
	}

	// Apply options
	for _, option := range options {
		option(&result)
	}

	return &result
}

// Run polls the Storage provider until the context is cancelled or Stop is
// called, in which case it returns nil.  Any error from Poll stops the loop
// and is returned to the caller.
func (q *Queue) Run(ctx context.Context) error {

	const location = "queue.Queue.Run"

	if q.storage == nil {
		return derp.InternalError(location, "Must have a storage provider in order to receive messages")
	}

	// Stop() must also interrupt a receive that is currently blocking
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-q.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Debug().
		Str("location", location).
		Int("maxMessages", q.maxMessages).
		Dur("waitTime", q.waitTime).
		Msg("Polling storage for new messages")

	for {

		if q.isStopped(ctx) {
			log.Debug().Str("location", location).Msg("Queue stopped")
			return nil
		}

		if err := q.Poll(ctx); err != nil {
			return derp.Wrap(err, location, "Queue stopped with an error")
		}
	}
}

// Poll performs a single receive-consume-delete pass.  A receive that ends
// because the context was cancelled is not an error.
func (q *Queue) Poll(ctx context.Context) error {

	const location = "queue.Queue.Poll"

	if q.storage == nil {
		return derp.InternalError(location, "Must have a storage provider in order to receive messages")
	}

	messages, err := q.storage.ReceiveMessages(ctx, q.maxMessages, q.waitTime)

	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return derp.Wrap(err, location, "Unable to receive messages")
	}

	if len(messages) == 0 {
		log.Trace().Str("location", location).Msg("No messages received")
		return nil
	}

	for index, message := range messages {

		// Once shutdown begins, leave the rest of the batch on the queue
		if ctx.Err() != nil {
			log.Debug().
				Str("location", location).
				Int("remaining", len(messages)-index).
				Msg("Shutting down. Leaving received messages on the queue")
			return nil
		}

		if err := q.consume(ctx, message); err != nil {
			return derp.Wrap(err, location, "Unable to consume message", message.MessageID)
		}
	}

	return nil
}

// Publish adds a new message body to the Queue
func (q *Queue) Publish(ctx context.Context, body string) error {

	const location = "queue.Queue.Publish"

	if q.storage == nil {
		return derp.InternalError(location, "Must have a storage provider in order to publish messages")
	}

	if err := q.storage.SendMessage(ctx, body); err != nil {
		return derp.Wrap(err, location, "Unable to send message")
	}

	return nil
}

// Stop signals Run to return after the current message is finished.
// It is safe to call more than once.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.done)
	})
}

// isStopped returns TRUE if the queue has been stopped or the context is done
func (q *Queue) isStopped(ctx context.Context) bool {
	return channel.Closed(q.done) || ctx.Err() != nil
}
