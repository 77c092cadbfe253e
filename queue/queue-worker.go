package queue

import (
	"context"

	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
)

// consume runs a single Message through the registered Consumers and deletes
// it once one of them has claimed it.
func (q *Queue) consume(ctx context.Context, message Message) error {

	const location = "queue.consume"

	for _, consumeFunc := range q.consumers {

		// Try to process the Message
		result := consumeFunc(ctx, message)

		log.Trace().Str("location", location).Str("messageId", message.MessageID).Str("status", result.Status).Msg("Message consumed")

		switch {

		// If the message was successful, then remove it from the queue
		case result.IsSuccessful():
			return q.delete(ctx, message)

		// The side effect failed, but the message was understood. Report the
		// error and acknowledge the message anyway.
		case result.Status == ResultStatusError:
			derp.Report(result.Error)
			return q.delete(ctx, message)

		// The message could not be processed. Leave it on the queue and stop.
		case result.IsFatal():
			if result.Error == nil {
				return derp.InternalError(location, "Consumer failed without an error", message.MessageID)
			}
			return derp.Wrap(result.Error, location, "Unable to process message", message.MessageID)

		// Unrecognised statuses are the same as "Ignored".
		// If the consumer cannot match this message, then try the next consumer
		default:
			continue
		}
	}

	// No matching consumers found.
	return derp.InternalError(location, "No consumers available to process message", message.MessageID)
}

// delete acknowledges a Message.  It runs even if the context was cancelled
// while the consumer was working, so that a finished message is never redelivered.
func (q *Queue) delete(ctx context.Context, message Message) error {

	const location = "queue.delete"

	if err := q.storage.DeleteMessage(context.WithoutCancel(ctx), message); err != nil {
		return derp.Wrap(err, location, "Unable to delete message", message.MessageID)
	}

	log.Trace().Str("location", location).Str("messageId", message.MessageID).Msg("Message deleted")
	return nil
}
