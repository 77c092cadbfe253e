package presentation

import (
	"context"

	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/queue"
)

// NewConsumer returns a queue.Consumer that starts the presentation named in
// each message.  A message that cannot be decoded is a Failure (the queue
// stops).  A presentation that fails to start is an Error, so the message is
// still removed from the queue.  Once a message has been decoded, the start
// call is not cancelled by shutdown: the queue only acknowledges messages
// whose presentation was actually attempted.
func NewConsumer(baseDir string, starter Starter) queue.Consumer {

	return func(ctx context.Context, message queue.Message) queue.Result {

		const location = "presentation.Consumer"

		notification, err := Decode(message.Body)

		if err != nil {
			return queue.Failure(derp.Wrap(err, location, "Unable to decode message", message.MessageID))
		}

		path := Resolve(baseDir, notification.Presentation.Filename)

		log.Info().
			Str("location", location).
			Str("messageId", message.MessageID).
			Str("name", notification.Presentation.Name).
			Str("path", path).
			Msg("Starting presentation")

		if err := starter.Start(context.WithoutCancel(ctx), path); err != nil {
			return queue.Error(derp.Wrap(err, location, "Unable to start presentation", path))
		}

		return queue.Success()
	}
}
