package main

import (
	"context"

	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/config"
	"github.com/shankyank/presenter/presentation"
	"github.com/shankyank/presenter/queue"
	"github.com/shankyank/presenter/topic_sns"
)

// newTopicClient creates the SNS client used by `send`.  Tests replace it.
var newTopicClient = func(ctx context.Context, region string) (topic_sns.API, error) {
	return topic_sns.NewClient(ctx, region)
}

// sendNotification publishes a notification to the configured SNS topic, or,
// without a topic, wraps it in an envelope and writes it to the queue directly.
func sendNotification(ctx context.Context, cfg *config.Config, notification presentation.Notification) error {

	const location = "main.sendNotification"

	if cfg.Publish.TopicARN != "" {
		return publishToTopic(ctx, cfg, notification)
	}

	body, err := presentation.Encode(notification)

	if err != nil {
		return derp.Wrap(err, location, "Unable to encode notification")
	}

	storage, closeStorage, err := openStorage(ctx, cfg)

	if err != nil {
		return derp.Wrap(err, location, "Unable to open queue storage", cfg.Queue.Backend)
	}

	defer closeStorage()

	if err := queue.New(queue.WithStorage(storage)).Publish(ctx, body); err != nil {
		return derp.Wrap(err, location, "Unable to publish notification")
	}

	return nil
}

// publishToTopic sends the inner notification to SNS, which adds the envelope
// on its way to the subscribed queue.
func publishToTopic(ctx context.Context, cfg *config.Config, notification presentation.Notification) error {

	const location = "main.publishToTopic"

	message, err := presentation.MarshalNotification(notification)

	if err != nil {
		return derp.Wrap(err, location, "Unable to marshal notification")
	}

	region := cfg.Publish.Region

	if region == "" {
		region = cfg.Queue.Region
	}

	client, err := newTopicClient(ctx, region)

	if err != nil {
		return derp.Wrap(err, location, "Unable to create SNS client")
	}

	publisher, err := topic_sns.New(client, cfg.Publish.TopicARN)

	if err != nil {
		return derp.Wrap(err, location, "Unable to create publisher")
	}

	messageID, err := publisher.Publish(ctx, message)

	if err != nil {
		return derp.Wrap(err, location, "Unable to publish notification", cfg.Publish.TopicARN)
	}

	log.Debug().Str("location", location).Str("messageId", messageID).Msg("Published notification")
	return nil
}
