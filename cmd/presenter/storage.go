package main

import (
	"context"
	"os"
	"time"

	"github.com/benpate/derp"
	"github.com/shankyank/presenter/config"
	"github.com/shankyank/presenter/queue"
	"github.com/shankyank/presenter/queue_filesystem"
	"github.com/shankyank/presenter/queue_mongo"
	"github.com/shankyank/presenter/queue_sqs"
)

// openStorage builds the queue Storage for the configured backend.  The
// returned function releases any connections it holds.
func openStorage(ctx context.Context, cfg *config.Config) (queue.Storage, func(), error) {

	const location = "main.openStorage"

	noop := func() {}

	switch cfg.Queue.Backend {

	case config.BackendSQS:

		client, err := queue_sqs.NewClient(ctx, cfg.Queue.Region)

		if err != nil {
			return nil, noop, derp.Wrap(err, location, "Unable to create SQS client")
		}

		queueURL, err := queue_sqs.ResolveQueueURL(ctx, client, cfg.Queue.Name)

		if err != nil {
			return nil, noop, derp.Wrap(err, location, "Unable to resolve queue", cfg.Queue.Name)
		}

		return queue_sqs.New(client, queueURL), noop, nil

	case config.BackendFilesystem:

		if err := os.MkdirAll(cfg.Queue.Directory, 0755); err != nil {
			return nil, noop, derp.Wrap(err, location, "Unable to create queue directory", cfg.Queue.Directory)
		}

		return queue_filesystem.New(cfg.Queue.Directory), noop, nil

	case config.BackendMongo:

		client, err := queue_mongo.Connect(ctx, cfg.Queue.MongoURI)

		if err != nil {
			return nil, noop, derp.Wrap(err, location, "Unable to connect to MongoDB")
		}

		storage := queue_mongo.New(
			client.Database(cfg.Queue.MongoDatabase),
			queue_mongo.WithCollection(cfg.Queue.MongoCollection),
			queue_mongo.WithVisibilityTimeout(time.Duration(cfg.Queue.VisibilityTimeoutSeconds)*time.Second),
		)

		closer := func() {
			derp.Report(client.Disconnect(context.WithoutCancel(ctx)))
		}

		return storage, closer, nil
	}

	return nil, noop, derp.InternalError(location, "Unknown queue backend", cfg.Queue.Backend)
}
