package config

import (
	"strings"

	"github.com/benpate/derp"
	"github.com/rs/zerolog"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {

	const location = "config.Validate"

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return derp.Wrap(err, location, "log_level is not a valid level", c.LogLevel)
	}

	if c.BaseDir == "" {
		return derp.InternalError(location, "base_dir is required")
	}

	if err := c.validateQueue(); err != nil {
		return err
	}

	if c.Automation.Application == "" {
		return derp.InternalError(location, "automation.application is required")
	}

	if c.Publish.TopicARN != "" && !strings.HasPrefix(c.Publish.TopicARN, "arn:") {
		return derp.InternalError(location, "publish.topic_arn must be an ARN", c.Publish.TopicARN)
	}

	for index, item := range c.Presentations {
		if item.Name == "" || item.Filename == "" {
			return derp.InternalError(location, "presentations entries need a name and a filename", index, item.Name, item.Filename)
		}
	}

	return nil
}

func (c *Config) validateQueue() error {

	const location = "config.validateQueue"

	// Zero would turn every backend's long-poll into a busy loop
	if c.Queue.WaitSeconds < 1 {
		return derp.InternalError(location, "queue.wait_seconds must be at least 1", c.Queue.WaitSeconds)
	}

	if c.Queue.MaxMessages < 1 {
		return derp.InternalError(location, "queue.max_messages must be at least 1", c.Queue.MaxMessages)
	}

	switch c.Queue.Backend {

	case BackendSQS:
		if c.Queue.Name == "" {
			return derp.InternalError(location, "queue.name is required for the sqs backend")
		}
		if c.Queue.WaitSeconds > 20 {
			return derp.InternalError(location, "queue.wait_seconds must be 20 or less for the sqs backend", c.Queue.WaitSeconds)
		}
		if c.Queue.MaxMessages > 10 {
			return derp.InternalError(location, "queue.max_messages must be 10 or less for the sqs backend", c.Queue.MaxMessages)
		}

	case BackendFilesystem:
		if c.Queue.Directory == "" {
			return derp.InternalError(location, "queue.directory is required for the filesystem backend")
		}

	case BackendMongo:
		if c.Queue.MongoURI == "" || c.Queue.MongoDatabase == "" {
			return derp.InternalError(location, "queue.mongo_uri and queue.mongo_database are required for the mongo backend")
		}
		if c.Queue.VisibilityTimeoutSeconds < 1 {
			return derp.InternalError(location, "queue.visibility_timeout_seconds must be at least 1", c.Queue.VisibilityTimeoutSeconds)
		}

	default:
		return derp.InternalError(location, "queue.backend must be one of sqs, filesystem, mongo", c.Queue.Backend)
	}

	return nil
}
