package queue

import "time"

// Option is a functional option that modifies a Queue object
type Option func(*Queue)

// WithConsumers adds one or more consumers to process messages from the Queue
func WithConsumers(consumers ...Consumer) Option {
	return func(q *Queue) {
		q.consumers = append(q.consumers, consumers...)
	}
}

// WithStorage sets the storage provider for the Queue
func WithStorage(storage Storage) Option {
	return func(q *Queue) {
		q.storage = storage
	}
}

// WithMaxMessages sets the maximum number of messages to request in a single receive
func WithMaxMessages(maxMessages int) Option {
	return func(q *Queue) {
		if maxMessages > 0 {
			q.maxMessages = maxMessages
		}
	}
}

// WithWaitTime sets how long a single receive may block waiting for messages
func WithWaitTime(waitTime time.Duration) Option {
	return func(q *Queue) {
		if waitTime >= 0 {
			q.waitTime = waitTime
		}
	}
}

// WithWaitSeconds is a shortcut for WithWaitTime, measured in whole seconds
func WithWaitSeconds(waitSeconds int) Option {
	return WithWaitTime(time.Duration(waitSeconds) * time.Second)
}
