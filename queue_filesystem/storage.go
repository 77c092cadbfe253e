package queue_filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/queue"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Storage implements the queue Storage interface using a filesystem directory.
// Each message is a single `.json` file holding the raw message body.  Messages
// are delivered in file name order, which (because file names are ObjectIDs)
// is the order they were sent in.  A delivered file stays on disk until it is
// deleted, so a crash before acknowledgement leaves the message in place.
// This storage engine is not safe for concurrent access by multiple workers.
type Storage struct {
	directory    string        // The filesystem directory to read/write
	pollInterval time.Duration // How often to re-read the directory while waiting for messages
}

// New returns a fully initialized Storage object
func New(directory string, options ...Option) Storage {

	result := Storage{
		directory:    directory,
		pollInterval: time.Second,
	}

	for _, option := range options {
		option(&result)
	}

	return result
}

// Option is a functional option that modifies a filesystem Storage
type Option func(*Storage)

// WithPollInterval sets how often the directory is re-read during a long-poll
func WithPollInterval(pollInterval time.Duration) Option {
	return func(storage *Storage) {
		if pollInterval > 0 {
			storage.pollInterval = pollInterval
		}
	}
}

// SendMessage writes a new message file into the directory
func (storage Storage) SendMessage(_ context.Context, body string) error {

	const location = "queue_filesystem.SendMessage"

	messageID := primitive.NewObjectID().Hex()
	filename := storage.filename(messageID)

	log.Trace().
		Str("location", location).
		Str("messageId", messageID).
		Msg("Saving Message...")

	// Write to a temporary name first so that readers never see a partial file
	tempname := filename + ".tmp"

	if err := os.WriteFile(tempname, []byte(body), 0644); err != nil {
		return derp.Wrap(err, location, "Unable to write message file", tempname)
	}

	if err := os.Rename(tempname, filename); err != nil {
		return derp.Wrap(err, location, "Unable to rename message file", tempname, filename)
	}

	log.Trace().
		Str("location", location).
		Str("messageId", messageID).
		Msg("Message saved.")

	// Silence is golden
	return nil
}

// DeleteMessage removes a message file from the directory.  The receipt
// handle is the message's file name.
func (storage Storage) DeleteMessage(_ context.Context, message queue.Message) error {

	const location = "queue_filesystem.DeleteMessage"

	log.Trace().
		Str("location", location).
		Str("messageId", message.MessageID).
		Msg("Deleting message from queue...")

	receipt := message.ReceiptHandle

	// RULE: The receipt must name a message file inside this directory
	if receipt == "" || filepath.Base(receipt) != receipt || !strings.HasSuffix(receipt, ".json") {
		return derp.InternalError(location, "Invalid receipt handle", message.MessageID, receipt)
	}

	filename := filepath.Join(storage.directory, receipt)
	if err := os.Remove(filename); err != nil {
		return derp.Wrap(err, location, "Unable to delete message file", filename)
	}

	// Silence is acquiescence
	log.Trace().
		Str("location", location).
		Str("messageId", message.MessageID).
		Msg("Message deleted.")

	return nil
}

// ReceiveMessages returns up to maxMessages messages from the directory,
// re-reading it every pollInterval until something arrives or the wait elapses.
func (storage Storage) ReceiveMessages(ctx context.Context, maxMessages int, wait time.Duration) ([]queue.Message, error) {

	const location = "queue_filesystem.ReceiveMessages"

	deadline := time.Now().Add(wait)

	for {

		messages, err := storage.readMessages(maxMessages)

		if err != nil {
			return nil, derp.Wrap(err, location, "Unable to read messages", storage.directory)
		}

		if len(messages) > 0 {
			return messages, nil
		}

		remaining := time.Until(deadline)

		if remaining <= 0 {
			return messages, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(min(remaining, storage.pollInterval)):
		}
	}
}

// readMessages reads up to maxMessages message files from the directory
func (storage Storage) readMessages(maxMessages int) ([]queue.Message, error) {

	const location = "queue_filesystem.readMessages"

	// Read all files in the message directory
	files, err := os.ReadDir(storage.directory)

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to read message directory", storage.directory)
	}

	names := make([]string, 0, len(files))

	for _, entry := range files {

		// If this is not a JSON file, then skip it
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	result := make([]queue.Message, 0, min(maxMessages, len(names)))

	for _, name := range names {

		if len(result) >= maxMessages {
			break
		}

		filename := filepath.Join(storage.directory, name)
		body, err := os.ReadFile(filename)

		if err != nil {
			return nil, derp.Wrap(err, location, "Unable to read message file", filename)
		}

		messageID := strings.TrimSuffix(name, ".json")
		result = append(result, queue.NewMessage(messageID, name, string(body)))
	}

	return result, nil
}

// filename returns the full path of the file for a messageID
func (storage Storage) filename(messageID string) string {
	return filepath.Join(storage.directory, messageID+".json")
}
