// Package queue_mongo implements the queue Storage interface on a MongoDB collection.
package queue_mongo

import (
	"context"
	"strconv"
	"time"

	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/queue"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is the collection name used when none is configured
const DefaultCollection = "Messages"

// Storage keeps queued messages in a MongoDB collection.  Receiving a message
// locks it for the visibility timeout; a message that is not deleted before the
// lock times out becomes available again.
type Storage struct {
	collection        *mongo.Collection // collection that holds the messages
	lockID            string            // lockID identifies this worker's locks
	visibilityTimeout time.Duration     // how long a received message stays hidden from other workers
	pollInterval      time.Duration     // how often to re-query while waiting for messages
}

// document is the stored form of a single message
type document struct {
	MessageID    primitive.ObjectID `bson:"_id"`
	Body         string             `bson:"body"`
	CreateDate   int64              `bson:"createDate"`       // Unix epoch seconds when this message was sent
	LockID       string             `bson:"lockId,omitempty"` // Worker currently holding this message
	TimeoutDate  int64              `bson:"timeoutDate"`      // Unix epoch seconds when the lock expires
	ReceiveCount int                `bson:"receiveCount"`     // Number of times this message has been delivered
}

// New returns a fully initialized Storage object
func New(database *mongo.Database, options ...Option) Storage {

	result := Storage{
		lockID:            primitive.NewObjectID().Hex(),
		visibilityTimeout: 30 * time.Second,
		pollInterval:      time.Second,
	}

	collectionName := DefaultCollection

	for _, option := range options {
		option(&result, &collectionName)
	}

	result.collection = database.Collection(collectionName)
	return result
}

// Option is a functional option that modifies a mongo Storage
type Option func(storage *Storage, collectionName *string)

// WithCollection sets the name of the collection that holds the messages
func WithCollection(name string) Option {
	return func(_ *Storage, collectionName *string) {
		if name != "" {
			*collectionName = name
		}
	}
}

// WithVisibilityTimeout sets how long a received message stays locked
func WithVisibilityTimeout(timeout time.Duration) Option {
	return func(storage *Storage, _ *string) {
		if timeout > 0 {
			storage.visibilityTimeout = timeout
		}
	}
}

// WithPollInterval sets how often the collection is re-queried during a long-poll
func WithPollInterval(pollInterval time.Duration) Option {
	return func(storage *Storage, _ *string) {
		if pollInterval > 0 {
			storage.pollInterval = pollInterval
		}
	}
}

// Connect opens a client connection to the MongoDB server at `uri`
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {

	const location = "queue_mongo.Connect"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to connect to MongoDB", uri)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, derp.Wrap(err, location, "Unable to ping MongoDB", uri)
	}

	return client, nil
}

// SendMessage inserts a new message into the collection
func (storage Storage) SendMessage(ctx context.Context, body string) error {

	const location = "queue_mongo.SendMessage"

	record := document{
		MessageID:  primitive.NewObjectID(),
		Body:       body,
		CreateDate: time.Now().Unix(),
	}

	if _, err := storage.collection.InsertOne(ctx, record); err != nil {
		return derp.Wrap(err, location, "Unable to insert message")
	}

	log.Trace().
		Str("location", location).
		Str("messageId", record.MessageID.Hex()).
		Msg("Message saved.")

	return nil
}

// ReceiveMessages locks and returns up to maxMessages messages, re-querying
// every pollInterval until something arrives or the wait elapses.
func (storage Storage) ReceiveMessages(ctx context.Context, maxMessages int, wait time.Duration) ([]queue.Message, error) {

	const location = "queue_mongo.ReceiveMessages"

	deadline := time.Now().Add(wait)

	for {

		messages, err := storage.lockMessages(ctx, maxMessages)

		if err != nil {
			return nil, derp.Wrap(err, location, "Unable to lock messages")
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

// DeleteMessage removes a message that is still locked by this worker.  If the
// lock has already expired the message is left for its new owner.
func (storage Storage) DeleteMessage(ctx context.Context, message queue.Message) error {

	const location = "queue_mongo.DeleteMessage"

	messageID, err := primitive.ObjectIDFromHex(message.MessageID)

	if err != nil {
		return derp.Wrap(err, location, "Invalid message ID", message.MessageID)
	}

	result, err := storage.collection.DeleteOne(ctx, bson.M{
		"_id":    messageID,
		"lockId": message.ReceiptHandle,
	})

	if err != nil {
		return derp.Wrap(err, location, "Unable to delete message", message.MessageID)
	}

	if result.DeletedCount == 0 {
		log.Warn().
			Str("location", location).
			Str("messageId", message.MessageID).
			Msg("Message lock expired before it was deleted")
		return nil
	}

	log.Trace().
		Str("location", location).
		Str("messageId", message.MessageID).
		Msg("Message deleted.")

	return nil
}

// lockMessages claims up to maxMessages available messages, oldest first
func (storage Storage) lockMessages(ctx context.Context, maxMessages int) ([]queue.Message, error) {

	const location = "queue_mongo.lockMessages"

	result := make([]queue.Message, 0, maxMessages)

	for len(result) < maxMessages {

		now := time.Now()

		filter := bson.M{
			"timeoutDate": bson.M{"$lt": now.Unix()},
		}

		update := bson.M{
			"$set": bson.M{
				"lockId":      storage.lockID,
				"timeoutDate": now.Add(storage.visibilityTimeout).Unix(),
			},
			"$inc": bson.M{"receiveCount": 1},
		}

		findOptions := options.FindOneAndUpdate().
			SetSort(bson.D{{Key: "createDate", Value: 1}, {Key: "_id", Value: 1}}).
			SetReturnDocument(options.After)

		record := document{}
		err := storage.collection.FindOneAndUpdate(ctx, filter, update, findOptions).Decode(&record)

		if err == mongo.ErrNoDocuments {
			break
		}

		if err != nil {
			return nil, derp.Wrap(err, location, "Unable to lock message")
		}

		result = append(result, record.toMessage())
	}

	return result, nil
}

// toMessage converts a stored document into a queue.Message.  The lockId is
// used as the receipt handle, so only the worker holding the lock can delete it.
func (record document) toMessage() queue.Message {

	result := queue.NewMessage(record.MessageID.Hex(), record.LockID, record.Body)
	result.Attributes["ApproximateReceiveCount"] = strconv.Itoa(record.ReceiveCount)
	result.Attributes["CreateDate"] = strconv.FormatInt(record.CreateDate, 10)

	return result
}
