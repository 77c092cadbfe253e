package queue_mongo

import (
	"context"
	"testing"
	"time"

	"github.com/shankyank/presenter/queue"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testDatabase returns a database handle.  mongo.Connect does not dial the
// server, so this works without a running MongoDB.
func testDatabase(t *testing.T) *mongo.Database {

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	require.Nil(t, err)

	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	return client.Database("TestPresenter")
}

func TestNew_Defaults(t *testing.T) {

	storage := New(testDatabase(t))

	require.Equal(t, DefaultCollection, storage.collection.Name())
	require.Equal(t, 30*time.Second, storage.visibilityTimeout)
	require.Equal(t, time.Second, storage.pollInterval)
	require.NotEmpty(t, storage.lockID)
}

func TestNew_Options(t *testing.T) {

	storage := New(testDatabase(t),
		WithCollection("Presentations"),
		WithVisibilityTimeout(time.Minute),
		WithPollInterval(10*time.Millisecond),
		WithCollection(""),
		WithVisibilityTimeout(0),
	)

	require.Equal(t, "Presentations", storage.collection.Name())
	require.Equal(t, time.Minute, storage.visibilityTimeout)
	require.Equal(t, 10*time.Millisecond, storage.pollInterval)
}

func TestDocument_ToMessage(t *testing.T) {

	record := document{
		MessageID:    primitive.NewObjectID(),
		Body:         `{"Message":"{}"}`,
		CreateDate:   1700000000,
		LockID:       "lock-1",
		ReceiveCount: 2,
	}

	message := record.toMessage()

	require.Equal(t, record.MessageID.Hex(), message.MessageID)
	require.Equal(t, "lock-1", message.ReceiptHandle)
	require.Equal(t, `{"Message":"{}"}`, message.Body)
	require.Equal(t, "2", message.Attributes["ApproximateReceiveCount"])
	require.Equal(t, "1700000000", message.Attributes["CreateDate"])
}

func TestDeleteMessage_InvalidID(t *testing.T) {

	storage := New(testDatabase(t))
	err := storage.DeleteMessage(context.Background(), queueMessage("not-an-object-id"))
	require.NotNil(t, err)
}

func queueMessage(messageID string) queue.Message {
	return queue.NewMessage(messageID, "lock", "")
}
