package queue_filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shankyank/presenter/queue"
	"github.com/stretchr/testify/require"
)

func TestSendAndReceive(t *testing.T) {

	directory := t.TempDir()
	storage := New(directory, WithPollInterval(time.Millisecond))
	ctx := context.Background()

	require.Nil(t, storage.SendMessage(ctx, `{"Message":"first"}`))
	require.Nil(t, storage.SendMessage(ctx, `{"Message":"second"}`))

	messages, err := storage.ReceiveMessages(ctx, 1, 0)
	require.Nil(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, `{"Message":"first"}`, messages[0].Body)
	require.NotEmpty(t, messages[0].MessageID)

	// Messages stay on disk until they are deleted
	again, err := storage.ReceiveMessages(ctx, 1, 0)
	require.Nil(t, err)
	require.Equal(t, messages[0].MessageID, again[0].MessageID)

	require.Nil(t, storage.DeleteMessage(ctx, messages[0]))

	messages, err = storage.ReceiveMessages(ctx, 10, 0)
	require.Nil(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, `{"Message":"second"}`, messages[0].Body)
}

func TestReceive_SkipsOtherFiles(t *testing.T) {

	directory := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(directory, "notes.txt"), []byte("x"), 0644))
	require.Nil(t, os.WriteFile(filepath.Join(directory, "partial.json.tmp"), []byte("x"), 0644))
	require.Nil(t, os.Mkdir(filepath.Join(directory, "sub.json"), 0755))

	storage := New(directory)
	messages, err := storage.ReceiveMessages(context.Background(), 1, 0)

	require.Nil(t, err)
	require.Empty(t, messages)
}

func TestReceive_WaitsForMessage(t *testing.T) {

	directory := t.TempDir()
	storage := New(directory, WithPollInterval(5*time.Millisecond))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = storage.SendMessage(context.Background(), "late")
	}()

	messages, err := storage.ReceiveMessages(context.Background(), 1, 5*time.Second)
	require.Nil(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "late", messages[0].Body)
}

func TestReceive_Cancelled(t *testing.T) {

	storage := New(t.TempDir(), WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := storage.ReceiveMessages(ctx, 1, time.Hour)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReceive_MissingDirectory(t *testing.T) {

	storage := New(filepath.Join(t.TempDir(), "missing"))
	_, err := storage.ReceiveMessages(context.Background(), 1, 0)
	require.NotNil(t, err)
}

func TestDelete_Missing(t *testing.T) {

	storage := New(t.TempDir())
	messages, err := storage.ReceiveMessages(context.Background(), 1, 0)
	require.Nil(t, err)
	require.Empty(t, messages)

	require.NotNil(t, storage.DeleteMessage(context.Background(), newMessage("nope")))
}

func newMessage(messageID string) queue.Message {
	return queue.NewMessage(messageID, messageID+".json", "")
}

func TestDelete_UsesReceiptHandle(t *testing.T) {

	directory := t.TempDir()
	storage := New(directory)
	ctx := context.Background()

	require.Nil(t, storage.SendMessage(ctx, "hello"))

	messages, err := storage.ReceiveMessages(ctx, 1, 0)
	require.Nil(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, messages[0].MessageID+".json", messages[0].ReceiptHandle)

	// The receipt handle decides which file is removed, not the message ID
	message := queue.NewMessage("some-other-id", messages[0].ReceiptHandle, "")
	require.Nil(t, storage.DeleteMessage(ctx, message))

	entries, err := os.ReadDir(directory)
	require.Nil(t, err)
	require.Empty(t, entries)
}

func TestDelete_InvalidReceiptHandle(t *testing.T) {

	directory := t.TempDir()
	storage := New(directory)
	ctx := context.Background()

	require.Nil(t, storage.SendMessage(ctx, "hello"))
	messages, err := storage.ReceiveMessages(ctx, 1, 0)
	require.Nil(t, err)

	require.NotNil(t, storage.DeleteMessage(ctx, queue.NewMessage(messages[0].MessageID, "", "")))
	require.NotNil(t, storage.DeleteMessage(ctx, queue.NewMessage(messages[0].MessageID, "../"+messages[0].ReceiptHandle, "")))
	require.NotNil(t, storage.DeleteMessage(ctx, queue.NewMessage(messages[0].MessageID, messages[0].MessageID, "")))

	entries, err := os.ReadDir(directory)
	require.Nil(t, err)
	require.Len(t, entries, 1)
}
