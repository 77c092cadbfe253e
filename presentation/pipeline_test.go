package presentation_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shankyank/presenter/keynote"
	"github.com/shankyank/presenter/presentation"
	"github.com/shankyank/presenter/queue"
	"github.com/shankyank/presenter/queue_filesystem"
	"github.com/stretchr/testify/require"
)

func TestPipeline_StartsAndDeletes(t *testing.T) {

	directory := t.TempDir()
	storage := queue_filesystem.New(directory, queue_filesystem.WithPollInterval(time.Millisecond))

	var started []string
	starter := presentation.StarterFunc(func(_ context.Context, path string) error {
		started = append(started, path)
		return nil
	})

	q := queue.New(
		queue.WithStorage(storage),
		queue.WithConsumers(presentation.NewConsumer("/decks", starter)),
		queue.WithWaitTime(10*time.Millisecond),
	)

	body, err := presentation.Encode(presentation.Notification{
		Presentation: &presentation.Presentation{Filename: "q3.key"},
	})
	require.Nil(t, err)
	require.Nil(t, q.Publish(context.Background(), body))

	require.Nil(t, q.Poll(context.Background()))
	require.Equal(t, []string{"/decks/q3.key"}, started)

	// The message file is gone
	entries, err := os.ReadDir(directory)
	require.Nil(t, err)
	require.Empty(t, entries)

	// An empty poll does not start anything
	require.Nil(t, q.Poll(context.Background()))
	require.Len(t, started, 1)
}

func TestPipeline_MalformedStopsAndKeepsMessage(t *testing.T) {

	directory := t.TempDir()
	storage := queue_filesystem.New(directory, queue_filesystem.WithPollInterval(time.Millisecond))

	starter := presentation.StarterFunc(func(_ context.Context, _ string) error {
		t.Fatal("starter must not be called")
		return nil
	})

	q := queue.New(
		queue.WithStorage(storage),
		queue.WithConsumers(presentation.NewConsumer("/decks", starter)),
		queue.WithWaitTime(10*time.Millisecond),
	)

	require.Nil(t, storage.SendMessage(context.Background(), `{"NotMessage": "x"}`))
	require.NotNil(t, q.Run(context.Background()))

	entries, err := os.ReadDir(directory)
	require.Nil(t, err)
	require.Len(t, entries, 1)
}

func TestPipeline_ShutdownLeavesUnstartedMessage(t *testing.T) {

	directory := t.TempDir()
	storage := queue_filesystem.New(directory, queue_filesystem.WithPollInterval(time.Millisecond))

	// The runner behaves like exec.CommandContext: it refuses to launch with a done context
	var started []string
	runner := func(ctx context.Context, _ string, args ...string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started = append(started, args[len(args)-1])
		return nil, nil
	}

	starter, err := keynote.New(keynote.WithRunner(runner))
	require.Nil(t, err)

	q := queue.New(
		queue.WithStorage(storage),
		queue.WithConsumers(presentation.NewConsumer("/decks", starter)),
		queue.WithWaitTime(10*time.Millisecond),
	)

	body, err := presentation.Encode(presentation.Notification{
		Presentation: &presentation.Presentation{Filename: "q3.key"},
	})
	require.Nil(t, err)
	require.Nil(t, storage.SendMessage(context.Background(), body))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	require.Nil(t, q.Poll(cancelled))
	require.Empty(t, started)

	entries, err := os.ReadDir(directory)
	require.Nil(t, err)
	require.Len(t, entries, 1)

	// The next run picks the message up again
	require.Nil(t, q.Poll(context.Background()))
	require.Equal(t, []string{"/decks/q3.key"}, started)

	entries, err = os.ReadDir(directory)
	require.Nil(t, err)
	require.Empty(t, entries)
}
