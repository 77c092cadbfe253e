package presentation

import (
	"context"
	"errors"
	"testing"

	"github.com/shankyank/presenter/queue"
	"github.com/stretchr/testify/require"
)

// recordingStarter remembers every path it was asked to start
type recordingStarter struct {
	paths []string
	err   error
}

func (starter *recordingStarter) Start(_ context.Context, path string) error {
	starter.paths = append(starter.paths, path)
	return starter.err
}

func TestConsumer_Success(t *testing.T) {

	starter := &recordingStarter{}
	consumer := NewConsumer("/decks", starter)

	body := `{"Message": "{\"presentation\": {\"filename\": \"q3.key\"}}"}`
	result := consumer(context.Background(), queue.NewMessage("1", "r1", body))

	require.True(t, result.IsSuccessful())
	require.Equal(t, []string{"/decks/q3.key"}, starter.paths)
}

func TestConsumer_StartError(t *testing.T) {

	starter := &recordingStarter{err: errors.New("Keynote is not installed")}
	consumer := NewConsumer("/decks", starter)

	body := `{"Message": "{\"presentation\": {\"filename\": \"q3.key\"}}"}`
	result := consumer(context.Background(), queue.NewMessage("1", "r1", body))

	require.Equal(t, queue.ResultStatusError, result.Status)
	require.NotNil(t, result.Error)
	require.Len(t, starter.paths, 1)
}

func TestConsumer_Malformed(t *testing.T) {

	starter := &recordingStarter{}
	consumer := NewConsumer("/decks", starter)

	result := consumer(context.Background(), queue.NewMessage("1", "r1", `{"presentation": {"filename": "q3.key"}}`))

	require.True(t, result.IsFatal())
	require.Empty(t, starter.paths)
}

func TestStarterFunc(t *testing.T) {

	var received string
	starter := StarterFunc(func(_ context.Context, path string) error {
		received = path
		return nil
	})

	require.Nil(t, starter.Start(context.Background(), "/decks/q3.key"))
	require.Equal(t, "/decks/q3.key", received)
}

func TestConsumer_StartIgnoresShutdown(t *testing.T) {

	var startErr error
	starter := StarterFunc(func(ctx context.Context, _ string) error {
		startErr = ctx.Err()
		return nil
	})

	consumer := NewConsumer("/decks", starter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	body := `{"Message": "{\"presentation\": {\"filename\": \"q3.key\"}}"}`
	result := consumer(ctx, queue.NewMessage("1", "r1", body))

	require.True(t, result.IsSuccessful())
	require.Nil(t, startErr)
}
