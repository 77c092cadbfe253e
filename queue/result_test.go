package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {

	require.True(t, Success().IsSuccessful())
	require.False(t, Success().IsFatal())

	require.False(t, Error(errors.New("oops")).IsSuccessful())
	require.False(t, Error(errors.New("oops")).IsFatal())

	require.True(t, Failure(errors.New("oops")).IsFatal())
	require.False(t, Ignored().IsSuccessful())
	require.False(t, Ignored().IsFatal())
}
