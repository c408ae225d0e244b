package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"illustrify/internal/aiclient"
)

func TestRetryRecoversFromRateLimit(t *testing.T) {
	fake := aiclient.NewFakeClient()
	fake.QueueText(
		aiclient.TextReply{Err: aiclient.NewRateLimitError(errors.New("throttled"))},
		aiclient.TextReply{Err: aiclient.NewRateLimitError(errors.New("throttled"))},
		aiclient.TextReply{Text: "ok"},
	)
	cli := Wrap(fake, Retry(5, time.Millisecond, 0))

	out, err := cli.GenerateText(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Len(t, fake.TextCalls, 3)
}

func TestRetryStopsOnPermanent(t *testing.T) {
	fake := aiclient.NewFakeClient()
	perm := aiclient.NewPermanentError(errors.New("bad request"))
	fake.QueueImage(aiclient.ImageReply{Err: perm})
	cli := Wrap(fake, Retry(5, time.Millisecond, 0))

	img, err := cli.GenerateImage(context.Background(), "p", nil)
	require.Nil(t, img)
	require.ErrorIs(t, err, perm)
	require.Len(t, fake.ImageCalls, 1)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	fake := aiclient.NewFakeClient()
	for i := 0; i < 3; i++ {
		fake.QueueText(aiclient.TextReply{Err: aiclient.NewRateLimitError(errors.New("throttled"))})
	}
	cli := Wrap(fake, Retry(3, time.Millisecond, 0))

	_, err := cli.GenerateText(context.Background(), "p")
	require.Error(t, err)
	require.True(t, aiclient.IsRetryable(err))
	require.Len(t, fake.TextCalls, 3)
}

func TestRetryHonorsContextCancel(t *testing.T) {
	fake := aiclient.NewFakeClient()
	fake.QueueText(aiclient.TextReply{Err: aiclient.NewRateLimitError(errors.New("throttled"))})
	cli := Wrap(fake, Retry(5, time.Hour, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cli.GenerateText(ctx, "p")
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not observe cancellation")
	}
	require.Len(t, fake.TextCalls, 1)
}

func TestWrapOrder(t *testing.T) {
	fake := aiclient.NewFakeClient()
	fake.QueueText(
		aiclient.TextReply{Err: aiclient.NewRateLimitError(errors.New("throttled"))},
		aiclient.TextReply{Text: "ok"},
	)
	// Retry sits outside the rate limiter, so each attempt re-acquires.
	cli := Wrap(fake,
		Retry(2, time.Millisecond, 0),
		RateLimit(0, 0),
	)
	out, err := cli.GenerateText(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, "FakeAI", cli.Name())
	require.NoError(t, cli.Close())
}
