package ai

import (
	"context"
	"math/rand"
	"time"

	"illustrify/internal/aiclient"
)

const (
	// DefaultMaxAttempts bounds total attempts per call, first try included.
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultJitter      = 250 * time.Millisecond
)

// Retry retries both capabilities up to maxAttempts with exponential
// backoff starting at baseDelay plus a uniform jitter, but only when the
// failure is in the rate-limit class. Permanent and unclassified errors
// propagate immediately. If context is canceled, it stops.
func Retry(maxAttempts int, baseDelay, jitterCeiling time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if jitterCeiling < 0 {
		jitterCeiling = 0
	}
	return func(next aiclient.Client) aiclient.Client {
		return &retrying{next: next, max: maxAttempts, base: baseDelay, jitter: jitterCeiling}
	}
}

type retrying struct {
	next   aiclient.Client
	max    int
	base   time.Duration
	jitter time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) GenerateText(ctx context.Context, prompt string, images ...aiclient.Image) (string, error) {
	var out string
	err := r.attempt(ctx, func() error {
		var e error
		out, e = r.next.GenerateText(ctx, prompt, images...)
		return e
	})
	return out, err
}

func (r *retrying) GenerateImage(ctx context.Context, prompt string, images []aiclient.Image) (*aiclient.Image, error) {
	var out *aiclient.Image
	err := r.attempt(ctx, func() error {
		var e error
		out, e = r.next.GenerateImage(ctx, prompt, images)
		return e
	})
	return out, err
}

func (r *retrying) attempt(ctx context.Context, op func() error) error {
	var last error
	for i := 0; i < r.max; i++ {
		if i > 0 {
			// Delay before attempt i (1-based): base * 2^(i-1) + uniform jitter.
			d := r.base * time.Duration(1<<(i-1))
			if r.jitter > 0 {
				d += time.Duration(rand.Int63n(int64(r.jitter)))
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
			}
		}
		err := op()
		if err == nil {
			return nil
		}
		if !aiclient.IsRetryable(err) {
			return err
		}
		last = err
	}
	return last
}
