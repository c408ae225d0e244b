package ai

import (
	"context"
	"log"

	"illustrify/internal/aiclient"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (rate limiting, retries, logging).
type Middleware func(aiclient.Client) aiclient.Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner aiclient.Client, mws ...Middleware) aiclient.Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit throttles both capabilities with a shared token bucket.
// If rps <= 0, the limiter is disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next aiclient.Client) aiclient.Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next aiclient.Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}

func (c *rateLimited) GenerateText(ctx context.Context, prompt string, images ...aiclient.Image) (string, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return c.next.GenerateText(ctx, prompt, images...)
}

func (c *rateLimited) GenerateImage(ctx context.Context, prompt string, images []aiclient.Image) (*aiclient.Image, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateImage(ctx, prompt, images)
}

// -------- Logging --------

// WithLogging logs request sizes and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next aiclient.Client) aiclient.Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next aiclient.Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateText(ctx context.Context, prompt string, images ...aiclient.Image) (string, error) {
	l.log.Printf("ai text request (%s): %d bytes, %d images", l.next.Name(), len(prompt), len(images))
	out, err := l.next.GenerateText(ctx, prompt, images...)
	if err != nil {
		l.log.Printf("ai text error (%s): %v", l.next.Name(), err)
	}
	return out, err
}

func (l *logging) GenerateImage(ctx context.Context, prompt string, images []aiclient.Image) (*aiclient.Image, error) {
	l.log.Printf("ai image request (%s): %d bytes, %d images", l.next.Name(), len(prompt), len(images))
	img, err := l.next.GenerateImage(ctx, prompt, images)
	if err != nil {
		l.log.Printf("ai image error (%s): %v", l.next.Name(), err)
	}
	return img, err
}
