package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	gh "ghsecaudit/internal/github"

	"github.com/google/go-github/v81/github"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts   = 3
	defaultBackoff       = time.Second
	defaultRateLimitWait = time.Minute
	minRateLimitWait     = time.Second
)

// Fetcher issues read requests against the GitHub REST API on behalf of the
// engine. It owns retries, rate-limit suspension and error classification;
// callers only describe the request.
type Fetcher struct {
	client        *gh.Client
	gate          *RateLimitGate
	logger        *zap.Logger
	maxAttempts   int
	backoff       time.Duration
	rateLimitWait time.Duration
	now           func() time.Time
}

type Option func(*Fetcher)

// WithLogger sets the logger used for retry and rate-limit events.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMaxAttempts bounds how many times a transient failure is attempted.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithBackoff sets the linear backoff step between transient retries.
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.backoff = d
		}
	}
}

// WithRateLimitWait sets the suspension used when a rate-limit response
// carries no reset indicator. It also caps the floor applied to resets that
// are already past.
func WithRateLimitWait(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.rateLimitWait = d
		}
	}
}

func NewFetcher(client *gh.Client, gate *RateLimitGate, opts ...Option) *Fetcher {
	if gate == nil {
		gate = NewRateLimitGate()
	}
	f := &Fetcher{
		client:        client,
		gate:          gate,
		logger:        zap.NewNop(),
		maxAttempts:   defaultMaxAttempts,
		backoff:       defaultBackoff,
		rateLimitWait: defaultRateLimitWait,
		now:           time.Now,
	}
	for _, apply := range opts {
		if apply != nil {
			apply(f)
		}
	}
	return f
}

func (f *Fetcher) Gate() *RateLimitGate {
	return f.gate
}

// GitHub returns the underlying go-github client.
func (f *Fetcher) GitHub() *github.Client {
	if f == nil || f.client == nil {
		return nil
	}
	return f.client.Client
}

// Do runs one logical request. call issues the request with the supplied
// context and returns go-github's response and error.
//
// Transient failures are retried up to the attempt bound with linear backoff.
// A rate-limited request suspends the shared gate until the reset and is
// retried once; a second consecutive rate limit is returned as KindRateLimited.
func (f *Fetcher) Do(ctx context.Context, resource string, call func(ctx context.Context) (*github.Response, error)) error {
	if ctx == nil {
		return fmt.Errorf("Do: nil context")
	}
	if f == nil {
		return fmt.Errorf("Do: nil Fetcher")
	}
	if f.client == nil || f.client.Client == nil {
		return fmt.Errorf("Do: nil GitHub client (use NewFetcher)")
	}
	if call == nil {
		return fmt.Errorf("Do: nil call for %s", resource)
	}

	// The gate owns rate limiting; go-github must not short-circuit requests
	// on its own cached limits.
	reqCtx := context.WithValue(ctx, github.BypassRateLimitCheck, true)

	attempts := 0
	transient := 0
	rateLimited := 0
	for {
		if err := f.gate.Wait(ctx); err != nil {
			return &FetchError{Resource: resource, Kind: KindCanceled, Attempts: attempts, Err: err}
		}

		attempts++
		resp, err := call(reqCtx)
		if resp != nil {
			f.gate.Observe(resp.Response)
		}
		if err == nil {
			return nil
		}

		c := classify(err, f.now())
		switch c.kind {
		case KindRateLimited:
			rateLimited++
			if rateLimited >= 2 {
				return &FetchError{Resource: resource, Kind: KindRateLimited, StatusCode: c.status, Attempts: attempts, Err: err}
			}
			now, floor := f.now(), min(minRateLimitWait, f.rateLimitWait)
			resetAt := c.resetAt
			switch {
			case resetAt.IsZero():
				resetAt = now.Add(f.rateLimitWait)
			case resetAt.Before(now.Add(floor)):
				// A reset already past would retry straight into the limit.
				resetAt = now.Add(floor)
			}
			f.gate.Suspend(resetAt)
			f.logger.Warn("rate limited; suspending requests",
				zap.String("resource", resource),
				zap.Time("reset", resetAt),
			)
			continue
		case KindTransient:
			rateLimited = 0
			transient++
			if transient >= f.maxAttempts {
				return &FetchError{Resource: resource, Kind: KindTransient, StatusCode: c.status, Attempts: attempts, Err: err}
			}
			delay := time.Duration(transient) * f.backoff
			f.logger.Debug("transient fetch failure; retrying",
				zap.String("resource", resource),
				zap.Int("attempt", transient),
				zap.Duration("backoff", delay),
				zap.Error(err),
			)
			if err := sleepContext(ctx, delay); err != nil {
				return &FetchError{Resource: resource, Kind: KindCanceled, Attempts: attempts, Err: err}
			}
			continue
		default:
			return &FetchError{Resource: resource, Kind: c.kind, StatusCode: c.status, Attempts: attempts, Err: err}
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// errPaginationStalled is returned when the API hands back the cursor that was
// just requested.
var errPaginationStalled = errors.New("pagination cursor did not advance")
