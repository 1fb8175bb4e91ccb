package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v81/github"
	"github.com/gregjones/httpcache"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com/"

type Client struct {
	Client *github.Client
	HTTP   *http.Client
}

// AppCredentials authenticate as a GitHub App installation instead of a token.
type AppCredentials struct {
	AppID          int64
	InstallationID int64
	PrivateKey     []byte
}

type options struct {
	baseURL   string
	verbose   bool
	logger    *zap.Logger
	httpCache bool
	app       *AppCredentials
	transport http.RoundTripper
}

type Option func(*options)

// WithVerbose logs one line per request and response through logger.
func WithVerbose(enabled bool, logger *zap.Logger) Option {
	return func(o *options) {
		o.verbose = enabled
		o.logger = logger
	}
}

// WithBaseURL targets an alternate deployment of the API (for example GHES at
// https://ghe.example.com/api/v3/).
func WithBaseURL(raw string) Option {
	return func(o *options) {
		o.baseURL = raw
	}
}

// WithHTTPCache serves repeated GETs from an in-memory ETag cache that lives
// only as long as the client.
func WithHTTPCache(enabled bool) Option {
	return func(o *options) {
		o.httpCache = enabled
	}
}

// WithAppCredentials authenticates as a GitHub App installation. When set, the
// token passed to NewClient is ignored.
func WithAppCredentials(app *AppCredentials) Option {
	return func(o *options) {
		o.app = app
	}
}

// WithTransport replaces http.DefaultTransport as the innermost transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// loggingRoundTripper wraps an underlying transport and emits one entry per
// request and response (including latency) when verbose logging is enabled.
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debug("github api request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		t.logger.Debug("github api error", zap.Duration("latency", dur), zap.Error(err))
	} else {
		t.logger.Debug("github api response",
			zap.Int("status", resp.StatusCode),
			zap.String("remaining", resp.Header.Get("X-RateLimit-Remaining")),
			zap.Duration("latency", dur),
		)
	}
	return resp, err
}

func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if o.verbose && o.logger == nil {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("github client: build verbose logger: %w", err)
		}
		o.logger = logger
	}

	transport := o.transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, logger: o.logger}
	}
	if o.httpCache {
		cache := httpcache.NewTransport(httpcache.NewMemoryCache())
		cache.Transport = transport
		transport = cache
	}

	switch {
	case o.app != nil:
		itr, err := ghinstallation.New(transport, o.app.AppID, o.app.InstallationID, o.app.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("github client: app installation transport: %w", err)
		}
		if o.baseURL != "" {
			base, err := normalizeBaseURL(o.baseURL)
			if err != nil {
				return nil, err
			}
			itr.BaseURL = strings.TrimSuffix(base.String(), "/")
		}
		transport = itr
	case token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}
	// Always provide an http.Client so verbose logging works even without a token.
	tc := &http.Client{Transport: transport}

	client := github.NewClient(tc)
	if o.baseURL != "" {
		base, err := normalizeBaseURL(o.baseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = base
		client.UploadURL = base
	}

	return &Client{
		Client: client,
		HTTP:   tc,
	}, nil
}

// normalizeBaseURL parses raw and guarantees the trailing slash go-github
// requires on BaseURL.
func normalizeBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("github client: invalid base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("github client: base url %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("github client: base url %q has no host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// ReadPrivateKey loads a PEM-encoded GitHub App private key from path.
func ReadPrivateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read app private key: %w", err)
	}
	if len(strings.TrimSpace(string(key))) == 0 {
		return nil, fmt.Errorf("read app private key: %s is empty", path)
	}
	return key, nil
}
