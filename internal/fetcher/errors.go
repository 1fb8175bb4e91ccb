package fetcher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v81/github"
)

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindRateLimited  ErrorKind = "rate_limited"
	KindTransient    ErrorKind = "transient"
	KindDecode       ErrorKind = "decode"
	KindCanceled     ErrorKind = "canceled"
	KindOther        ErrorKind = "other"
)

// FetchError is returned by every Fetcher operation that fails. Resource is the
// logical API resource (for example "repos/acme/api/branches/main/protection").
type FetchError struct {
	Resource   string
	Kind       ErrorKind
	StatusCode int
	Attempts   int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.Resource, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d %s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewDecodeError reports a payload that did not match the expected shape.
func NewDecodeError(resource string, err error) *FetchError {
	return &FetchError{Resource: resource, Kind: KindDecode, Err: err}
}

// KindOf returns the kind of the first FetchError in err's chain, or KindOther.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindOther
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsFatal reports whether err must abort the whole run rather than a single
// repository.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindUnauthorized, KindRateLimited, KindCanceled:
		return true
	default:
		return false
	}
}

// StatusCode returns the HTTP status recorded on err, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

type classification struct {
	kind    ErrorKind
	status  int
	resetAt time.Time
}

// classify maps a go-github error onto an ErrorKind. For rate limits it also
// extracts the reset time (zero if the response carried none).
func classify(err error, now time.Time) classification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return classification{kind: KindCanceled}
	}
	if errors.Is(err, github.ErrBranchNotProtected) {
		return classification{kind: KindNotFound, status: http.StatusNotFound}
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		c := classification{kind: KindRateLimited, resetAt: rle.Rate.Reset.Time}
		if rle.Response != nil {
			c.status = rle.Response.StatusCode
		}
		return c
	}

	var are *github.AbuseRateLimitError
	if errors.As(err, &are) {
		c := classification{kind: KindRateLimited}
		if are.Response != nil {
			c.status = are.Response.StatusCode
		}
		if are.RetryAfter != nil {
			c.resetAt = now.Add(*are.RetryAfter)
		} else if are.Response != nil {
			c.resetAt, _ = resetFromHeaders(are.Response.Header, now)
		}
		return c
	}

	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		status := er.Response.StatusCode
		c := classification{status: status}
		switch {
		case status == http.StatusUnauthorized:
			c.kind = KindUnauthorized
		case status == http.StatusTooManyRequests:
			c.kind = KindRateLimited
			c.resetAt, _ = resetFromHeaders(er.Response.Header, now)
		case status == http.StatusForbidden:
			h := er.Response.Header
			if h.Get("Retry-After") != "" || h.Get("X-RateLimit-Remaining") == "0" {
				c.kind = KindRateLimited
				c.resetAt, _ = resetFromHeaders(h, now)
			} else {
				c.kind = KindForbidden
			}
		case status == http.StatusNotFound:
			c.kind = KindNotFound
		case status >= 500:
			c.kind = KindTransient
		default:
			c.kind = KindOther
		}
		return c
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var b64Err base64.CorruptInputError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &b64Err) {
		return classification{kind: KindDecode}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return classification{kind: KindTransient}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return classification{kind: KindTransient}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return classification{kind: KindTransient}
	}

	return classification{kind: KindOther}
}
