package llm

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// retryHTTP runs op with exponential backoff, retrying rate limits (429),
// request timeouts (408) and transient network errors. A long tool-calling
// conversation hits the endpoint often enough to get throttled, and one 429
// must not kill the whole simulation session. Anything else, 5xx included,
// goes straight back to the caller so the agent loop can surface it.
func retryHTTP(ctx context.Context, maxAttempts int, baseDelay time.Duration, op func() (*http.Response, error)) (*http.Response, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		resp, err := op()

		var wait time.Duration
		switch {
		case err != nil:
			lastErr = err
			if attempt == maxAttempts || !isRetriableError(err) {
				return resp, err
			}
			wait = backoffDelay(baseDelay, attempt)
		case resp != nil && isRetriableStatus(resp.StatusCode):
			if attempt == maxAttempts {
				return resp, nil
			}
			// the endpoint may say how long to hold off; otherwise back off
			wait = retryAfter(resp.Header.Get("Retry-After"))
			if wait < 0 {
				wait = backoffDelay(baseDelay, attempt)
			}
			resp.Body.Close()
		default:
			return resp, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func isRetriableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func isRetriableError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// retryAfter parses the delay-seconds form of a Retry-After header, capped
// so a hostile header cannot stall the session. Returns -1 when the header
// is absent or not plain seconds (the HTTP-date form is not worth handling
// for chat endpoints).
func retryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return -1
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return -1
	}
	d := time.Duration(secs) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

// backoffDelay doubles per attempt from baseDelay, capped at one second,
// with +/-20% jitter.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > time.Second {
		d = time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(d / 5)))
	return d - d/10 + jitter
}
