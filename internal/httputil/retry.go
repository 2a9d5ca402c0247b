// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil downloads remote taxonomies over HTTP.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/taxonomy-engine/internal/diag"
)

// RetryBaseDelay is the first backoff delay. It doubles on each attempt.
// Tests override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// retryable reports whether a response status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// DoWithRetry executes req and retries on 429 and 5xx responses with
// exponential backoff starting at RetryBaseDelay. When maxRetries is 0 the
// default (5) is used.
//
// The body of each retried response is drained and closed. A cancelled
// context during a wait returns ctx.Err(). Once retries are exhausted the
// last response is returned for the caller to inspect.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, sink diag.Sink) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if sink == nil {
		sink = diag.Discard
	}

	backoff := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		sink.WriteMessage(fmt.Sprintf("%s returned %d, retrying in %v (attempt %d/%d)",
			req.URL, resp.StatusCode, backoff, attempt+1, maxRetries), diag.Warning)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
