// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/pkg/types"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

// flaky answers with the given statuses in order, then 200 with body.
func flaky(calls *int32, body string, statuses ...int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(calls, 1))
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			return
		}
		w.Write([]byte(body))
	}))
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"immediate success", nil, 5, http.StatusOK, 1},
		{"retries 429 then succeeds", []int{429, 429}, 5, http.StatusOK, 3},
		{"retries 5xx then succeeds", []int{503, 500}, 5, http.StatusOK, 3},
		{"exhausts retries", []int{429, 429, 429, 429, 429}, 3, http.StatusTooManyRequests, 4},
		{"default max retries", []int{502, 502, 502, 502, 502, 502, 502}, 0, http.StatusBadGateway, 6},
		{"client error passes through", []int{404}, 5, http.StatusNotFound, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts := flaky(&calls, "ok", tt.statuses...)
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			var rec diag.Recorder
			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries, &rec)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			assert.Equal(t, int(tt.wantCalls)-1, rec.Count(diag.Warning))
		})
	}
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch(t *testing.T) {
	var calls int32
	var gotUA atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Write([]byte("proton\nHiggs boson\n"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "nested", "vocab.txt")
	cfg := types.FetchConfig{Timeout: 5 * time.Second, UserAgent: "test-agent", MaxRetries: 2}

	n, err := Fetch(context.Background(), ts.URL, dest, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(19), n)
	assert.Equal(t, "test-agent", gotUA.Load())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "proton\nHiggs boson\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFetch_ErrorKeepsPreviousFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "HEP.rdf")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o644))

	_, err := Fetch(context.Background(), ts.URL, dest, types.FetchConfig{}, nil)
	assert.ErrorContains(t, err, "HTTP 404")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}
