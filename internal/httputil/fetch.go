// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/pkg/types"
)

const defaultUserAgent = "taxonomy-engine/0.1"

// Fetch downloads url into dest and returns the number of bytes written.
// The file is written next to dest and renamed into place, so a failed
// download leaves any previous copy untouched.
func Fetch(ctx context.Context, url, dest string, cfg types.FetchConfig, sink diag.Sink) (int64, error) {
	if sink == nil {
		sink = diag.Discard
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/rdf+xml, text/turtle, application/n-triples, text/plain;q=0.5, */*;q=0.1")

	client := &http.Client{Timeout: cfg.Timeout}
	resp, err := DoWithRetry(ctx, client, req, cfg.MaxRetries, sink)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, fmt.Errorf("replacing %s: %w", dest, err)
	}

	sink.WriteMessage(fmt.Sprintf("Downloaded %s to %s (%d bytes).", url, dest, n), diag.Info)
	return n, nil
}
