// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/pkg/types"
)

// ErrNoLocation is returned when no writable cache directory could be found.
var ErrNoLocation = errors.New("no writable cache directory")

// Resolver finds the cache directory once and remembers the answer. The
// configured shared directory is preferred; the OS temp directory is the
// fallback.
type Resolver struct {
	cfg     types.CacheConfig
	sink    diag.Sink
	tempDir func() string

	once sync.Once
	dir  string
	err  error
}

// NewResolver returns a Resolver for cfg.
func NewResolver(cfg types.CacheConfig, sink diag.Sink) *Resolver {
	if cfg.Subdir == "" {
		cfg.Subdir = types.DefaultCacheSubdir
	}
	if sink == nil {
		sink = diag.Discard
	}
	return &Resolver{cfg: cfg, sink: sink, tempDir: os.TempDir}
}

// Dir returns the cache directory, creating it on first use.
func (r *Resolver) Dir() (string, error) {
	r.once.Do(func() {
		r.dir, r.err = r.resolve()
	})
	return r.dir, r.err
}

// FileFor returns the cache file path for a taxonomy source. The name is
// derived from the source's base name.
func (r *Resolver) FileFor(source string) (string, error) {
	dir, err := r.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(source)+".db"), nil
}

func (r *Resolver) resolve() (string, error) {
	if r.cfg.Dir != "" {
		if dir, ok := r.prepare(r.cfg.Dir); ok {
			return dir, nil
		}
	}
	if dir, ok := r.prepare(r.tempDir()); ok {
		return dir, nil
	}
	return "", ErrNoLocation
}

// prepare creates the cache subdirectory under root and checks that it can
// be written to.
func (r *Resolver) prepare(root string) (string, bool) {
	dir := filepath.Join(root, r.cfg.Subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.sink.WriteMessage(fmt.Sprintf("Impossible to write in the temp directory %s.", root), diag.Warning)
		return "", false
	}
	if !writable(dir) {
		r.sink.WriteMessage(fmt.Sprintf("Cache directory %s exists but is not accessible. Check your permissions.", dir), diag.Warning)
		return "", false
	}
	return dir, true
}

// writable probes dir by creating and removing a file.
func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
