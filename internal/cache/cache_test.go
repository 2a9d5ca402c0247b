// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/internal/keyword"
	"github.com/pdiddy/taxonomy-engine/internal/pattern"
	"github.com/pdiddy/taxonomy-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	r := NewResolver(types.CacheConfig{Dir: dir}, diag.Discard)
	return NewStore(r, diag.Discard), dir
}

func sampleSet(t *testing.T) *keyword.Set {
	t.Helper()
	c := pattern.Default()
	set := keyword.NewSet()

	proton, err := keyword.NewSingleFromWord("proton", c)
	require.NoError(t, err)
	set.Single["proton"] = proton

	hidden, err := c.CompileHidden("/q-?bar/")
	require.NoError(t, err)
	quark, err := c.CompileLabel("quark")
	require.NoError(t, err)
	set.Single["quark"] = &keyword.SingleKeyword{
		ID:      "quark",
		Concept: "quark",
		Patterns: []keyword.LabeledPattern{
			{Pattern: quark, Label: "quark"},
			{Pattern: hidden, Label: "/q-?bar/", Hidden: true},
		},
		Standalone: false,
		ExternalID: "quark (SPIRES)",
	}

	plasma, err := c.CompileLabel("quark-gluon plasma")
	require.NoError(t, err)
	set.Composite["quark*gluon"] = &keyword.CompositeKeyword{
		ID:         "quark*gluon",
		Concept:    "quark: gluon",
		Components: []string{"quark", "gluon"},
		Patterns:   []keyword.LabeledPattern{{Pattern: plasma, Label: "quark-gluon plasma"}},
	}
	return set
}

type flatSingle struct {
	ID, Concept, ExternalID string
	Standalone              bool
	Sources                 []string
	Hidden                  []bool
}

type flatComposite struct {
	ID, Concept, ExternalID string
	Components              []string
	Sources                 []string
}

func flatten(set *keyword.Set) (map[string]flatSingle, map[string]flatComposite) {
	singles := make(map[string]flatSingle)
	for id, kw := range set.Single {
		fs := flatSingle{ID: kw.ID, Concept: kw.Concept, ExternalID: kw.ExternalID, Standalone: kw.Standalone, Sources: kw.Sources()}
		for _, p := range kw.Patterns {
			fs.Hidden = append(fs.Hidden, p.Hidden)
		}
		singles[id] = fs
	}
	composites := make(map[string]flatComposite)
	for id, kw := range set.Composite {
		composites[id] = flatComposite{ID: kw.ID, Concept: kw.Concept, ExternalID: kw.ExternalID, Components: kw.Components, Sources: kw.Sources()}
	}
	return singles, composites
}

// --- store tests ---

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	source := filepath.Join(t.TempDir(), "HEP.rdf")

	want := sampleSet(t)
	require.NoError(t, store.Save(ctx, source, want))

	got, err := store.Load(ctx, source)
	require.NoError(t, err)

	wantSingles, wantComposites := flatten(want)
	gotSingles, gotComposites := flatten(got)
	if diff := cmp.Diff(wantSingles, gotSingles); diff != "" {
		t.Errorf("single keywords mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantComposites, gotComposites); diff != "" {
		t.Errorf("composite keywords mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, got.Single["quark"].Matches("a q-bar meson"))
}

func TestSaveLoad_SourceNamesWithURICharacters(t *testing.T) {
	for _, name := range []string{"HEP#v2.txt", "what?.rdf", "100%.ttl"} {
		t.Run(name, func(t *testing.T) {
			store, _ := testStore(t)
			ctx := context.Background()
			source := filepath.Join(t.TempDir(), name)

			require.NoError(t, store.Save(ctx, source, sampleSet(t)))
			path, err := store.Path(source)
			require.NoError(t, err)
			assert.FileExists(t, path)

			got, err := store.Load(ctx, source)
			require.NoError(t, err)
			assert.Equal(t, []string{"proton", "quark"}, got.SingleIDs())

			_, err = store.CreatedAt(ctx, source)
			assert.NoError(t, err)
			assert.True(t, store.Readable(source))
		})
	}
}

func TestFileURI(t *testing.T) {
	uri := fileURI("/var/cache/HEP#v2?.txt.db", "ro")
	assert.Equal(t, "file:///var/cache/HEP%23v2%3F.txt.db?mode=ro", uri)
}

func TestSave_ReplacesPreviousFile(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	source := "vocab.txt"

	first := sampleSet(t)
	require.NoError(t, store.Save(ctx, source, first))

	second := keyword.NewSet()
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, store.Save(ctx, source, second))

	got, err := store.Load(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.True(t, second.CreatedAt.Equal(got.CreatedAt))
}

func TestLoad_Miss(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Load(context.Background(), "nothing.rdf")
	assert.True(t, errors.Is(err, ErrMiss))
	assert.False(t, store.Readable("nothing.rdf"))
}

func TestLoad_CorruptFileIsRemoved(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"garbage bytes", []byte("this is not a sqlite database at all, just some text padding it out")},
		{"empty file", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec diag.Recorder
			r := NewResolver(types.CacheConfig{Dir: t.TempDir()}, diag.Discard)
			store := NewStore(r, &rec)

			path, err := store.Path("HEP.rdf")
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, tt.content, 0o644))
			assert.True(t, store.Readable("HEP.rdf"))

			_, err = store.Load(context.Background(), "HEP.rdf")
			assert.True(t, errors.Is(err, ErrCorrupt))
			assert.NoFileExists(t, path)
			assert.Equal(t, 1, rec.Count(diag.Warning))
		})
	}
}

func TestCreatedAtAndStat(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	set := sampleSet(t)
	require.NoError(t, store.Save(ctx, "HEP.rdf", set))

	created, err := store.CreatedAt(ctx, "HEP.rdf")
	require.NoError(t, err)
	assert.True(t, set.CreatedAt.Equal(created))

	info, err := store.Stat(ctx, "HEP.rdf")
	require.NoError(t, err)
	assert.Equal(t, "HEP.rdf", info.Source)
	assert.Equal(t, 2, info.Singles)
	assert.Equal(t, 1, info.Composites)
	assert.Equal(t, "HEP.rdf.db", filepath.Base(info.Path))

	_, err = store.Stat(ctx, "other.rdf")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestClear(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "HEP.rdf", sampleSet(t)))
	require.True(t, store.Readable("HEP.rdf"))

	require.NoError(t, store.Clear("HEP.rdf"))
	assert.False(t, store.Readable("HEP.rdf"))
	assert.NoError(t, store.Clear("HEP.rdf"))
}

func TestCacheFileNamedAfterSourceBase(t *testing.T) {
	store, dir := testStore(t)
	path, err := store.Path("/some/where/HEP.rdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, types.DefaultCacheSubdir, "HEP.rdf.db"), path)
}

// --- resolver tests ---

func TestResolver_PrefersConfiguredDir(t *testing.T) {
	shared := t.TempDir()
	r := NewResolver(types.CacheConfig{Dir: shared, Subdir: "kw"}, diag.Discard)
	r.tempDir = func() string { t.Fatal("temp dir should not be consulted"); return "" }

	dir, err := r.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(shared, "kw"), dir)
	assert.DirExists(t, dir)
}

func TestResolver_FallsBackToTempDir(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))
	tmp := t.TempDir()

	var rec diag.Recorder
	r := NewResolver(types.CacheConfig{Dir: notADir}, &rec)
	r.tempDir = func() string { return tmp }

	dir, err := r.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, types.DefaultCacheSubdir), dir)
	assert.Equal(t, 1, rec.Count(diag.Warning))
}

func TestResolver_NoLocation(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	r := NewResolver(types.CacheConfig{}, diag.Discard)
	r.tempDir = func() string { return notADir }

	_, err := r.Dir()
	assert.True(t, errors.Is(err, ErrNoLocation))

	store := NewStore(r, diag.Discard)
	err = store.Save(context.Background(), "HEP.rdf", keyword.NewSet())
	assert.True(t, errors.Is(err, ErrNoLocation))
}

func TestResolver_ResolvesOnce(t *testing.T) {
	calls := 0
	tmp := t.TempDir()
	r := NewResolver(types.CacheConfig{}, diag.Discard)
	r.tempDir = func() string { calls++; return tmp }

	for i := 0; i < 3; i++ {
		_, err := r.Dir()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}
