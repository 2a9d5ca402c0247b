// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy loads a taxonomy source into compiled keywords. It decides
// between the cache and a fresh compilation, and falls back to reading the
// source as a flat vocabulary when it is not an RDF graph.
package taxonomy

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/taxonomy-engine/internal/cache"
	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/internal/keyword"
	"github.com/pdiddy/taxonomy-engine/internal/pattern"
	"github.com/pdiddy/taxonomy-engine/internal/rdf"
)

// ErrNoSource is returned when neither the source nor a cached copy of it
// can be read.
var ErrNoSource = errors.New("neither the taxonomy nor a cached version of it could be found")

// Options controls cache use for a single Load call.
type Options struct {
	// Rebuild recompiles the source and rewrites the cache.
	Rebuild bool
	// NoCache recompiles the source and leaves the cache untouched.
	NoCache bool
}

// Loader turns taxonomy sources into keyword sets.
type Loader struct {
	compiler *pattern.Compiler
	store    *cache.Store
	sink     diag.Sink
}

// NewLoader returns a Loader. A nil store disables caching.
func NewLoader(compiler *pattern.Compiler, store *cache.Store, sink diag.Sink) *Loader {
	if sink == nil {
		sink = diag.Discard
	}
	return &Loader{compiler: compiler, store: store, sink: sink}
}

// Load returns the keywords of source, from the cache when it is newer than
// the source and compiled otherwise.
func (l *Loader) Load(ctx context.Context, source string, opts Options) (*keyword.Set, error) {
	info, statErr := os.Stat(source)
	sourceReadable := statErr == nil && readable(source)

	if !sourceReadable {
		if l.cacheReadable(source) {
			l.sink.WriteMessage("The ontology couldn't be located. However a cached version of it is available. Using it as a reference.", diag.Warning)
			set, err := l.store.Load(ctx, source)
			if err == nil {
				return set, nil
			}
		}
		l.sink.WriteMessage("Neither the ontology file nor a cached version of it could be found.", diag.Error)
		return nil, fmt.Errorf("%s: %w", source, ErrNoSource)
	}

	if opts.Rebuild || opts.NoCache {
		l.sink.WriteMessage("Cache generation is manually forced.", diag.Debug)
		return l.build(ctx, source, !opts.NoCache)
	}

	if !l.cacheReadable(source) {
		return l.build(ctx, source, true)
	}

	created, err := l.store.CreatedAt(ctx, source)
	if err != nil {
		l.sink.WriteMessage(fmt.Sprintf("The existing cache is not readable (%v). Rebuilding it.", err), diag.Warning)
		if err := l.store.Clear(source); err != nil {
			l.sink.WriteMessage(err.Error(), diag.Error)
		}
		return l.build(ctx, source, true)
	}

	if !created.After(info.ModTime()) {
		l.sink.WriteMessage("The ontology has changed since the last cache generation.", diag.Warning)
		return l.build(ctx, source, true)
	}

	set, err := l.store.Load(ctx, source)
	if err != nil {
		return l.build(ctx, source, true)
	}
	return set, nil
}

func (l *Loader) cacheReadable(source string) bool {
	return l.store != nil && l.store.Readable(source)
}

// build compiles source and, when save is set, writes the result to the
// cache. A failed write is reported and the compiled set still returned.
func (l *Loader) build(ctx context.Context, source string, save bool) (*keyword.Set, error) {
	set, err := l.Compile(source)
	if err != nil {
		return nil, err
	}
	if !save || l.store == nil {
		return set, nil
	}
	if err := l.store.Save(ctx, source, set); err != nil {
		l.sink.WriteMessage(fmt.Sprintf("Impossible to write cache: %v", err), diag.Error)
	}
	return set, nil
}

// Compile parses source and builds its keywords without touching the cache.
func (l *Loader) Compile(source string) (*keyword.Set, error) {
	start := time.Now()

	outcome, err := rdf.ParseFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy: %w", err)
	}

	var set *keyword.Set
	if outcome.IsGraph() {
		l.sink.WriteMessage(fmt.Sprintf("Building cache from RDF file %s.", source), diag.Debug)
		set = l.fromGraph(outcome.Graph)
	} else {
		l.sink.WriteMessage(fmt.Sprintf("Building cache from controlled vocabulary file %s.", source), diag.Debug)
		if set, err = l.fromVocabulary(source); err != nil {
			return nil, err
		}
	}

	l.sink.WriteMessage(fmt.Sprintf("Building taxonomy... %d terms built in %.1f sec.",
		set.Len(), time.Since(start).Seconds()), diag.Info)
	return set, nil
}

// fromGraph splits the graph's concepts into single keywords (labels but no
// compositeOf) and composite keywords (with compositeOf).
func (l *Loader) fromGraph(g *rdf.Graph) *keyword.Set {
	set := keyword.NewSet()
	for _, subject := range g.Subjects() {
		if g.Has(subject, rdf.CompositeOf) {
			kw := keyword.NewComposite(g, subject, l.compiler, l.sink)
			if _, dup := set.Composite[kw.ID]; dup {
				l.sink.WriteMessage(fmt.Sprintf("Composite keyword %q is defined more than once; keeping %s.", kw.ID, subject), diag.Warning)
			}
			set.Composite[kw.ID] = kw
			continue
		}
		if !hasLabel(g, subject) {
			continue
		}
		kw, err := keyword.NewSingleFromSubject(g, subject, l.compiler, l.sink)
		if err != nil {
			l.sink.WriteMessage(err.Error(), diag.Warning)
		}
		if _, dup := set.Single[kw.ID]; dup {
			l.sink.WriteMessage(fmt.Sprintf("Single keyword %q is defined more than once; keeping %s.", kw.ID, subject), diag.Warning)
		}
		set.Single[kw.ID] = kw
	}
	return set
}

func hasLabel(g *rdf.Graph, subject string) bool {
	return g.Has(subject, rdf.PrefLabel) || g.Has(subject, rdf.AltLabel) || g.Has(subject, rdf.HiddenLabel)
}

// fromVocabulary reads one keyword per line. Blank lines are skipped.
func (l *Loader) fromVocabulary(source string) (*keyword.Set, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}

	set := keyword.NewSet()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			l.sink.WriteMessage(fmt.Sprintf("%s:%d: skipping blank line", source, line), diag.Debug)
			continue
		}
		kw, err := keyword.NewSingleFromWord(word, l.compiler)
		if err != nil {
			l.sink.WriteMessage(fmt.Sprintf("%s:%d: %v", source, line, err), diag.Warning)
			continue
		}
		if _, dup := set.Single[kw.ID]; dup {
			l.sink.WriteMessage(fmt.Sprintf("%s:%d: duplicate keyword %q replaces the earlier one", source, line, kw.ID), diag.Warning)
		}
		set.Single[kw.ID] = kw
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning vocabulary: %w", err)
	}
	return set, nil
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
