// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keyword builds the searchable concepts of a taxonomy. A single
// keyword carries its own label patterns; a composite keyword is a
// combination of single keywords and matches through its components.
package keyword

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/internal/pattern"
	"github.com/pdiddy/taxonomy-engine/internal/rdf"
)

// ErrNoPrefLabel is returned when a single concept has no preferred label.
// The keyword is still built, without a display name.
var ErrNoPrefLabel = errors.New("concept has no prefLabel")

// LabeledPattern is a compiled pattern together with the label it came from.
type LabeledPattern struct {
	*pattern.Pattern
	Label  string
	Hidden bool
}

// SingleKeyword is an atomic concept.
type SingleKeyword struct {
	ID         string
	Concept    string
	Patterns   []LabeledPattern
	Standalone bool
	ExternalID string
}

// CompositeKeyword is a concept made of several single keywords.
type CompositeKeyword struct {
	ID         string
	Concept    string
	Components []string
	Patterns   []LabeledPattern
	ExternalID string
}

// NewSingleFromWord builds a keyword from a controlled-vocabulary entry. The
// word is its own identifier, display name and external label.
func NewSingleFromWord(word string, c *pattern.Compiler) (*SingleKeyword, error) {
	p, err := c.CompileLabel(word)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", word, err)
	}
	return &SingleKeyword{
		ID:         word,
		Concept:    word,
		Patterns:   []LabeledPattern{{Pattern: p, Label: word}},
		Standalone: true,
		ExternalID: word,
	}, nil
}

// NewSingleFromSubject builds a keyword from a taxonomy subject. Preferred
// and alternative labels go through the grammar; hidden labels may be
// literal expressions. When a hidden label produces the same pattern text
// as a preferred or alternative label, the hidden label takes its place.
//
// A subject without prefLabel yields a keyword with an empty Concept and
// ErrNoPrefLabel.
func NewSingleFromSubject(g *rdf.Graph, subject string, c *pattern.Compiler, sink diag.Sink) (*SingleKeyword, error) {
	kw := &SingleKeyword{
		ID:         rdf.ConceptID(subject),
		Standalone: true,
	}

	prefLabels := g.Objects(subject, rdf.PrefLabel)
	basic := append(append([]string(nil), prefLabels...), g.Objects(subject, rdf.AltLabel)...)

	var set patternSet
	for _, label := range basic {
		p, err := c.CompileLabel(label)
		if err != nil {
			sink.WriteMessage(fmt.Sprintf("Keyword %s: skipping label %q: %v", kw.ID, label, err), diag.Warning)
			continue
		}
		set.put(LabeledPattern{Pattern: p, Label: label})
	}
	for _, label := range g.Objects(subject, rdf.HiddenLabel) {
		p, err := c.CompileHidden(label)
		if err != nil {
			sink.WriteMessage(fmt.Sprintf("Keyword %s: skipping hidden label %q: %v", kw.ID, label, err), diag.Warning)
			continue
		}
		set.put(LabeledPattern{Pattern: p, Label: label, Hidden: true})
	}
	kw.Patterns = set.items

	if note, ok, _ := g.Value(subject, rdf.Note, false); ok {
		kw.Standalone = !isNoStandalone(note)
	}
	if ext, ok, _ := g.Value(subject, rdf.ExternalLabel, false); ok {
		kw.ExternalID = ext
	}

	if len(prefLabels) == 0 {
		return kw, fmt.Errorf("%s: %w", kw.ID, ErrNoPrefLabel)
	}
	kw.Concept = prefLabels[0]
	return kw, nil
}

// NewComposite builds a composite keyword from a subject with compositeOf
// links. Components are ordered by where their names occur in the
// composite's own identifier. Only alternative labels become patterns.
func NewComposite(g *rdf.Graph, subject string, c *pattern.Compiler, sink diag.Sink) *CompositeKeyword {
	kw := &CompositeKeyword{ID: rdf.ConceptID(subject)}

	if concept, ok, _ := g.Value(subject, rdf.PrefLabel, false); ok {
		kw.Concept = concept
	} else {
		sink.WriteMessage(fmt.Sprintf("Keyword with subject %s has no prefLabel", kw.ID), diag.Warning)
	}

	kw.Components = orderComponents(kw.ID, g.Objects(subject, rdf.CompositeOf))

	if ext, ok, _ := g.Value(subject, rdf.ExternalLabel, false); ok {
		kw.ExternalID = ext
	}

	for _, label := range g.Objects(subject, rdf.AltLabel) {
		p, err := c.CompileLabel(label)
		if err != nil {
			sink.WriteMessage(fmt.Sprintf("Keyword %s: skipping label %q: %v", kw.ID, label, err), diag.Warning)
			continue
		}
		kw.Patterns = append(kw.Patterns, LabeledPattern{Pattern: p, Label: label})
	}
	return kw
}

// orderComponents sorts component identifiers by the position of their name
// inside id. Names not found sort first; ties keep link order.
func orderComponents(id string, components []string) []string {
	type positioned struct {
		pos  int
		name string
	}
	items := make([]positioned, len(components))
	for i, comp := range components {
		name := rdf.ConceptID(comp)
		items[i] = positioned{pos: strings.Index(id, name), name: name}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].pos < items[j].pos })

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func isNoStandalone(note string) bool {
	switch strings.ToLower(note) {
	case "nostandalone", "nonstandalone":
		return true
	}
	return false
}

// Matches reports whether any of the keyword's patterns occurs in text.
func (k *SingleKeyword) Matches(text string) bool {
	return anyMatch(k.Patterns, text)
}

// Sources returns the pattern sources in order.
func (k *SingleKeyword) Sources() []string {
	return sources(k.Patterns)
}

func (k *SingleKeyword) String() string {
	return "<SingleKeyword: " + k.Concept + ">"
}

// Matches reports whether any alternative-label pattern occurs in text.
func (k *CompositeKeyword) Matches(text string) bool {
	return anyMatch(k.Patterns, text)
}

// Sources returns the pattern sources in order.
func (k *CompositeKeyword) Sources() []string {
	return sources(k.Patterns)
}

func (k *CompositeKeyword) String() string {
	return "<CompositeKeyword: " + k.Concept + ">"
}

func anyMatch(patterns []LabeledPattern, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func sources(patterns []LabeledPattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Source
	}
	return out
}

// patternSet keeps patterns unique by source text, in first-seen order.
// A later pattern with the same source replaces the earlier one in place.
type patternSet struct {
	items []LabeledPattern
	index map[string]int
}

func (s *patternSet) put(p LabeledPattern) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[p.Source]; ok {
		s.items[i] = p
		return
	}
	s.index[p.Source] = len(s.items)
	s.items = append(s.items, p)
}
