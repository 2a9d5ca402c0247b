// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rdf holds parsed taxonomy graphs. A Graph is an in-memory triple
// store that keeps triples in document order so that "first" values (the
// first prefLabel, the order of compositeOf links) are stable.
package rdf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotUnique is returned by Value when uniqueness was required and the
// subject has several values for the predicate.
var ErrNotUnique = errors.New("multiple values")

// Triple is a subject-predicate-object statement. Subject and Predicate are
// IRIs (or blank node labels); Object is an IRI or the lexical form of a
// literal.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
	Literal   bool
}

// String returns the triple in an N-Triples-like form.
func (t Triple) String() string {
	if t.Literal {
		return fmt.Sprintf("<%s> <%s> %q .", t.Subject, t.Predicate, t.Object)
	}
	return fmt.Sprintf("<%s> <%s> <%s> .", t.Subject, t.Predicate, t.Object)
}

type tripleKey struct {
	subject, predicate, object string
	literal                    bool
}

// Graph is an ordered, duplicate-free set of triples indexed by subject and
// by predicate.
type Graph struct {
	triples     []Triple
	seen        map[tripleKey]bool
	bySubject   map[string][]int
	byPredicate map[string][]int
	subjects    []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		seen:        make(map[tripleKey]bool),
		bySubject:   make(map[string][]int),
		byPredicate: make(map[string][]int),
	}
}

// Add appends a triple. Adding a triple that is already present is a no-op.
func (g *Graph) Add(t Triple) {
	key := tripleKey{t.Subject, t.Predicate, t.Object, t.Literal}
	if g.seen[key] {
		return
	}
	g.seen[key] = true

	idx := len(g.triples)
	g.triples = append(g.triples, t)
	if _, ok := g.bySubject[t.Subject]; !ok {
		g.subjects = append(g.subjects, t.Subject)
	}
	g.bySubject[t.Subject] = append(g.bySubject[t.Subject], idx)
	g.byPredicate[t.Predicate] = append(g.byPredicate[t.Predicate], idx)
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns all triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Subjects returns every distinct subject in first-seen order.
func (g *Graph) Subjects() []string {
	out := make([]string, len(g.subjects))
	copy(out, g.subjects)
	return out
}

// Find returns the triples matching the pattern. Empty strings are wildcards.
func (g *Graph) Find(subject, predicate, object string) []Triple {
	var candidates []int
	switch {
	case subject != "":
		candidates = g.bySubject[subject]
	case predicate != "":
		candidates = g.byPredicate[predicate]
	default:
		candidates = make([]int, len(g.triples))
		for i := range candidates {
			candidates[i] = i
		}
	}

	var out []Triple
	for _, i := range candidates {
		t := g.triples[i]
		if subject != "" && t.Subject != subject {
			continue
		}
		if predicate != "" && t.Predicate != predicate {
			continue
		}
		if object != "" && t.Object != object {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Objects returns the objects of subject for predicate in document order.
func (g *Graph) Objects(subject, predicate string) []string {
	var out []string
	for _, t := range g.Find(subject, predicate, "") {
		out = append(out, t.Object)
	}
	return out
}

// SubjectObjects returns the triples that use predicate.
func (g *Graph) SubjectObjects(predicate string) []Triple {
	return g.Find("", predicate, "")
}

// PredicateObjects returns the triples about subject.
func (g *Graph) PredicateObjects(subject string) []Triple {
	return g.Find(subject, "", "")
}

// Value returns the first object of subject for predicate. ok is false when
// there is none. With unique set, more than one value yields ErrNotUnique.
func (g *Graph) Value(subject, predicate string, unique bool) (value string, ok bool, err error) {
	objects := g.Objects(subject, predicate)
	if len(objects) == 0 {
		return "", false, nil
	}
	if unique && len(objects) > 1 {
		return objects[0], true, fmt.Errorf("%s %s: %w", subject, predicate, ErrNotUnique)
	}
	return objects[0], true, nil
}

// Has reports whether subject has at least one value for predicate.
func (g *Graph) Has(subject, predicate string) bool {
	for _, i := range g.bySubject[subject] {
		if g.triples[i].Predicate == predicate {
			return true
		}
	}
	return false
}

// LocalName returns the fragment after the last '#', or the whole string
// when there is none.
func LocalName(iri string) string {
	if i := strings.LastIndexByte(iri, '#'); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// ConceptID returns the identifier of a concept subject: its local name with
// the "Composite." marker removed.
func ConceptID(iri string) string {
	if i := strings.LastIndex(iri, CompositeMarker); i >= 0 {
		iri = iri[i+len(CompositeMarker):]
	}
	return LocalName(iri)
}
