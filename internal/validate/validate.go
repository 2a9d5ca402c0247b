// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks the consistency of an RDF/SKOS taxonomy. It works
// on the raw triples, independent of the compiled keyword pipeline, and
// returns a Report listing errors and warnings per concept.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/taxonomy-engine/internal/pattern"
	"github.com/pdiddy/taxonomy-engine/internal/rdf"
)

// DefaultRoot is the IRI of the HEP ontology description, which is not a
// concept.
const DefaultRoot = "http://cern.ch/thesauri/HEPontology.rdf"

// Options configures a Validator.
type Options struct {
	// Roots lists subjects (full IRIs or identifiers) describing the
	// taxonomy itself. Subjects typed owl:Ontology are always skipped.
	Roots []string
}

// Validator runs the consistency checks.
type Validator struct {
	compiler *pattern.Compiler
	roots    map[string]bool
}

// New returns a Validator. Label collisions are computed with compiler.
// When opts.Roots is empty, DefaultRoot is used.
func New(compiler *pattern.Compiler, opts Options) *Validator {
	if compiler == nil {
		compiler = pattern.Default()
	}
	roots := opts.Roots
	if len(roots) == 0 {
		roots = []string{DefaultRoot}
	}
	v := &Validator{compiler: compiler, roots: make(map[string]bool, len(roots))}
	for _, r := range roots {
		v.roots[r] = true
	}
	return v
}

// ValidateFile parses path and checks it. The only error is a source that
// cannot be read or is not a graph; findings go in the report.
func (v *Validator) ValidateFile(path string) (*Report, error) {
	outcome, err := rdf.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if !outcome.IsGraph() {
		return nil, fmt.Errorf("%s: %w", path, outcome.Reason)
	}
	report := v.Validate(outcome.Graph)
	report.Source = path
	report.Format = outcome.Format
	return report, nil
}

// Validate checks an already parsed graph.
func (v *Validator) Validate(g *rdf.Graph) *Report {
	idx := v.collect(g)
	ids := append([]string(nil), idx.ids...)
	sort.Strings(ids)

	concepts := make([]*Concept, len(ids))
	for i, id := range ids {
		concepts[i] = idx.byID[id]
	}

	collisions, shared := v.labelCollisions(concepts)
	return &Report{
		Concepts:               len(concepts),
		NoPrefLabel:            selectIDs(concepts, func(c *Concept) bool { return len(c.PrefLabels) == 0 }),
		MultiplePrefLabels:     selectIDs(concepts, func(c *Concept) bool { return len(c.PrefLabels) > 1 }),
		Lonely:                 selectIDs(concepts, func(c *Concept) bool { return len(c.Composite) == 0 && len(c.CompositeOf) == 0 }),
		BothComposites:         selectIDs(concepts, func(c *Concept) bool { return len(c.Composite) > 0 && len(c.CompositeOf) > 0 }),
		BadHiddenLabels:        selectLabels(concepts, func(c *Concept) []string { return c.HiddenLabels }, badHiddenLabel),
		BadAltLabels:           selectLabels(concepts, func(c *Concept) []string { return c.AltLabels }, badAltLabel),
		BothSingleAndComposite: dedupe(idx.duplicates),
		UnknownComposites:      references(concepts, idx, func(c *Concept) []string { return c.Composite }, missingTarget),
		CompositeIsSingle:      references(concepts, idx, func(c *Concept) []string { return c.Composite }, targetLacks(func(t *Concept) []string { return t.CompositeOf })),
		NotComponentOf:         references(concepts, idx, func(c *Concept) []string { return c.Composite }, noBackReference(func(t *Concept) []string { return t.CompositeOf })),
		UnknownComponents:      danglingComponents(concepts, idx),
		ComponentIsComposite:   references(concepts, idx, func(c *Concept) []string { return c.CompositeOf }, targetLacks(func(t *Concept) []string { return t.Composite })),
		NotComposedBy:          references(concepts, idx, func(c *Concept) []string { return c.CompositeOf }, noBackReference(func(t *Concept) []string { return t.Composite })),
		MultipleNotes:          selectIDs(concepts, func(c *Concept) bool { return len(c.Notes) > 1 }),
		BadNotes:               badNotes(concepts),
		StemmingCollisions:     collisions,
		SharedPatterns:         shared,
	}
}

func selectIDs(concepts []*Concept, keep func(*Concept) bool) []string {
	var out []string
	for _, c := range concepts {
		if keep(c) {
			out = append(out, c.ID)
		}
	}
	return out
}

func selectLabels(concepts []*Concept, labels func(*Concept) []string, bad func(string) bool) []LabelFinding {
	var out []LabelFinding
	for _, c := range concepts {
		var found []string
		for _, l := range labels(c) {
			if bad(l) {
				found = append(found, l)
			}
		}
		if len(found) > 0 {
			out = append(out, LabelFinding{Concept: c.ID, Labels: found})
		}
	}
	return out
}

// badHiddenLabel flags a hidden label with only one expression delimiter.
func badHiddenLabel(label string) bool {
	return strings.HasPrefix(label, "/") != strings.HasSuffix(label, "/")
}

// badAltLabel flags alternative labels that look like expressions or like
// composite display names.
func badAltLabel(label string) bool {
	return strings.Count(label, "/") >= 2 || strings.Contains(label, ":")
}

type referenceCheck func(idx *conceptIndex, from *Concept, to string) bool

func references(concepts []*Concept, idx *conceptIndex, links func(*Concept) []string, failed referenceCheck) []Reference {
	var out []Reference
	for _, c := range concepts {
		for _, to := range links(c) {
			if failed(idx, c, to) {
				out = append(out, Reference{From: c.ID, To: to})
			}
		}
	}
	return out
}

func missingTarget(idx *conceptIndex, _ *Concept, to string) bool {
	return !idx.has(to)
}

// targetLacks fails when the target exists but has no links of the kind
// that would point back. Identifiers used twice are reported elsewhere.
func targetLacks(back func(*Concept) []string) referenceCheck {
	return func(idx *conceptIndex, _ *Concept, to string) bool {
		target, ok := idx.byID[to]
		if !ok || len(back(target)) > 0 {
			return false
		}
		return !idx.isDuplicate(to)
	}
}

// noBackReference fails when the target has links of the returning kind
// but none of them names the source concept.
func noBackReference(back func(*Concept) []string) referenceCheck {
	return func(idx *conceptIndex, from *Concept, to string) bool {
		target, ok := idx.byID[to]
		if !ok {
			return false
		}
		links := back(target)
		return len(links) > 0 && !contains(links, from.ID)
	}
}

func danglingComponents(concepts []*Concept, idx *conceptIndex) []Dangling {
	var out []Dangling
	pos := make(map[string]int)
	for _, c := range concepts {
		for _, comp := range c.CompositeOf {
			if idx.has(comp) {
				continue
			}
			i, ok := pos[comp]
			if !ok {
				i = len(out)
				pos[comp] = i
				out = append(out, Dangling{Component: comp})
			}
			out[i].ReferencedBy = append(out[i].ReferencedBy, c.ID)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Component < out[j].Component })
	return out
}

func badNotes(concepts []*Concept) []NoteFinding {
	var out []NoteFinding
	for _, c := range concepts {
		for _, n := range c.Notes {
			switch strings.ToLower(n) {
			case "nostandalone", "nonstandalone":
				continue
			}
			out = append(out, NoteFinding{Concept: c.ID, Note: n})
		}
	}
	return out
}

// labelCollisions compiles every non-expression label and reports two
// kinds of overlap: labels of one concept producing the same pattern, and
// patterns produced by several concepts. Composite preferred labels are
// display names and are left out.
func (v *Validator) labelCollisions(concepts []*Concept) ([]Collision, []SharedPattern) {
	var collisions []Collision
	owners := make(map[string][]LabelRef)
	var order []string

	for _, c := range concepts {
		kinds := []struct {
			kind   string
			labels []string
		}{
			{"prefLabel", c.PrefLabels},
			{"altLabel", c.AltLabels},
			{"hiddenLabel", c.HiddenLabels},
		}
		if c.IsComposite() {
			kinds = kinds[1:]
		}

		seen := make(map[string]LabelRef)
		for _, k := range kinds {
			for _, label := range k.labels {
				if pattern.IsRegexLabel(label) {
					continue
				}
				ref := LabelRef{Concept: c.ID, Kind: k.kind, Label: label}
				p := v.compiler.LabelPattern(label)

				if _, ok := owners[p]; !ok {
					order = append(order, p)
				}
				owners[p] = append(owners[p], ref)

				if first, ok := seen[p]; ok {
					collisions = append(collisions, Collision{Concept: c.ID, First: first, Second: ref})
					continue
				}
				seen[p] = ref
			}
		}
	}

	var shared []SharedPattern
	for _, p := range order {
		refs := owners[p]
		if distinctConcepts(refs) > 1 {
			shared = append(shared, SharedPattern{Pattern: p, Labels: refs})
		}
	}
	return collisions, shared
}

func distinctConcepts(refs []LabelRef) int {
	seen := make(map[string]bool)
	for _, r := range refs {
		seen[r.Concept] = true
	}
	return len(seen)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
