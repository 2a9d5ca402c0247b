// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"github.com/pdiddy/taxonomy-engine/internal/rdf"
)

// Concept is one taxonomy subject seen through the predicates the checks
// care about. Object IRIs are reduced to concept identifiers; literals are
// kept as written.
type Concept struct {
	ID           string              `json:"id" yaml:"id"`
	Subject      string              `json:"subject" yaml:"subject"`
	PrefLabels   []string            `json:"pref_labels,omitempty" yaml:"pref_labels,omitempty"`
	AltLabels    []string            `json:"alt_labels,omitempty" yaml:"alt_labels,omitempty"`
	HiddenLabels []string            `json:"hidden_labels,omitempty" yaml:"hidden_labels,omitempty"`
	Notes        []string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Composite    []string            `json:"composite,omitempty" yaml:"composite,omitempty"`
	CompositeOf  []string            `json:"composite_of,omitempty" yaml:"composite_of,omitempty"`
	Other        map[string][]string `json:"other,omitempty" yaml:"other,omitempty"`
}

// IsComposite reports whether the concept is built from other concepts.
func (c *Concept) IsComposite() bool {
	return len(c.CompositeOf) > 0
}

func newConcept(g *rdf.Graph, subject string) *Concept {
	c := &Concept{ID: rdf.ConceptID(subject), Subject: subject}
	for _, t := range g.PredicateObjects(subject) {
		value := t.Object
		if !t.Literal {
			value = rdf.ConceptID(value)
		}
		switch name := rdf.LocalName(t.Predicate); name {
		case "prefLabel":
			c.PrefLabels = append(c.PrefLabels, value)
		case "altLabel":
			c.AltLabels = append(c.AltLabels, value)
		case "hiddenLabel":
			c.HiddenLabels = append(c.HiddenLabels, value)
		case "note":
			c.Notes = append(c.Notes, value)
		case "composite":
			c.Composite = append(c.Composite, value)
		case "compositeOf":
			c.CompositeOf = append(c.CompositeOf, value)
		default:
			if c.Other == nil {
				c.Other = make(map[string][]string)
			}
			c.Other[name] = append(c.Other[name], value)
		}
	}
	return c
}

// conceptIndex holds the concepts of a graph keyed by identifier. A subject
// whose identifier was already taken is recorded in duplicates and otherwise
// ignored.
type conceptIndex struct {
	byID       map[string]*Concept
	ids        []string
	duplicates []string
}

func (idx *conceptIndex) has(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

func (idx *conceptIndex) isDuplicate(id string) bool {
	for _, d := range idx.duplicates {
		if d == id {
			return true
		}
	}
	return false
}

func (v *Validator) collect(g *rdf.Graph) *conceptIndex {
	idx := &conceptIndex{byID: make(map[string]*Concept)}
	for _, subject := range g.Subjects() {
		if v.skip(g, subject) {
			continue
		}
		c := newConcept(g, subject)
		if idx.has(c.ID) {
			idx.duplicates = append(idx.duplicates, c.ID)
			continue
		}
		idx.byID[c.ID] = c
		idx.ids = append(idx.ids, c.ID)
	}
	return idx
}

// skip reports whether subject describes the taxonomy itself or a property
// rather than a concept.
func (v *Validator) skip(g *rdf.Graph, subject string) bool {
	id := rdf.ConceptID(subject)
	if id == "compositeOf" || v.roots[subject] || v.roots[id] {
		return true
	}
	return len(g.Find(subject, rdf.RDFType, rdf.OWLOntology)) > 0
}
