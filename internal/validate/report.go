// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// LabelFinding lists the offending labels of one concept.
type LabelFinding struct {
	Concept string   `json:"concept" yaml:"concept"`
	Labels  []string `json:"labels" yaml:"labels"`
}

// Reference is a link from one concept to another.
type Reference struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Dangling is a component named by composites but not defined.
type Dangling struct {
	Component    string   `json:"component" yaml:"component"`
	ReferencedBy []string `json:"referenced_by" yaml:"referenced_by"`
}

// NoteFinding is a note with an unrecognized value.
type NoteFinding struct {
	Concept string `json:"concept" yaml:"concept"`
	Note    string `json:"note" yaml:"note"`
}

// LabelRef identifies one label of a concept.
type LabelRef struct {
	Concept string `json:"concept" yaml:"concept"`
	Kind    string `json:"kind" yaml:"kind"`
	Label   string `json:"label" yaml:"label"`
}

func (r LabelRef) String() string {
	return fmt.Sprintf("%s '%s'", r.Kind, r.Label)
}

// Collision is a label that compiles to the same pattern as an earlier
// label of the same concept.
type Collision struct {
	Concept string   `json:"concept" yaml:"concept"`
	First   LabelRef `json:"first" yaml:"first"`
	Second  LabelRef `json:"second" yaml:"second"`
}

// SharedPattern is a pattern produced by labels of several concepts.
type SharedPattern struct {
	Pattern string     `json:"pattern" yaml:"pattern"`
	Labels  []LabelRef `json:"labels" yaml:"labels"`
}

// Report is the outcome of validating one taxonomy.
type Report struct {
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
	Concepts int    `json:"concepts" yaml:"concepts"`

	// Errors.
	NoPrefLabel            []string       `json:"no_pref_label,omitempty" yaml:"no_pref_label,omitempty"`
	MultiplePrefLabels     []string       `json:"multiple_pref_labels,omitempty" yaml:"multiple_pref_labels,omitempty"`
	Lonely                 []string       `json:"lonely,omitempty" yaml:"lonely,omitempty"`
	BothComposites         []string       `json:"both_composites,omitempty" yaml:"both_composites,omitempty"`
	BadHiddenLabels        []LabelFinding `json:"bad_hidden_labels,omitempty" yaml:"bad_hidden_labels,omitempty"`
	BadAltLabels           []LabelFinding `json:"bad_alt_labels,omitempty" yaml:"bad_alt_labels,omitempty"`
	BothSingleAndComposite []string       `json:"both_single_and_composite,omitempty" yaml:"both_single_and_composite,omitempty"`
	UnknownComposites      []Reference    `json:"unknown_composites,omitempty" yaml:"unknown_composites,omitempty"`
	CompositeIsSingle      []Reference    `json:"composite_is_single,omitempty" yaml:"composite_is_single,omitempty"`
	NotComponentOf         []Reference    `json:"not_component_of,omitempty" yaml:"not_component_of,omitempty"`
	UnknownComponents      []Dangling     `json:"unknown_components,omitempty" yaml:"unknown_components,omitempty"`
	ComponentIsComposite   []Reference    `json:"component_is_composite,omitempty" yaml:"component_is_composite,omitempty"`
	NotComposedBy          []Reference    `json:"not_composed_by,omitempty" yaml:"not_composed_by,omitempty"`

	// Warnings.
	MultipleNotes      []string        `json:"multiple_notes,omitempty" yaml:"multiple_notes,omitempty"`
	BadNotes           []NoteFinding   `json:"bad_notes,omitempty" yaml:"bad_notes,omitempty"`
	StemmingCollisions []Collision     `json:"stemming_collisions,omitempty" yaml:"stemming_collisions,omitempty"`
	SharedPatterns     []SharedPattern `json:"shared_patterns,omitempty" yaml:"shared_patterns,omitempty"`
}

// Errors returns the number of error findings.
func (r *Report) Errors() int {
	n := len(r.NoPrefLabel) + len(r.MultiplePrefLabels) + len(r.Lonely) +
		len(r.BothComposites) + len(r.BothSingleAndComposite) +
		len(r.UnknownComposites) + len(r.CompositeIsSingle) + len(r.NotComponentOf) +
		len(r.UnknownComponents) + len(r.ComponentIsComposite) + len(r.NotComposedBy)
	for _, f := range r.BadHiddenLabels {
		n += len(f.Labels)
	}
	for _, f := range r.BadAltLabels {
		n += len(f.Labels)
	}
	return n
}

// Warnings returns the number of warning findings.
func (r *Report) Warnings() int {
	return len(r.MultipleNotes) + len(r.BadNotes) + len(r.StemmingCollisions) + len(r.SharedPatterns)
}

// ToJSON serializes the report as indented JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ToYAML serializes the report as YAML.
func (r *Report) ToYAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// String renders the report as plain text, errors first.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("INFO: Graph was successfully built.\n")
	sb.WriteString(fmt.Sprintf("INFO: Taxonomy contains %d concepts.\n", r.Concepts))

	sb.WriteString("\n==== ERRORS ====\n")
	writeIDs(&sb, "Concepts with no prefLabel", r.NoPrefLabel)
	writeIDs(&sb, "Concepts with multiple prefLabels", r.MultiplePrefLabels)
	writeIDs(&sb, "Concepts with no composite properties", r.Lonely)
	writeIDs(&sb, "Concepts with both composite properties", r.BothComposites)
	writeLabels(&sb, "Concepts with bad hidden labels", r.BadHiddenLabels)
	writeLabels(&sb, "Concepts with bad alt labels", r.BadAltLabels)
	writeIDs(&sb, "Keywords that are both skw and ckw", r.BothSingleAndComposite)
	sb.WriteString("\n")

	for _, ref := range r.UnknownComposites {
		sb.WriteString(fmt.Sprintf("SKW '%s' references an unexisting CKW '%s'.\n", ref.From, ref.To))
	}
	for _, ref := range r.CompositeIsSingle {
		sb.WriteString(fmt.Sprintf("SKW '%s' references a SKW '%s'.\n", ref.From, ref.To))
	}
	for _, ref := range r.NotComponentOf {
		sb.WriteString(fmt.Sprintf("SKW '%s' is not composite of CKW '%s'.\n", ref.From, ref.To))
	}
	for _, d := range r.UnknownComponents {
		sb.WriteString(fmt.Sprintf("SKW '%s' does not exist but is referenced by:\n", d.Component))
		for _, ckw := range d.ReferencedBy {
			sb.WriteString(fmt.Sprintf("    %s\n", ckw))
		}
	}
	for _, ref := range r.ComponentIsComposite {
		sb.WriteString(fmt.Sprintf("CKW '%s' references a CKW '%s'.\n", ref.From, ref.To))
	}
	for _, ref := range r.NotComposedBy {
		sb.WriteString(fmt.Sprintf("CKW '%s' is not composed by SKW '%s'.\n", ref.From, ref.To))
	}

	sb.WriteString("\n==== WARNINGS ====\n")
	writeIDs(&sb, "Concepts with multiple notes", r.MultipleNotes)
	if len(r.BadNotes) > 0 {
		sb.WriteString(fmt.Sprintf("\nConcepts with bad notes: %d\n", len(r.BadNotes)))
		for _, n := range r.BadNotes {
			sb.WriteString(fmt.Sprintf("   '%s': '%s'\n", n.Concept, n.Note))
		}
	}
	if len(r.StemmingCollisions) > 0 {
		sb.WriteString("\nFollowing keywords have unnecessary labels that have already been generated by the compiler.\n")
		for _, c := range r.StemmingCollisions {
			sb.WriteString(fmt.Sprintf("   %s:\n     %s\n     and %s\n", c.Concept, c.First, c.Second))
		}
	}
	if len(r.SharedPatterns) > 0 {
		sb.WriteString(fmt.Sprintf("\nPatterns generated by several concepts: %d\n", len(r.SharedPatterns)))
		for _, s := range r.SharedPatterns {
			sb.WriteString(fmt.Sprintf("   %s\n", s.Pattern))
			for _, ref := range s.Labels {
				sb.WriteString(fmt.Sprintf("      %s: %s\n", ref.Concept, ref))
			}
		}
	}

	sb.WriteString("\nFinished.\n")
	return sb.String()
}

func writeIDs(sb *strings.Builder, title string, ids []string) {
	if len(ids) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s: %d\n", title, len(ids)))
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("   %s\n", id))
	}
}

func writeLabels(sb *strings.Builder, title string, findings []LabelFinding) {
	if len(findings) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s: %d\n", title, len(findings)))
	for _, f := range findings {
		sb.WriteString(fmt.Sprintf("   %s:\n", f.Concept))
		for _, l := range f.Labels {
			sb.WriteString(fmt.Sprintf("      '%s'\n", l))
		}
	}
}
