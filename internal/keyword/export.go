// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keyword

import (
	"encoding/json"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportPattern is one compiled pattern in an export.
type ExportPattern struct {
	Label  string `json:"label" yaml:"label"`
	Source string `json:"source" yaml:"source"`
	Hidden bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// ExportSingle is a single keyword in an export.
type ExportSingle struct {
	ID         string          `json:"id" yaml:"id"`
	Concept    string          `json:"concept" yaml:"concept"`
	Standalone bool            `json:"standalone" yaml:"standalone"`
	ExternalID string          `json:"external_id,omitempty" yaml:"external_id,omitempty"`
	Patterns   []ExportPattern `json:"patterns" yaml:"patterns"`
}

// ExportComposite is a composite keyword in an export.
type ExportComposite struct {
	ID         string          `json:"id" yaml:"id"`
	Concept    string          `json:"concept" yaml:"concept"`
	Components []string        `json:"components" yaml:"components"`
	ExternalID string          `json:"external_id,omitempty" yaml:"external_id,omitempty"`
	Patterns   []ExportPattern `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// Export is a serializable view of a Set, keywords sorted by identifier.
type Export struct {
	Source    string            `json:"source,omitempty" yaml:"source,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Single    []ExportSingle    `json:"single" yaml:"single"`
	Composite []ExportComposite `json:"composite" yaml:"composite"`
}

// Export returns the serializable view of s.
func (s *Set) Export(source string) Export {
	out := Export{
		Source:    source,
		CreatedAt: s.CreatedAt,
		Single:    make([]ExportSingle, 0, len(s.Single)),
		Composite: make([]ExportComposite, 0, len(s.Composite)),
	}
	for _, id := range s.SingleIDs() {
		kw := s.Single[id]
		out.Single = append(out.Single, ExportSingle{
			ID:         kw.ID,
			Concept:    kw.Concept,
			Standalone: kw.Standalone,
			ExternalID: kw.ExternalID,
			Patterns:   exportPatterns(kw.Patterns),
		})
	}
	for _, id := range s.CompositeIDs() {
		kw := s.Composite[id]
		out.Composite = append(out.Composite, ExportComposite{
			ID:         kw.ID,
			Concept:    kw.Concept,
			Components: kw.Components,
			ExternalID: kw.ExternalID,
			Patterns:   exportPatterns(kw.Patterns),
		})
	}
	return out
}

func exportPatterns(patterns []LabeledPattern) []ExportPattern {
	out := make([]ExportPattern, len(patterns))
	for i, p := range patterns {
		out[i] = ExportPattern{Label: p.Label, Source: p.Source, Hidden: p.Hidden}
	}
	return out
}

// Marshal encodes the export as "yaml" or "json".
func (e Export) Marshal(format string) ([]byte, error) {
	switch format {
	case "yaml", "":
		data, err := yaml.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
