// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	knakk "github.com/knakk/rdf"
)

// ErrNotAGraph marks input that is not valid graph syntax in any supported
// format.
var ErrNotAGraph = errors.New("not an RDF graph")

// ParseOutcome is the result of parsing a taxonomy source. Exactly one of
// Graph and Reason is set.
type ParseOutcome struct {
	Graph  *Graph
	Format string
	Reason error
}

// IsGraph reports whether the source parsed as a graph.
func (o ParseOutcome) IsGraph() bool {
	return o.Graph != nil
}

type format struct {
	name string
	f    knakk.Format
}

var (
	formatRDFXML   = format{"rdf/xml", knakk.RDFXML}
	formatTurtle   = format{"turtle", knakk.Turtle}
	formatNTriples = format{"n-triples", knakk.NTriples}
)

// formatsFor picks the formats to try for a file name. Known extensions map
// to one format; anything else tries all of them.
func formatsFor(path string) []format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rdf", ".owl", ".xml", ".skos":
		return []format{formatRDFXML}
	case ".ttl":
		return []format{formatTurtle}
	case ".nt":
		return []format{formatNTriples}
	default:
		return []format{formatRDFXML, formatTurtle, formatNTriples}
	}
}

// ParseFile reads and parses the file at path. The returned error covers
// I/O failures only; syntax problems produce a NotAGraph outcome.
func ParseFile(path string) (ParseOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseOutcome{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseBytes(data, formatsFor(path)...), nil
}

// ParseBytes tries each format in turn and returns the first that yields at
// least one triple.
func ParseBytes(data []byte, formats ...format) ParseOutcome {
	if len(formats) == 0 {
		formats = []format{formatRDFXML, formatTurtle, formatNTriples}
	}

	var reasons []string
	for _, f := range formats {
		g, err := decode(bytes.NewReader(data), f.f)
		if err == nil {
			return ParseOutcome{Graph: g, Format: f.name}
		}
		reasons = append(reasons, fmt.Sprintf("%s: %v", f.name, err))
	}
	return ParseOutcome{
		Reason: fmt.Errorf("%w (%s)", ErrNotAGraph, strings.Join(reasons, "; ")),
	}
}

// ParseTurtle parses Turtle text. It is a convenience for callers holding
// an in-memory document.
func ParseTurtle(text string) ParseOutcome {
	return ParseBytes([]byte(text), formatTurtle)
}

func decode(r io.Reader, f knakk.Format) (*Graph, error) {
	dec := knakk.NewTripleDecoder(r, f)
	g := NewGraph()
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		g.Add(convert(tr))
	}
	if g.Len() == 0 {
		return nil, errors.New("no triples")
	}
	return g, nil
}

func convert(tr knakk.Triple) Triple {
	t := Triple{
		Subject:   termString(tr.Subj),
		Predicate: termString(tr.Pred),
		Object:    termString(tr.Obj),
	}
	if _, ok := tr.Obj.(knakk.Literal); ok {
		t.Literal = true
	}
	return t
}

func termString(term knakk.Term) string {
	switch v := term.(type) {
	case knakk.IRI:
		return v.String()
	case knakk.Literal:
		return v.String()
	case knakk.Blank:
		return v.String()
	default:
		return term.String()
	}
}
