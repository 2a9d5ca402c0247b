// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hep = "http://example.org/hep#"

func TestGraph_AddIsIdempotentAndOrdered(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{Subject: "s2", Predicate: "p", Object: "a", Literal: true})
	g.Add(Triple{Subject: "s1", Predicate: "p", Object: "b", Literal: true})
	g.Add(Triple{Subject: "s2", Predicate: "p", Object: "c", Literal: true})
	g.Add(Triple{Subject: "s2", Predicate: "p", Object: "a", Literal: true})

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"s2", "s1"}, g.Subjects())
	assert.Equal(t, []string{"a", "c"}, g.Objects("s2", "p"))
}

func TestGraph_Value(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{Subject: "s", Predicate: "one", Object: "x"})
	g.Add(Triple{Subject: "s", Predicate: "many", Object: "y"})
	g.Add(Triple{Subject: "s", Predicate: "many", Object: "z"})

	v, ok, err := g.Value("s", "one", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	v, ok, err = g.Value("s", "many", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "y", v)

	_, _, err = g.Value("s", "many", true)
	assert.True(t, errors.Is(err, ErrNotUnique))

	_, ok, err = g.Value("s", "missing", true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGraph_Find(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{Subject: "a", Predicate: "p", Object: "1"})
	g.Add(Triple{Subject: "b", Predicate: "p", Object: "2"})
	g.Add(Triple{Subject: "b", Predicate: "q", Object: "1"})

	assert.Len(t, g.Find("", "", ""), 3)
	assert.Len(t, g.Find("", "p", ""), 2)
	assert.Len(t, g.Find("", "", "1"), 2)
	assert.Len(t, g.Find("b", "q", "1"), 1)
	assert.Empty(t, g.Find("c", "", ""))
	assert.True(t, g.Has("b", "q"))
	assert.False(t, g.Has("a", "q"))

	assert.Equal(t, []Triple{{Subject: "b", Predicate: "q", Object: "1"}}, g.SubjectObjects("q"))
	assert.Len(t, g.PredicateObjects("b"), 2)

	all := g.Triples()
	all[0].Object = "changed"
	assert.Equal(t, "1", g.Triples()[0].Object)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "quark", LocalName(hep+"quark"))
	assert.Equal(t, "Composite.quark*gluon", LocalName(hep+"Composite.quark*gluon"))
	assert.Equal(t, "plain", LocalName("plain"))

	assert.Equal(t, "quark*gluon", ConceptID(hep+"Composite.quark*gluon"))
	assert.Equal(t, "quark", ConceptID(hep+"quark"))
}

func TestParseFile_Turtle(t *testing.T) {
	out, err := ParseFile(filepath.Join("testdata", "mini.ttl"))
	require.NoError(t, err)
	require.True(t, out.IsGraph(), "reason: %v", out.Reason)
	assert.Equal(t, "turtle", out.Format)

	g := out.Graph
	assert.Equal(t, []string{"quark"}, g.Objects(hep+"quark", PrefLabel))
	assert.Equal(t,
		[]string{hep + "gluon", hep + "quark"},
		g.Objects(hep+"Composite.quark*gluon", CompositeOf))
	assert.True(t, g.Has(hep+"Composite.quark*gluon", CompositeOf))
	assert.False(t, g.Has(hep+"quark", CompositeOf))

	triples := g.Find(hep+"quark", PrefLabel, "")
	require.Len(t, triples, 1)
	assert.True(t, triples[0].Literal)
}

func TestParseFile_RDFXML(t *testing.T) {
	out, err := ParseFile(filepath.Join("testdata", "mini.rdf"))
	require.NoError(t, err)
	require.True(t, out.IsGraph(), "reason: %v", out.Reason)
	assert.Equal(t, "rdf/xml", out.Format)

	assert.Equal(t, []string{"proton"}, out.Graph.Objects(hep+"proton", PrefLabel))
	assert.Equal(t, []string{`/p\+/`}, out.Graph.Objects(hep+"proton", HiddenLabel))
}

func TestParseFile_NotAGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte("proton\nHiggs boson\n"), 0o644))

	out, err := ParseFile(path)
	require.NoError(t, err)
	assert.False(t, out.IsGraph())
	assert.True(t, errors.Is(out.Reason, ErrNotAGraph))
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.rdf"))
	assert.Error(t, err)
}

func TestParseTurtle(t *testing.T) {
	out := ParseTurtle(`<http://x#a> <http://x#p> "v" .`)
	require.True(t, out.IsGraph(), "reason: %v", out.Reason)
	assert.Equal(t, []string{"v"}, out.Graph.Objects("http://x#a", "http://x#p"))
}
