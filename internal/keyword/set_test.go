// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keyword

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/internal/pattern"
	"github.com/pdiddy/taxonomy-engine/internal/rdf"
)

func sampleSet(t *testing.T) *Set {
	t.Helper()
	c := pattern.Default()
	g := rdf.NewGraph()
	lit(g, "quark", rdf.PrefLabel, "quark")
	lit(g, "gluon", rdf.PrefLabel, "gluon")
	lit(g, "gluon", rdf.Note, "nostandalone")
	lit(g, "Composite.quark*gluon", rdf.PrefLabel, "quark: gluon")
	lit(g, "Composite.quark*gluon", rdf.AltLabel, "quark-gluon plasma")
	link(g, "Composite.quark*gluon", rdf.CompositeOf, "gluon")
	link(g, "Composite.quark*gluon", rdf.CompositeOf, "quark")

	set := NewSet()
	for _, id := range []string{"quark", "gluon"} {
		kw, err := NewSingleFromSubject(g, ns+id, c, diag.Discard)
		require.NoError(t, err)
		set.Single[kw.ID] = kw
	}
	ckw := NewComposite(g, ns+"Composite.quark*gluon", c, diag.Discard)
	set.Composite[ckw.ID] = ckw
	return set
}

func TestSet_IDsAndProbe(t *testing.T) {
	set := sampleSet(t)

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"gluon", "quark"}, set.SingleIDs())
	assert.Equal(t, []string{"quark*gluon"}, set.CompositeIDs())

	singles, composites := set.Probe("Quarks, gluons and a quark-gluon plasma")
	assert.Equal(t, []string{"gluon", "quark"}, singles)
	assert.Equal(t, []string{"quark*gluon"}, composites)

	singles, composites = set.Probe("nothing relevant")
	assert.Empty(t, singles)
	assert.Empty(t, composites)
}

func TestSet_Export(t *testing.T) {
	set := sampleSet(t)
	e := set.Export("hep.ttl")

	require.Len(t, e.Single, 2)
	assert.Equal(t, "gluon", e.Single[0].ID)
	assert.False(t, e.Single[0].Standalone)
	assert.Equal(t, set.Single["gluon"].Sources()[0], e.Single[0].Patterns[0].Source)

	require.Len(t, e.Composite, 1)
	assert.Equal(t, []string{"quark", "gluon"}, e.Composite[0].Components)
	assert.Equal(t, "quark-gluon plasma", e.Composite[0].Patterns[0].Label)

	data, err := e.Marshal("json")
	require.NoError(t, err)
	var decoded Export
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "hep.ttl", decoded.Source)
	assert.Len(t, decoded.Single, 2)

	data, err = e.Marshal("yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "source: hep.ttl\n"))

	_, err = e.Marshal("xml")
	assert.Error(t, err)
}
