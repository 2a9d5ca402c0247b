// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rdf

// SKOS and taxonomy-specific predicates.
const (
	SKOSNamespace = "http://www.w3.org/2004/02/skos/core#"

	PrefLabel   = SKOSNamespace + "prefLabel"
	AltLabel    = SKOSNamespace + "altLabel"
	HiddenLabel = SKOSNamespace + "hiddenLabel"
	Note        = SKOSNamespace + "note"

	// CompositeOf links a composite concept to its single components.
	CompositeOf = SKOSNamespace + "compositeOf"
	// Composite links a single concept back to the composites using it.
	Composite = SKOSNamespace + "composite"
	// ExternalLabel carries the concept's label in an external system.
	ExternalLabel = SKOSNamespace + "spiresLabel"

	RDFType     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	OWLOntology = "http://www.w3.org/2002/07/owl#Ontology"

	// CompositeMarker prefixes the fragment of composite concept IRIs.
	CompositeMarker = "#Composite."
)
