package galois

import "github.com/zoobzio/capitan"

// Signal definitions for concept analysis events.
// Signals follow the pattern: galois.<entity>.<event>.
var (
	// Context lifecycle signals.
	ContextCreated = capitan.NewSignal(
		"galois.context.created",
		"Formal context constructed from a relation",
	)
	ContextReduced = capitan.NewSignal(
		"galois.context.reduced",
		"Duplicate objects and attributes collapsed into a new context",
	)

	// Generation signals.
	GenerationStarted = capitan.NewSignal(
		"galois.generation.started",
		"Concept generator began enumerating a context",
	)
	GenerationCompleted = capitan.NewSignal(
		"galois.generation.completed",
		"Concept generator populated a context",
	)
	GenerationFailed = capitan.NewSignal(
		"galois.generation.failed",
		"Concept generator rejected a context",
	)
	PartitionCompleted = capitan.NewSignal(
		"galois.partition.completed",
		"Top-level attribute subtree finished in a parallel search",
	)

	// Downstream signals.
	ContextVerified = capitan.NewSignal(
		"galois.context.verified",
		"Every concept satisfied the closure law without duplicates",
	)
	LatticeBuilt = capitan.NewSignal(
		"galois.lattice.built",
		"Covering relation computed over the concepts of a context",
	)
	ConceptLabeled = capitan.NewSignal(
		"galois.concept.labeled",
		"Language model proposed a name for a concept",
	)
	ConceptsPersisted = capitan.NewSignal(
		"galois.concepts.persisted",
		"Context and concepts written to a store",
	)
)

// Field keys for galois event data.
var (
	// Context metadata.
	FieldContextID      = capitan.NewStringKey("context_id")
	FieldContextName    = capitan.NewStringKey("context_name")
	FieldObjectCount    = capitan.NewIntKey("object_count")
	FieldAttributeCount = capitan.NewIntKey("attribute_count")

	// Generation metadata.
	FieldAlgorithm    = capitan.NewStringKey("algorithm") // inclose, parallel-inclose
	FieldConceptCount = capitan.NewIntKey("concept_count")
	FieldCandidates   = capitan.NewIntKey("candidates")
	FieldRejected     = capitan.NewIntKey("rejected") // non-canonical candidates
	FieldPartition    = capitan.NewIntKey("partition") // leading attribute of a subtree
	FieldWorkers      = capitan.NewIntKey("workers")

	// Reduction metadata.
	FieldRemovedObjects    = capitan.NewIntKey("removed_objects")
	FieldRemovedAttributes = capitan.NewIntKey("removed_attributes")

	// Lattice and labeling metadata.
	FieldEdgeCount = capitan.NewIntKey("edge_count")
	FieldSequence  = capitan.NewIntKey("sequence")
	FieldLabel     = capitan.NewStringKey("label")
	FieldProvider  = capitan.NewStringKey("provider")

	FieldProviderSource = capitan.NewStringKey("provider_source") // step, context, global

	// Timing.
	FieldDuration = capitan.NewDurationKey("duration")

	// Error information.
	FieldError = capitan.NewErrorKey("error")
)
