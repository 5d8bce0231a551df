package galois

import "github.com/zoobzio/zyn"

// Default configuration for galois steps.
// These can be overridden per-step using builder methods.
var (
	// DefaultAlgorithm is the generator selected by NewGenerator("").
	DefaultAlgorithm = AlgorithmInClose

	// DefaultWorkers bounds the number of subtrees ParallelInClose searches at
	// once. Zero means runtime.GOMAXPROCS(0).
	DefaultWorkers = 0

	// DefaultLabelTemperature is used for the transform synapse that names
	// concepts. Defaults to creative for more readable names.
	DefaultLabelTemperature = zyn.DefaultTemperatureCreative

	// DefaultLabelStyle guides the wording of concept labels.
	DefaultLabelStyle = "a short noun phrase of at most four words, no punctuation"
)
