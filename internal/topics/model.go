package topics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Model is a topic model fitted over a features x documents count matrix.
type Model interface {
	// Fit learns the topic-word weights from counts.
	Fit(counts mat.Matrix) error
	// Components returns the topics x terms weight matrix of a fitted model.
	Components() mat.Matrix
}

// ModelCtor builds an unfitted model with k topics.
type ModelCtor func(k int, opts Options) Model

var engines = map[string]ModelCtor{
	EngineBatch: func(k int, opts Options) Model { return NewBatchLDA(k, opts.Seed, opts.MaxIter) },
	EngineSCVB:  func(k int, opts Options) Model { return NewSCVB(k, opts.Seed, opts.MaxIter) },
}

const (
	// EngineBatch is batch variational Bayes LDA.
	EngineBatch = "batch"
	// EngineSCVB is stochastic collapsed variational Bayes LDA.
	EngineSCVB = "scvb"
)

// Engines lists the registered engine names in sorted order.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupEngine(name string) (ModelCtor, error) {
	if name == "" {
		name = EngineBatch
	}
	ctor, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown topic engine %q (have %v)", name, Engines())
	}
	return ctor, nil
}
