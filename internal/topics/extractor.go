// Package topics extracts keyword topics from a single block of text by
// fitting a Latent Dirichlet Allocation model over its term counts.
package topics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"topictag/internal/domain"
)

const (
	// DefaultTopics is the topic count used when callers do not choose one.
	DefaultTopics = 3
	// DefaultTopWords is the number of words kept per topic.
	DefaultTopWords = 5
	// DefaultSeed makes repeated extractions reproducible.
	DefaultSeed uint64 = 42
)

// Options tunes the extractor. Zero values select defaults.
type Options struct {
	Engine      string
	MaxFeatures int
	TopWords    int
	Seed        uint64
	MaxIter     int
}

// Extractor implements domain.TopicExtractor. It keeps no state between
// calls; vocabulary and model are rebuilt for every text.
type Extractor struct {
	opts     Options
	newModel ModelCtor
}

// NewExtractor validates opts and returns an extractor.
func NewExtractor(opts Options) (*Extractor, error) {
	ctor, err := lookupEngine(opts.Engine)
	if err != nil {
		return nil, err
	}
	if opts.Engine == "" {
		opts.Engine = EngineBatch
	}
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}
	if opts.TopWords <= 0 {
		opts.TopWords = DefaultTopWords
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	return &Extractor{opts: opts, newModel: ctor}, nil
}

// Options returns the effective options after defaults were applied.
func (e *Extractor) Options() Options { return e.opts }

// Extract returns nTopics descriptors in model order, each holding the
// highest weighted terms of that topic.
func (e *Extractor) Extract(text string, nTopics int) ([]domain.TopicDescriptor, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInput)
	}
	if nTopics < 1 {
		return nil, fmt.Errorf("%w: topic count must be positive, got %d", ErrInput, nTopics)
	}
	vocab, counts, err := NewVectorizer(e.opts.MaxFeatures).FitTransform(text)
	if err != nil {
		return nil, err
	}
	model := e.newModel(nTopics, e.opts)
	if err := model.Fit(counts); err != nil {
		return nil, err
	}
	return topWords(model.Components(), vocab, nTopics, e.opts.TopWords)
}

// topWords ranks every topic's terms by descending weight. Equal weights
// keep vocabulary order.
func topWords(components mat.Matrix, vocab *Vocabulary, nTopics, n int) ([]domain.TopicDescriptor, error) {
	if components == nil {
		return nil, fmt.Errorf("%w: model has no components", ErrModelFit)
	}
	k, terms := components.Dims()
	if k != nTopics || terms != vocab.Len() {
		return nil, fmt.Errorf("%w: components are %dx%d, want %dx%d", ErrModelFit, k, terms, nTopics, vocab.Len())
	}
	if n > terms {
		n = terms
	}
	out := make([]domain.TopicDescriptor, k)
	for t := 0; t < k; t++ {
		weights := make([]float64, terms)
		idx := make([]int, terms)
		for w := range idx {
			weights[w] = components.At(t, w)
			if math.IsNaN(weights[w]) || math.IsInf(weights[w], 0) {
				return nil, fmt.Errorf("%w: non-finite weight for topic %d", ErrModelFit, t)
			}
			idx[w] = w
		}
		sort.SliceStable(idx, func(i, j int) bool { return weights[idx[i]] > weights[idx[j]] })
		words := make([]string, n)
		for i := range words {
			words[i] = vocab.Terms[idx[i]]
		}
		out[t] = domain.TopicDescriptor{Topic: t, Words: words}
	}
	return out, nil
}
