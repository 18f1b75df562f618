package topics

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 1000

// tokenPattern matches runs of at least two word characters, so digits and
// alphanumeric terms such as "covid19" survive as single tokens.
const tokenPattern = `[\p{L}\p{M}\p{N}_]{2,}`

// Vocabulary maps terms to their column index. Index order is descending
// frequency, ties broken by first occurrence in the text.
type Vocabulary struct {
	Terms  []string
	Index  map[string]int
	Counts []int
}

// Len returns the number of terms in the vocabulary.
func (v *Vocabulary) Len() int { return len(v.Terms) }

// Vectorizer turns one document into a capped vocabulary and its
// term-frequency counts.
type Vectorizer struct {
	maxFeatures int
	stopwords   map[string]bool
}

// NewVectorizer creates a vectorizer using the English stop-word list.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	stop := make(map[string]bool, len(EnglishStopWords))
	for _, w := range EnglishStopWords {
		stop[w] = true
	}
	return &Vectorizer{maxFeatures: maxFeatures, stopwords: stop}
}

// FitTransform builds the vocabulary from text and returns it together with
// the features x documents count matrix (a single column).
func (v *Vectorizer) FitTransform(text string) (*Vocabulary, mat.Matrix, error) {
	lower := strings.ToLower(text)
	counter := nlp.NewCountVectoriser()
	counter.Tokeniser = &nlp.RegExpTokeniser{RegExp: regexp.MustCompile(tokenPattern), StopWords: v.stopwords}

	freq := make(map[string]int)
	var seen []string
	counter.Tokeniser.ForEachIn(lower, func(tok string) {
		if _, ok := freq[tok]; !ok {
			seen = append(seen, tok)
		}
		freq[tok]++
	})
	if len(seen) == 0 {
		return nil, nil, fmt.Errorf("%w: no usable terms after stop-word removal", ErrInput)
	}

	terms := append([]string(nil), seen...)
	sort.SliceStable(terms, func(i, j int) bool { return freq[terms[i]] > freq[terms[j]] })
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	vocab := &Vocabulary{
		Terms:  terms,
		Index:  make(map[string]int, len(terms)),
		Counts: make([]int, len(terms)),
	}
	for i, t := range terms {
		vocab.Index[t] = i
		vocab.Counts[i] = freq[t]
	}

	counter.Vocabulary = vocab.Index
	counts, err := counter.Transform(lower)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: count terms: %v", ErrInput, err)
	}
	return vocab, counts, nil
}
