package topics

import (
	"fmt"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// SCVB wraps the stochastic collapsed variational Bayes LDA from the nlp
// package. It runs on a single process so results stay reproducible.
type SCVB struct {
	k   int
	lda *nlp.LatentDirichletAllocation
}

// NewSCVB creates an SCVB model with k topics seeded with seed.
// maxIter <= 0 keeps the package default.
func NewSCVB(k int, seed uint64, maxIter int) *SCVB {
	s := &SCVB{k: k}
	if k < 1 {
		return s
	}
	lda := nlp.NewLatentDirichletAllocation(k)
	lda.Rnd = rand.New(rand.NewSource(seed))
	lda.Processes = 1
	if maxIter > 0 {
		lda.Iterations = maxIter
	}
	s.lda = lda
	return s
}

// Fit trains the model on a features x documents matrix. Sparse input is
// copied to a dense matrix first: the updates are sequential and a sparse
// matrix converted by the package walks its elements in map order.
func (s *SCVB) Fit(counts mat.Matrix) error {
	if s.lda == nil {
		return fmt.Errorf("%w: topic count must be positive, got %d", ErrInput, s.k)
	}
	if _, err := s.lda.FitTransform(mat.DenseCopyOf(counts)); err != nil {
		return fmt.Errorf("%w: %v", ErrModelFit, err)
	}
	return nil
}

// Components returns the topics x terms matrix, nil before Fit.
func (s *SCVB) Components() mat.Matrix {
	if s.lda == nil {
		return nil
	}
	return s.lda.Components()
}
