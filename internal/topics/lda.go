package topics

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	defaultBatchIter     = 10
	defaultDocUpdateIter = 100
	defaultMeanChangeTol = 1e-3
	// Variational parameters start around 1 with a small spread.
	initShape = 100.0
	initRate  = 100.0
	// Keeps the normaliser away from zero.
	phiEpsilon = 1e-100
)

// BatchLDA is Latent Dirichlet Allocation fitted with batch variational
// Bayes. Every EM iteration runs the document E-step over the whole corpus
// and replaces the topic-word parameters with prior + expected counts.
type BatchLDA struct {
	K                int
	DocTopicPrior    float64
	TopicWordPrior   float64
	MaxIter          int
	MaxDocUpdateIter int
	MeanChangeTol    float64
	Src              rand.Source

	components *mat.Dense
}

// NewBatchLDA creates a model with k topics, symmetric 1/k priors and a
// source seeded with seed. maxIter <= 0 selects the default of 10.
func NewBatchLDA(k int, seed uint64, maxIter int) *BatchLDA {
	if maxIter <= 0 {
		maxIter = defaultBatchIter
	}
	prior := 0.0
	if k > 0 {
		prior = 1 / float64(k)
	}
	return &BatchLDA{
		K:                k,
		DocTopicPrior:    prior,
		TopicWordPrior:   prior,
		MaxIter:          maxIter,
		MaxDocUpdateIter: defaultDocUpdateIter,
		MeanChangeTol:    defaultMeanChangeTol,
		Src:              rand.NewSource(seed),
	}
}

// Fit estimates the topic-word parameters from a features x documents matrix.
func (l *BatchLDA) Fit(counts mat.Matrix) error {
	if l.K < 1 {
		return fmt.Errorf("%w: topic count must be positive, got %d", ErrInput, l.K)
	}
	nTerms, nDocs := counts.Dims()
	if nTerms == 0 || nDocs == 0 {
		return fmt.Errorf("%w: empty count matrix", ErrInput)
	}

	gamma := distuv.Gamma{Alpha: initShape, Beta: initRate, Src: l.Src}
	lambda := mat.NewDense(l.K, nTerms, nil)
	for k := 0; k < l.K; k++ {
		for w := 0; w < nTerms; w++ {
			lambda.Set(k, w, gamma.Rand())
		}
	}

	docs := make([]sparseDoc, nDocs)
	for d := range docs {
		docs[d] = columnOf(counts, d)
	}

	expElogBeta := mat.NewDense(l.K, nTerms, nil)
	sstats := mat.NewDense(l.K, nTerms, nil)
	for iter := 0; iter < l.MaxIter; iter++ {
		expDirichletRows(lambda, expElogBeta)
		sstats.Zero()
		for _, doc := range docs {
			l.inferDocument(doc, gamma, expElogBeta, sstats)
		}
		for k := 0; k < l.K; k++ {
			for w := 0; w < nTerms; w++ {
				lambda.Set(k, w, l.TopicWordPrior+sstats.At(k, w))
			}
		}
	}

	for k := 0; k < l.K; k++ {
		for w := 0; w < nTerms; w++ {
			if v := lambda.At(k, w); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite weight for topic %d term %d", ErrModelFit, k, w)
			}
		}
	}
	l.components = lambda
	return nil
}

// Components returns the topics x terms matrix, nil before Fit.
func (l *BatchLDA) Components() mat.Matrix {
	if l.components == nil {
		return nil
	}
	return l.components
}

// inferDocument runs the per-document E-step and accumulates the expected
// topic-word counts into sstats.
func (l *BatchLDA) inferDocument(doc sparseDoc, gamma distuv.Gamma, expElogBeta, sstats *mat.Dense) {
	theta := make([]float64, l.K)
	for k := range theta {
		theta[k] = gamma.Rand()
	}
	expElogTheta := expDirichlet(theta)
	phinorm := make([]float64, len(doc.ids))
	last := make([]float64, l.K)

	for it := 0; it < l.MaxDocUpdateIter; it++ {
		copy(last, theta)
		normalisePhi(doc, expElogTheta, expElogBeta, phinorm)
		for k := range theta {
			sum := 0.0
			for j, w := range doc.ids {
				sum += doc.counts[j] / phinorm[j] * expElogBeta.At(k, w)
			}
			theta[k] = l.DocTopicPrior + expElogTheta[k]*sum
		}
		expElogTheta = expDirichlet(theta)
		if meanAbsChange(last, theta) < l.MeanChangeTol {
			break
		}
	}

	normalisePhi(doc, expElogTheta, expElogBeta, phinorm)
	for k := range theta {
		for j, w := range doc.ids {
			v := doc.counts[j] * (expElogTheta[k] * expElogBeta.At(k, w)) / phinorm[j]
			sstats.Set(k, w, sstats.At(k, w)+v)
		}
	}
}

type sparseDoc struct {
	ids    []int
	counts []float64
}

func columnOf(m mat.Matrix, col int) sparseDoc {
	rows, _ := m.Dims()
	var doc sparseDoc
	for r := 0; r < rows; r++ {
		if v := m.At(r, col); v != 0 {
			doc.ids = append(doc.ids, r)
			doc.counts = append(doc.counts, v)
		}
	}
	return doc
}

func normalisePhi(doc sparseDoc, expElogTheta []float64, expElogBeta *mat.Dense, out []float64) {
	for j, w := range doc.ids {
		sum := 0.0
		for k, t := range expElogTheta {
			sum += t * expElogBeta.At(k, w)
		}
		out[j] = sum + phiEpsilon
	}
}

// expDirichlet returns exp(E[log x]) for x ~ Dirichlet(alpha).
func expDirichlet(alpha []float64) []float64 {
	total := 0.0
	for _, a := range alpha {
		total += a
	}
	psiTotal := mathext.Digamma(total)
	out := make([]float64, len(alpha))
	for i, a := range alpha {
		out[i] = math.Exp(mathext.Digamma(a) - psiTotal)
	}
	return out
}

// expDirichletRows applies expDirichlet to each row of src, writing into dst.
func expDirichletRows(src, dst *mat.Dense) {
	rows, _ := src.Dims()
	for r := 0; r < rows; r++ {
		dst.SetRow(r, expDirichlet(src.RawRowView(r)))
	}
}

func meanAbsChange(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum / float64(len(a))
}
