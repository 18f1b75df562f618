package topics

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestBatchLDA_SingleTopicIsPriorPlusCounts(t *testing.T) {
	counts := mat.NewDense(4, 1, []float64{3, 2, 2, 1})
	lda := NewBatchLDA(1, DefaultSeed, 0)
	if err := lda.Fit(counts); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	comp := lda.Components()
	for w := 0; w < 4; w++ {
		want := 1 + counts.At(w, 0)
		if got := comp.At(0, w); got != want {
			t.Errorf("component[0][%d] = %v, want %v", w, got, want)
		}
	}
}

func TestBatchLDA_ExpectedCountsAreConserved(t *testing.T) {
	counts := mat.NewDense(6, 1, []float64{4, 3, 3, 2, 1, 1})
	lda := NewBatchLDA(3, DefaultSeed, 0)
	if err := lda.Fit(counts); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	comp := lda.Components()
	k, terms := comp.Dims()
	if k != 3 || terms != 6 {
		t.Fatalf("components dims = %dx%d, want 3x6", k, terms)
	}
	// Each term's expected count is split across topics on top of the prior.
	for w := 0; w < terms; w++ {
		sum := 0.0
		for topic := 0; topic < k; topic++ {
			sum += comp.At(topic, w) - lda.TopicWordPrior
		}
		if math.Abs(sum-counts.At(w, 0)) > 1e-9 {
			t.Errorf("term %d expected count = %v, want %v", w, sum, counts.At(w, 0))
		}
	}
}

func TestBatchLDA_Deterministic(t *testing.T) {
	counts := mat.NewDense(5, 1, []float64{5, 1, 2, 2, 7})
	a := NewBatchLDA(2, DefaultSeed, 0)
	b := NewBatchLDA(2, DefaultSeed, 0)
	if err := a.Fit(counts); err != nil {
		t.Fatalf("Fit a failed: %v", err)
	}
	if err := b.Fit(counts); err != nil {
		t.Fatalf("Fit b failed: %v", err)
	}
	if !mat.Equal(a.Components(), b.Components()) {
		t.Errorf("components differ for the same seed")
	}
}

func TestBatchLDA_RejectsNonPositiveTopics(t *testing.T) {
	for _, k := range []int{0, -2} {
		err := NewBatchLDA(k, DefaultSeed, 0).Fit(mat.NewDense(1, 1, []float64{1}))
		if !errors.Is(err, ErrInput) {
			t.Errorf("Fit with k=%d error = %v, want ErrInput", k, err)
		}
	}
}

func TestBatchLDA_ComponentsBeforeFit(t *testing.T) {
	if c := NewBatchLDA(2, DefaultSeed, 0).Components(); c != nil {
		t.Errorf("Components before Fit = %v, want nil", c)
	}
}
