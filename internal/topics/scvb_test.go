package topics

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSCVB_RepeatableOnVectorizerCounts(t *testing.T) {
	var first mat.Matrix
	for run := 0; run < 5; run++ {
		// fresh counts each run so map-backed storage gets a new iteration order
		_, counts, err := NewVectorizer(0).FitTransform(article)
		if err != nil {
			t.Fatalf("FitTransform failed: %v", err)
		}
		model := NewSCVB(3, DefaultSeed, 0)
		if err := model.Fit(counts); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if first == nil {
			first = mat.DenseCopyOf(model.Components())
			continue
		}
		if !mat.Equal(first, model.Components()) {
			t.Fatalf("run %d components differ from run 0", run)
		}
	}
}

func TestSCVB_RejectsNonPositiveTopics(t *testing.T) {
	if err := NewSCVB(0, DefaultSeed, 0).Fit(mat.NewDense(2, 1, []float64{1, 1})); !errors.Is(err, ErrInput) {
		t.Errorf("Fit error = %v, want ErrInput", err)
	}
}

func TestTopWords_RejectsNonFiniteWeights(t *testing.T) {
	vocab := &Vocabulary{Terms: []string{"solar", "wind"}, Index: map[string]int{"solar": 0, "wind": 1}, Counts: []int{2, 1}}
	tests := []struct {
		name   string
		weight float64
	}{
		{name: "NaN", weight: math.NaN()},
		{name: "+Inf", weight: math.Inf(1)},
		{name: "-Inf", weight: math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := mat.NewDense(1, 2, []float64{1, tt.weight})
			if _, err := topWords(components, vocab, 1, 5); !errors.Is(err, ErrModelFit) {
				t.Errorf("topWords error = %v, want ErrModelFit", err)
			}
		})
	}
}
