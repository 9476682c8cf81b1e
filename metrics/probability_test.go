package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLogLoss(t *testing.T) {
	probs := mat.NewDense(3, 3, []float64{
		0.8, 0.1, 0.1,
		0.2, 0.5, 0.3,
		0.0, 0.0, 1.0,
	})
	got, err := LogLoss([]int{0, 1, 2}, probs)
	if err != nil {
		t.Fatalf("LogLoss() error = %v", err)
	}
	want := -(math.Log(0.8) + math.Log(0.5) + math.Log(1-probClip)) / 3
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("LogLoss() = %v, want %v", got, want)
	}

	// a zero probability on the gold label is clipped, not infinite
	got, err = LogLoss([]int{0}, mat.NewDense(1, 2, []float64{0, 1}))
	if err != nil || math.IsInf(got, 0) {
		t.Errorf("LogLoss() = %v, %v", got, err)
	}

	if _, err := LogLoss([]int{0, 1}, probs); err == nil {
		t.Error("expected row mismatch error")
	}
	if _, err := LogLoss([]int{0, 1, 3}, probs); err == nil {
		t.Error("expected out-of-range error")
	}
	if _, err := LogLoss(nil, probs); err == nil {
		t.Error("expected empty input error")
	}
}

func TestBrierScore(t *testing.T) {
	tests := []struct {
		name  string
		gold  []int
		probs *mat.Dense
		want  float64
	}{
		{
			name:  "perfect",
			gold:  []int{0, 1},
			probs: mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
			want:  0,
		},
		{
			name:  "uniform",
			gold:  []int{0, 1},
			probs: mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5}),
			want:  0.5, // (0.25 + 0.25) per row
		},
		{
			name:  "confidently wrong",
			gold:  []int{2},
			probs: mat.NewDense(1, 3, []float64{1, 0, 0}),
			want:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BrierScore(tt.gold, tt.probs)
			if err != nil {
				t.Fatalf("BrierScore() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("BrierScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClipProb(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, probClip},
		{-0.5, probClip},
		{0.3, 0.3},
		{1, 1 - probClip},
	}
	for _, tt := range tests {
		if got := clipProb(tt.in); got != tt.want {
			t.Errorf("clipProb(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
