package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// BinaryLogLoss は二値交差エントロピーの平均。yProb は正例の確率で、
// [1e-15, 1-1e-15] にクリップしてから対数を取る。
func BinaryLogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	if yTrue == nil || yProb == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("BinaryLogLoss", "empty vector")
	}
	n := yTrue.Len()
	if yProb.Len() != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", "probabilities length mismatch", n, yProb.Len())
	}
	var sum float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be 0 or 1")
		}
		p := clipProb(yProb.AtVec(i))
		sum -= y*math.Log(p) + (1-y)*math.Log(1-p)
	}
	return sum / float64(n), nil
}

func checkProbRows(op string, gold []int, probs mat.Matrix) (int, error) {
	if len(gold) == 0 || probs == nil {
		return 0, errors.NewValueError(op, "empty input")
	}
	r, c := probs.Dims()
	if r != len(gold) {
		return 0, errors.NewDimensionError(op, "probability rows mismatch", len(gold), r)
	}
	for _, g := range gold {
		if g < 0 || g >= c {
			return 0, errors.NewValueError(op, "label index out of range")
		}
	}
	return c, nil
}

// LogLoss は多クラス交差エントロピーの平均。probs は n×L で、
// 行 i が i番目のインスタンスのラベル分布。
func LogLoss(gold []int, probs mat.Matrix) (float64, error) {
	if _, err := checkProbRows("LogLoss", gold, probs); err != nil {
		return 0, err
	}
	var sum float64
	for i, g := range gold {
		sum -= math.Log(clipProb(probs.At(i, g)))
	}
	return sum / float64(len(gold)), nil
}

// BrierScore は確率とone-hot正解の二乗誤差の行ごとの和を平均したもの
//
//	(1/n) Σ_i Σ_l (p_il - 1[l == gold_i])²
func BrierScore(gold []int, probs mat.Matrix) (float64, error) {
	c, err := checkProbRows("BrierScore", gold, probs)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i, g := range gold {
		for l := 0; l < c; l++ {
			target := 0.0
			if l == g {
				target = 1
			}
			diff := probs.At(i, l) - target
			sum += diff * diff
		}
	}
	return sum / float64(len(gold)), nil
}
