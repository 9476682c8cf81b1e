// Package metrics は分類器の評価指標を提供します。
//
// ラベルはLabelMapのインデックス（0..L-1）で渡します。スコアと確率は
// gonum の mat 型で受け取ります。
package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

func checkPair(op string, gold, pred []int) error {
	if len(gold) == 0 {
		return errors.NewValueError(op, "empty label slice")
	}
	if len(pred) != len(gold) {
		return errors.NewDimensionError(op, "predictions length mismatch", len(gold), len(pred))
	}
	return nil
}

// Accuracy は正解率を [0, 1] で返す
func Accuracy(gold, pred []int) (float64, error) {
	if err := checkPair("Accuracy", gold, pred); err != nil {
		return 0, err
	}
	correct := 0
	for i := range gold {
		if gold[i] == pred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(gold)), nil
}

// ClassificationError は 1 - Accuracy を返す
func ClassificationError(gold, pred []int) (float64, error) {
	acc, err := Accuracy(gold, pred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix は numLabels×numLabels の混同行列を返す。
// 行が正解ラベル、列が予測ラベル。
func ConfusionMatrix(gold, pred []int, numLabels int) (*mat.Dense, error) {
	if err := checkPair("ConfusionMatrix", gold, pred); err != nil {
		return nil, err
	}
	if numLabels < 1 {
		return nil, errors.NewValidationError("numLabels", "must be positive", numLabels)
	}
	cm := mat.NewDense(numLabels, numLabels, nil)
	for i := range gold {
		g, p := gold[i], pred[i]
		if g < 0 || g >= numLabels || p < 0 || p >= numLabels {
			return nil, errors.NewValueError("ConfusionMatrix", "label index out of range")
		}
		cm.Set(g, p, cm.At(g, p)+1)
	}
	return cm, nil
}

// LabelScore は1ラベル分の適合率・再現率・F1
type LabelScore struct {
	Label     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// PerLabel は混同行列からラベルごとのスコアを計算する。
// 分母が0の場合は0を返す。
func PerLabel(cm mat.Matrix) []LabelScore {
	r, _ := cm.Dims()
	scores := make([]LabelScore, r)
	for l := 0; l < r; l++ {
		tp := cm.At(l, l)
		goldTotal, predTotal := 0.0, 0.0
		for k := 0; k < r; k++ {
			goldTotal += cm.At(l, k)
			predTotal += cm.At(k, l)
		}
		s := LabelScore{Label: l, Support: int(goldTotal)}
		if predTotal > 0 {
			s.Precision = tp / predTotal
		}
		if goldTotal > 0 {
			s.Recall = tp / goldTotal
		}
		if s.Precision+s.Recall > 0 {
			s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
		}
		scores[l] = s
	}
	return scores
}

// MacroF1 はサポートが1以上のラベルのF1の平均
func MacroF1(scores []LabelScore) float64 {
	sum, n := 0.0, 0
	for _, s := range scores {
		if s.Support == 0 {
			continue
		}
		sum += s.F1
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AUC は二値分類のROC曲線下面積を計算する。
// yTrue は 0/1、yScore は正例らしさのスコア。同点は平均順位で扱う。
// 片方のクラスしかない場合は0.5を返す。
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	if yTrue == nil || yScore == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}
	n := yTrue.Len()
	if yScore.Len() != n {
		return 0, errors.NewDimensionError("AUC", "scores length mismatch", n, yScore.Len())
	}

	labels := make([]float64, n)
	scores := make([]float64, n)
	nPos := 0
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("AUC", "labels must be 0 or 1")
		}
		labels[i] = y
		scores[i] = yScore.AtVec(i)
		if y == 1 {
			nPos++
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		return 0.5, nil
	}

	// 昇順に並べ、同点グループに平均順位を与える
	inds := make([]int, n)
	floats.Argsort(scores, inds)
	rankSum := 0.0
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[j+1] == scores[i] {
			j++
		}
		rank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			if labels[inds[k]] == 1 {
				rankSum += rank
			}
		}
		i = j + 1
	}
	u := rankSum - float64(nPos*(nPos+1))/2
	return u / float64(nPos*nNeg), nil
}

// probClip はlog(0)を避けるための下限
const probClip = 1e-15

func clipProb(p float64) float64 {
	return errors.ClipValue(p, probClip, 1-probClip)
}
