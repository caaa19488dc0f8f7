package metrics

import (
	"github.com/YuminosukeSato/linclass/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// 二値分類のラベル。0 は決定境界上の点に対する予測値で、どちらのクラスにも数えない
const (
	PositiveLabel = 1.0
	NegativeLabel = -1.0
)

// BinaryConfusion は ±1 ラベルに対する混同行列
type BinaryConfusion struct {
	TruePositive  int
	FalsePositive int
	FalseNegative int
	TrueNegative  int
	// Undecided は予測が0（境界上）だった件数
	Undecided int
	Total     int
}

// ClassificationReport は学習・評価時の分類指標をまとめたもの
type ClassificationReport struct {
	Accuracy  float64         `json:"accuracy"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1Score   float64         `json:"f1_score"`
	Confusion BinaryConfusion `json:"-"`
}

// Confusion は yTrue と yPred から混同行列を数える
func Confusion(yTrue, yPred mat.Vector) (BinaryConfusion, error) {
	n, err := checkPair("Confusion", yTrue, yPred)
	if err != nil {
		return BinaryConfusion{}, err
	}

	c := BinaryConfusion{Total: n}
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		switch {
		case p == 0:
			c.Undecided++
		case t == PositiveLabel && p == PositiveLabel:
			c.TruePositive++
		case t == NegativeLabel && p == PositiveLabel:
			c.FalsePositive++
		case t == PositiveLabel && p == NegativeLabel:
			c.FalseNegative++
		case t == NegativeLabel && p == NegativeLabel:
			c.TrueNegative++
		}
	}
	return c, nil
}

// Accuracy は予測が正解と一致した割合を計算する
func Accuracy(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は 1 - Accuracy を計算する
func ClassificationError(yTrue, yPred mat.Vector) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// Precision は TP / (TP + FP)。陽性予測が無い場合は警告を出して0を返す
func (c BinaryConfusion) Precision() float64 {
	denom := c.TruePositive + c.FalsePositive
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positive samples", 0))
		return 0
	}
	return float64(c.TruePositive) / float64(denom)
}

// Recall は TP / (TP + FN)。陽性サンプルが無い場合は警告を出して0を返す
func (c BinaryConfusion) Recall() float64 {
	denom := c.TruePositive + c.FalseNegative
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positive samples", 0))
		return 0
	}
	return float64(c.TruePositive) / float64(denom)
}

// Report は混同行列から指標を計算する
func (c BinaryConfusion) Report() ClassificationReport {
	r := ClassificationReport{Confusion: c}
	if c.Total > 0 {
		r.Accuracy = float64(c.TruePositive+c.TrueNegative) / float64(c.Total)
	}
	r.Precision = c.Precision()
	r.Recall = c.Recall()
	if sum := r.Precision + r.Recall; sum > 0 {
		r.F1Score = 2 * r.Precision * r.Recall / sum
	}
	return r
}

// Classification は yTrue と yPred の分類指標を計算する
func Classification(yTrue, yPred mat.Vector) (ClassificationReport, error) {
	c, err := Confusion(yTrue, yPred)
	if err != nil {
		return ClassificationReport{}, err
	}
	return c.Report(), nil
}

func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError(op, n, vecLen(yPred), 0)
	}
	return n, nil
}
