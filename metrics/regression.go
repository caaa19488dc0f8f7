package metrics

import (
	"math"

	"github.com/YuminosukeSato/linclass/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError("MSE", n, vecLen(yPred), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}

	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError("R2Score", n, vecLen(yPred), 0)
	}

	// yTrueの平均を計算
	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		return 0, errors.NewZeroDivisionError("R2Score", "total sum of squares")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// vecLen は nil を長さ0として扱う
func vecLen(v mat.Vector) int {
	if v == nil {
		return 0
	}
	if vd, ok := v.(*mat.VecDense); ok && vd == nil {
		return 0
	}
	return v.Len()
}
