// Package preprocessing prepares feature rows for the linear models.
package preprocessing

import (
	"github.com/YuminosukeSato/linclass/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// BiasValue は先頭に追加するバイアス列の値
const BiasValue = 1.0

// AddBias は各行の先頭に 1 を追加した新しい行列を返す
// 入力は変更しない
//
// 使用例:
//
//	X := preprocessing.AddBias([][]float64{{0.5, 2}, {1, -1}})
//	// X == [][]float64{{1, 0.5, 2}, {1, 1, -1}}
func AddBias(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		r := make([]float64, len(row)+1)
		r[0] = BiasValue
		copy(r[1:], row)
		out[i] = r
	}
	return out
}

// AddBiasDense は X の左にバイアス列を追加する
func AddBiasDense(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, BiasValue)
		for j := 0; j < c; j++ {
			out.Set(i, j+1, X.At(i, j))
		}
	}
	return out
}

// ToDense は同じ長さの行を r x c の Dense にコピーする
// 行の長さが揃っていない場合は DimensionError を返す
func ToDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.NewModelError("preprocessing.ToDense", "empty data", errors.ErrEmptyData)
	}
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for _, row := range rows {
		if len(row) != c {
			return nil, errors.NewDimensionError("preprocessing.ToDense", c, len(row), 1)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), c, data), nil
}
