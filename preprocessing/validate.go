package preprocessing

import "github.com/YuminosukeSato/linclass/pkg/errors"

// CheckSamples は学習データの形状を検証し、サンプル数と列数を返す
//
//   - X が空、または列が無い場合: ModelError (ErrEmptyData)
//   - len(y) != len(X): DimensionError (axis 0)
//   - 行の長さが揃っていない場合: DimensionError (axis 1)
func CheckSamples(op string, X [][]float64, y []float64) (n, d int, err error) {
	if len(X) == 0 || len(X[0]) == 0 {
		if len(X) != len(y) {
			return 0, 0, errors.NewDimensionError(op, len(X), len(y), 0)
		}
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(y) != len(X) {
		return 0, 0, errors.NewDimensionError(op, len(X), len(y), 0)
	}

	d = len(X[0])
	if err := CheckRows(op, X, d); err != nil {
		return 0, 0, err
	}
	return len(X), d, nil
}

// CheckRows は全ての行が d 列であることを検証する
func CheckRows(op string, rows [][]float64, d int) error {
	for _, row := range rows {
		if len(row) != d {
			return errors.NewDimensionError(op, d, len(row), 1)
		}
	}
	return nil
}
