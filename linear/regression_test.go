package linear

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/linclass/pkg/errors"
	"github.com/YuminosukeSato/linclass/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func quietLeastSquares(opts ...Option) *LeastSquares {
	logger, _ := log.NewTestLogger(log.LevelError)
	return NewLeastSquares(append([]Option{WithLogger(logger)}, opts...)...)
}

func TestLeastSquaresExactFit(t *testing.T) {
	// y = 1 + 2*x1 - 3*x2
	X := mat.NewDense(5, 3, []float64{
		1, 0, 0,
		1, 1, 0,
		1, 0, 1,
		1, 2, 1,
		1, 3, 2,
	})
	y := mat.NewVecDense(5, []float64{1, 3, -2, 2, 1})

	for _, method := range []Method{MethodNormal, MethodSVD} {
		t.Run(method.String(), func(t *testing.T) {
			ls := quietLeastSquares(WithMethod(method))
			w, err := ls.FitWeights(X, y)
			require.NoError(t, err)

			assert.InDeltaSlice(t, []float64{1, 2, -3}, w, 1e-9)
			assert.InDelta(t, 0.0, ls.MSE(), 1e-12)
			assert.InDelta(t, 1.0, ls.R2(), 1e-12)
			assert.Equal(t, 3, ls.Rank())
			assert.True(t, ls.IsFitted())
		})
	}
}

func TestLeastSquaresSingularFallsBackToSVD(t *testing.T) {
	// 3列目は2列目の2倍なので X^T X は特異
	X := mat.NewDense(4, 3, []float64{
		1, 1, 2,
		1, 2, 4,
		1, 3, 6,
		1, 4, 8,
	})
	y := mat.NewVecDense(4, []float64{3, 5, 7, 9})

	logger, _ := log.NewTestLogger(log.LevelDebug)
	ls := NewLeastSquares(WithLogger(logger))
	w, err := ls.FitWeights(X, y)
	require.NoError(t, err)
	require.Len(t, w, 3)

	assert.Equal(t, 2, ls.Rank())
	assert.InDelta(t, 0.0, ls.MSE(), 1e-9)
	assert.True(t, logger.ContainsField(log.MethodKey, "svd"))

	// 最小ノルム解: w1 + 2*w2 = 2 を満たし w1:w2 = 1:2
	assert.InDelta(t, 1.0, w[0], 1e-9)
	assert.InDelta(t, 0.4, w[1], 1e-9)
	assert.InDelta(t, 0.8, w[2], 1e-9)
}

func TestLeastSquaresUnderdetermined(t *testing.T) {
	X := mat.NewDense(1, 2, []float64{1, 1})
	y := mat.NewVecDense(1, []float64{2})

	ls := quietLeastSquares()
	w, err := ls.FitWeights(X, y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1}, w, 1e-9)
	assert.Equal(t, 1, ls.Rank())
	// y が定数なので R² は 0
	assert.Equal(t, 0.0, ls.R2())
}

func TestLeastSquaresErrors(t *testing.T) {
	ls := quietLeastSquares()

	_, err := ls.FitWeights(mat.NewDense(3, 2, []float64{1, 0, 1, 1, 1, 2}), mat.NewVecDense(2, []float64{1, 2}))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 0, dimErr.Axis)

	_, err = ls.FitWeights(mat.NewDense(2, 2, nil), mat.NewVecDense(2, []float64{1, 2}))
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
	assert.False(t, ls.IsFitted())

	_, err = ls.FitWeights(mat.NewDense(2, 2, []float64{1, 0, 0, 1}), mat.NewVecDense(2, []float64{math.Inf(1), 1}))
	var numErr *errors.NumericalInstabilityError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, "LeastSquares.FitWeights", numErr.Operation)
	assert.False(t, ls.IsFitted())
}

func TestLeastSquaresRegressor(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 0, 1, 1, 1, 2})
	y := mat.NewDense(3, 1, []float64{1, 3, 5})

	ls := quietLeastSquares()
	_, err := ls.Predict(X)
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted))

	require.NoError(t, ls.Fit(X, y))
	assert.InDeltaSlice(t, []float64{1, 2}, ls.Weights(), 1e-9)

	pred, err := ls.Predict(X)
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)
	assert.InDelta(t, 5.0, pred.At(2, 0), 1e-9)

	_, err = ls.Predict(mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	var valErr *errors.ValueError
	assert.True(t, errors.As(ls.Fit(X, mat.NewDense(3, 2, nil)), &valErr))
}
