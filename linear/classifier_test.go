package linear

import (
	"math"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/linclass/pkg/errors"
	"github.com/YuminosukeSato/linclass/pkg/log"
	"github.com/YuminosukeSato/linclass/preprocessing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// makeBlobs は (±center, ±center) を中心とする 2 クラスのデータを生成する
// 戻り値の X はバイアス列を含む
func makeBlobs(n int, center, spread float64, seed uint64) ([][]float64, []float64) {
	rng := rand.New(rand.NewPCG(seed, seed))

	X := make([][]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		label := 1.0
		if i%2 == 1 {
			label = -1.0
		}
		x1 := label*center + rng.NormFloat64()*spread
		x2 := label*center + rng.NormFloat64()*spread
		X = append(X, []float64{x1, x2})
		y = append(y, label)
	}
	return preprocessing.AddBias(X), y
}

// stubFitter は決められた重みまたはエラーを返す WeightFitter
type stubFitter struct {
	w   []float64
	err error
}

func (s *stubFitter) FitWeights(X mat.Matrix, y mat.Vector) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]float64(nil), s.w...), nil
}

func newQuietClassifier(opts ...ClassifierOption) *LinearClassifier {
	logger, _ := log.NewTestLogger(log.LevelError)
	return NewLinearClassifier(append([]ClassifierOption{WithClassifierLogger(logger)}, opts...)...)
}

func fittedClassifier(t *testing.T, w []float64) *LinearClassifier {
	t.Helper()
	clf := newQuietClassifier()
	require.NoError(t, clf.SetWeights(w))
	return clf
}

func TestLinearClassifierFitSeparable(t *testing.T) {
	X, y := makeBlobs(200, 2.0, 0.5, 42)

	clf := newQuietClassifier()
	require.NoError(t, clf.Fit(X, y))
	require.True(t, clf.IsFitted())

	w := clf.Weights()
	require.Len(t, w, 3)

	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.95)

	report, err := clf.TrainingMetrics()
	require.NoError(t, err)
	assert.InDelta(t, acc, report.Accuracy, 1e-12)
	assert.Equal(t, 200, report.Confusion.Total)
}

func TestLinearClassifierMatchesNormalEquations(t *testing.T) {
	X := [][]float64{
		{1, 0, 0},
		{1, 1, 0},
		{1, 0, 1},
		{1, 1, 1},
	}
	y := []float64{-1, 1, 1, 1}

	clf := newQuietClassifier()
	require.NoError(t, clf.Fit(X, y))

	// (X^T X)^(-1) X^T y
	expected := []float64{-0.5, 1, 1}
	assert.InDeltaSlice(t, expected, clf.Weights(), 1e-9)
}

func TestPredictSignConsistency(t *testing.T) {
	X, y := makeBlobs(100, 1.0, 1.0, 7)
	clf := newQuietClassifier()
	require.NoError(t, clf.Fit(X, y))

	points, _ := makeBlobs(50, 0.5, 2.0, 99)
	labels, err := clf.Predict(points)
	require.NoError(t, err)
	require.Len(t, labels, len(points))

	w := clf.Weights()
	for i, p := range points {
		s := floats.Dot(w, p)
		want := 0.0
		if s > 0 {
			want = 1
		} else if s < 0 {
			want = -1
		}
		assert.Equal(t, want, labels[i], "point %d score %v", i, s)
	}

	scores, err := clf.DecisionFunction(points)
	require.NoError(t, err)
	for i, s := range scores {
		assert.Equal(t, floats.Dot(w, points[i]), s)
	}
}

func TestFitIdempotent(t *testing.T) {
	X, y := makeBlobs(80, 1.5, 0.8, 3)

	clf := newQuietClassifier()
	require.NoError(t, clf.Fit(X, y))
	first := clf.Weights()
	firstPred, err := clf.Predict(X)
	require.NoError(t, err)

	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, first, clf.Weights())

	secondPred, err := clf.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, firstPred, secondPred)
}

func TestFitReplacesWeights(t *testing.T) {
	solver := &stubFitter{w: []float64{1, 2, 3}}
	clf := newQuietClassifier(WithSolver(solver))

	X := [][]float64{{1, 0, 0}, {1, 1, 1}}
	y := []float64{-1, 1}

	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, []float64{1, 2, 3}, clf.Weights())

	solver.w = []float64{-1, 0.5, 4}
	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, []float64{-1, 0.5, 4}, clf.Weights())
}

func TestFitKeepsPreviousWeightsOnError(t *testing.T) {
	solver := &stubFitter{w: []float64{1, 2, 3}}
	clf := newQuietClassifier(WithSolver(solver))

	X := [][]float64{{1, 0, 0}, {1, 1, 1}}
	y := []float64{-1, 1}
	require.NoError(t, clf.Fit(X, y))

	solver.err = errors.NewModelError("stub", "singular matrix", errors.ErrSingularMatrix)
	err := clf.Fit(X, y)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
	assert.True(t, clf.IsFitted())
	assert.Equal(t, []float64{1, 2, 3}, clf.Weights())

	err = clf.Fit(X, []float64{1})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
	assert.Equal(t, []float64{1, 2, 3}, clf.Weights())
}

func TestFitSolverWrongLength(t *testing.T) {
	clf := newQuietClassifier(WithSolver(&stubFitter{w: []float64{1, 2}}))

	err := clf.Fit([][]float64{{1, 0, 0}, {1, 1, 1}}, []float64{-1, 1})
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
	assert.False(t, clf.IsFitted())
}

func TestFitErrors(t *testing.T) {
	tests := []struct {
		name     string
		X        [][]float64
		y        []float64
		wantAxis int
		wantDim  bool
	}{
		{
			name:     "label length mismatch",
			X:        [][]float64{{1, 0, 0}, {1, 1, 0}, {1, 0, 1}, {1, 1, 1}, {1, 2, 2}},
			y:        []float64{1, -1, 1, -1},
			wantDim:  true,
			wantAxis: 0,
		},
		{
			name:     "ragged rows",
			X:        [][]float64{{1, 0, 0}, {1, 1}},
			y:        []float64{1, -1},
			wantDim:  true,
			wantAxis: 1,
		},
		{
			name: "empty data",
			X:    [][]float64{},
			y:    []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := newQuietClassifier()
			err := clf.Fit(tt.X, tt.y)
			require.Error(t, err)
			assert.False(t, clf.IsFitted())
			assert.Nil(t, clf.Weights())

			if tt.wantDim {
				var dimErr *errors.DimensionError
				require.True(t, errors.As(err, &dimErr), "got %v", err)
				assert.Equal(t, tt.wantAxis, dimErr.Axis)
				return
			}
			assert.True(t, errors.Is(err, errors.ErrEmptyData))
		})
	}
}

func TestPredictBeforeFit(t *testing.T) {
	clf := newQuietClassifier()

	_, err := clf.Predict([][]float64{{1, 0, 0}})
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted))
	assert.Equal(t, "Predict", notFitted.Method)

	_, err = clf.DecisionBoundaryY([]float64{0}, 0)
	assert.True(t, errors.As(err, &notFitted))

	_, err = clf.TrainingMetrics()
	assert.True(t, errors.As(err, &notFitted))

	_, err = clf.ExportWeights()
	assert.True(t, errors.As(err, &notFitted))
}

func TestPredictZeroScore(t *testing.T) {
	clf := fittedClassifier(t, []float64{1, 2, 3})

	labels, err := clf.Predict([][]float64{
		{1, -0.5, 0}, // 1 - 1 + 0 = 0
		{0, 0, 0},
		{1, 1, 1},
		{1, -2, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, -1}, labels)
}

func TestPredictNaNScore(t *testing.T) {
	clf := fittedClassifier(t, []float64{1, 2, 3})

	labels, err := clf.Predict([][]float64{{1, math.NaN(), 0}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, labels)
}

func TestPredictEmptyAndDimension(t *testing.T) {
	clf := fittedClassifier(t, []float64{1, 2, 3})

	labels, err := clf.Predict([][]float64{})
	require.NoError(t, err)
	assert.Empty(t, labels)

	_, err = clf.Predict([][]float64{{1, 2}})
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 1, dimErr.Axis)
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

func TestPredictLargeBatch(t *testing.T) {
	X, y := makeBlobs(400, 1.0, 0.7, 11)
	clf := newQuietClassifier()
	require.NoError(t, clf.Fit(X, y))

	points, _ := makeBlobs(2500, 0.3, 1.5, 12)
	labels, err := clf.Predict(points)
	require.NoError(t, err)
	require.Len(t, labels, len(points))

	w := clf.Weights()
	for i, p := range points {
		assert.Equal(t, sign(floats.Dot(w, p)), labels[i])
	}
}

func TestDecisionBoundaryShift(t *testing.T) {
	clf := fittedClassifier(t, []float64{1, 2, 3})

	ys, err := clf.DecisionBoundaryY([]float64{0}, 0)
	require.NoError(t, err)
	assert.InDelta(t, -1.0/3.0, ys[0], 1e-12)

	ys, err = clf.DecisionBoundaryY([]float64{0}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ys[0])

	ys, err = clf.DecisionBoundary([]float64{0, 1, -1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1.0 / 3.0, -1.0, 1.0 / 3.0}, ys, 1e-12)

	ys, err = clf.DecisionBoundaryY(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, ys)
}

func TestDecisionBoundaryRoundTrip(t *testing.T) {
	X, y := makeBlobs(150, 1.2, 0.9, 5)
	clf := newQuietClassifier()
	require.NoError(t, clf.Fit(X, y))
	w := clf.Weights()

	xs := []float64{-3, -1.5, 0, 0.25, 2, 4}
	for _, shift := range []float64{0, 1, -1} {
		ys, err := clf.DecisionBoundaryY(xs, shift)
		require.NoError(t, err)
		for i, x := range xs {
			score := floats.Dot(w, []float64{1, x, ys[i]})
			assert.InDelta(t, shift, score, 1e-9, "x=%v shift=%v", x, shift)
		}
	}
}

func TestDecisionBoundaryErrors(t *testing.T) {
	_, err := fittedClassifier(t, []float64{1, 2, 0}).DecisionBoundaryY([]float64{0, 1}, 0)
	var zdErr *errors.ZeroDivisionError
	require.True(t, errors.As(err, &zdErr))
	assert.Equal(t, "w[2]", zdErr.Operand)

	_, err = fittedClassifier(t, []float64{1, 2}).DecisionBoundaryY([]float64{0}, 0)
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

func TestWeightsReturnsCopy(t *testing.T) {
	clf := fittedClassifier(t, []float64{1, 2, 3})

	w := clf.Weights()
	w[0] = 100
	assert.Equal(t, []float64{1, 2, 3}, clf.Weights())

	assert.Nil(t, newQuietClassifier().Weights())
}

func TestSetWeightsErrors(t *testing.T) {
	clf := newQuietClassifier()

	var valErr *errors.ValueError
	assert.True(t, errors.As(clf.SetWeights(nil), &valErr))

	var numErr *errors.NumericalInstabilityError
	assert.True(t, errors.As(clf.SetWeights([]float64{1, math.Inf(1), 0}), &numErr))
	assert.False(t, clf.IsFitted())
}

func TestScoreDimension(t *testing.T) {
	clf := fittedClassifier(t, []float64{0, 1, 1})

	_, err := clf.Score([][]float64{{1, 1, 1}}, []float64{1, -1})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	acc, err := clf.Score([][]float64{{1, 1, 1}, {1, -1, -1}}, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.5, acc)
}

func TestExportImportWeights(t *testing.T) {
	X, y := makeBlobs(60, 2.0, 0.5, 21)
	clf := newQuietClassifier()
	require.NoError(t, clf.Fit(X, y))

	mw, err := clf.ExportWeights()
	require.NoError(t, err)
	assert.Equal(t, ModelType, mw.ModelType)
	assert.Equal(t, "1.0", mw.Version)
	assert.Equal(t, clf.Weights(), mw.Coefficients)
	assert.Equal(t, clf.Weights()[0], mw.Intercept)
	assert.True(t, mw.IsFitted)
	assert.Contains(t, mw.Metadata, "training_accuracy")

	restored := newQuietClassifier()
	require.NoError(t, restored.ImportWeights(mw))
	assert.Equal(t, clf.Weights(), restored.Weights())

	mw.ModelType = "LogisticRegression"
	var valErr *errors.ValueError
	assert.True(t, errors.As(restored.ImportWeights(mw), &valErr))
	assert.True(t, errors.As(restored.ImportWeights(nil), &valErr))
}

func TestSaveLoad(t *testing.T) {
	X, y := makeBlobs(60, 2.0, 0.5, 22)
	clf := newQuietClassifier()
	require.NoError(t, clf.Fit(X, y))

	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, clf.Save(path))

	loaded := newQuietClassifier()
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, clf.Weights(), loaded.Weights())

	want, err := clf.Predict(X)
	require.NoError(t, err)
	got, err := loaded.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Error(t, loaded.Load(filepath.Join(t.TempDir(), "missing.json")))
}

func TestFitLogsTraining(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	clf := NewLinearClassifier(WithClassifierLogger(logger))

	X, y := makeBlobs(40, 2.0, 0.5, 8)
	require.NoError(t, clf.Fit(X, y))

	assert.True(t, logger.ContainsMessage("Starting training"))
	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationFit))
	assert.True(t, logger.ContainsField(log.SamplesKey, 40.0))
	assert.True(t, logger.ContainsField(log.FeaturesKey, 3.0))
}

func TestFitWithPocketRefiner(t *testing.T) {
	X, y := makeBlobs(120, 1.0, 0.6, 31)

	base := newQuietClassifier()
	require.NoError(t, base.Fit(X, y))
	baseAcc, err := base.Score(X, y)
	require.NoError(t, err)

	logger, _ := log.NewTestLogger(log.LevelError)
	refiner := NewPocketRefiner(WithMaxIter(200), WithPocketLogger(logger))
	clf := newQuietClassifier(WithRefiner(refiner))
	require.NoError(t, clf.Fit(X, y))

	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, baseAcc)
	assert.GreaterOrEqual(t, refiner.Iterations(), 1)

	mw, err := clf.ExportWeights()
	require.NoError(t, err)
	assert.Equal(t, true, mw.Hyperparameters["refined"])
}
