package linear

import (
	"time"

	"github.com/YuminosukeSato/linclass/core/model"
	"github.com/YuminosukeSato/linclass/core/parallel"
	"github.com/YuminosukeSato/linclass/metrics"
	"github.com/YuminosukeSato/linclass/pkg/errors"
	"github.com/YuminosukeSato/linclass/pkg/log"
	"github.com/YuminosukeSato/linclass/preprocessing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ModelType は重みファイルに書かれるモデル名
const ModelType = "LinearClassifier"

// この点数以下のバッチは呼び出し元のgoroutineで処理する
const parallelThreshold = 1000

// Refiner は回帰で得た重みを出発点として分類誤差を改善する追加ステージ
// 入力の重みよりも学習誤差が悪い重みを返してはならない
type Refiner interface {
	Refine(w []float64, X mat.Matrix, y mat.Vector) ([]float64, error)
}

// LinearClassifier は最小二乗回帰の重みの符号で ±1 を判定する二値分類器
//
// 特徴行列の各行はバイアス列 (1) を先頭に含む。
// 重み w の長さは列数 D と同じで、w[0] がバイアスに対応する。
// 同一インスタンスへの Fit と Predict の並行呼び出しは安全ではない。
type LinearClassifier struct {
	model.BaseEstimator

	solver  WeightFitter
	refiner Refiner
	logger  log.Logger

	w      []float64
	report metrics.ClassificationReport
}

// NewLinearClassifier は新しい線形分類器を作成する
//
// 使用例:
//
//	clf := linear.NewLinearClassifier()
//	err := clf.Fit(preprocessing.AddBias(X), y)
//	labels, err := clf.Predict(preprocessing.AddBias(points))
func NewLinearClassifier(opts ...ClassifierOption) *LinearClassifier {
	c := &LinearClassifier{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.GetLogger().With(log.ModelNameKey, ModelType, log.ComponentKey, "linear")
	}
	if c.solver == nil {
		c.solver = NewLeastSquares(WithLogger(c.logger))
	}
	return c
}

// Fit は最小二乗で重みを求めて保存する。以前の重みは置き換えられる
// エラー時は以前の重みと学習状態をそのまま残す
func (c *LinearClassifier) Fit(X [][]float64, y []float64) (err error) {
	const op = "LinearClassifier.Fit"
	defer errors.Recover(&err, op)

	start := time.Now()

	n, d, err := preprocessing.CheckSamples(op, X, y)
	if err != nil {
		c.logger.Error("Invalid training data", err, log.OperationKey, log.OperationFit)
		return err
	}

	c.logger.Debug("Starting training",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
	)

	Xm, err := preprocessing.ToDense(X)
	if err != nil {
		return err
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	w, err := c.solver.FitWeights(Xm, yv)
	if err != nil {
		return err
	}
	if len(w) != d {
		return errors.NewDimensionError(op, d, len(w), 1)
	}

	if c.refiner != nil {
		w, err = c.refiner.Refine(w, Xm, yv)
		if err != nil {
			return err
		}
		if len(w) != d {
			return errors.NewDimensionError(op, d, len(w), 1)
		}
	}

	// 新しい重みでの学習データの分類指標
	w = append([]float64(nil), w...)
	preds := make([]float64, n)
	for i, row := range X {
		preds[i] = sign(floats.Dot(w, row))
	}
	report, err := metrics.Classification(yv, mat.NewVecDense(n, preds))
	if err != nil {
		return err
	}

	c.w = w
	c.report = report
	c.SetFitted()

	c.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.AccuracyKey, report.Accuracy,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return nil
}

// Predict は各点のラベルを返す
// w·x > 0 なら +1、< 0 なら -1、ちょうど 0 なら 0
func (c *LinearClassifier) Predict(points [][]float64) ([]float64, error) {
	scores, err := c.scores("Predict", points)
	if err != nil {
		return nil, err
	}
	for i, s := range scores {
		scores[i] = sign(s)
	}
	return scores, nil
}

// DecisionFunction は各点のスコア w·x を返す
func (c *LinearClassifier) DecisionFunction(points [][]float64) ([]float64, error) {
	return c.scores("DecisionFunction", points)
}

func (c *LinearClassifier) scores(method string, points [][]float64) ([]float64, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError(ModelType, method)
	}
	if err := preprocessing.CheckRows("LinearClassifier."+method, points, len(c.w)); err != nil {
		return nil, err
	}

	out := make([]float64, len(points))
	parallel.ParallelizeWithThreshold(len(points), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = floats.Dot(c.w, points[i])
		}
	})

	c.logger.Debug("Scored points",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, len(points),
	)
	return out, nil
}

// sign は NaN を含め ±1 以外をすべて 0 にする
func sign(s float64) float64 {
	switch {
	case s > 0:
		return PositiveLabel
	case s < 0:
		return NegativeLabel
	default:
		return 0
	}
}

// 予測ラベル
const (
	PositiveLabel = metrics.PositiveLabel
	NegativeLabel = metrics.NegativeLabel
)

// DecisionBoundaryY は 2 特徴の決定境界 w0 + w1*x + w2*y = shift 上の y を返す
//
//	y = (-(w0 - shift) - w1*x) / w2
//
// shift = +1, -1 でマージン線が得られる。w が 3 要素より長い場合は先頭の 3 要素を使う。
func (c *LinearClassifier) DecisionBoundaryY(xValues []float64, shift float64) ([]float64, error) {
	const op = "LinearClassifier.DecisionBoundaryY"

	if !c.IsFitted() {
		return nil, errors.NewNotFittedError(ModelType, "DecisionBoundaryY")
	}
	if len(c.w) < 3 {
		return nil, errors.NewDimensionError(op, 3, len(c.w), 1)
	}

	w0, w1, w2 := c.w[0], c.w[1], c.w[2]
	if w2 == 0 {
		return nil, errors.NewZeroDivisionError(op, "w[2]")
	}

	ys := make([]float64, len(xValues))
	for i, x := range xValues {
		ys[i] = (shift - w0 - w1*x) / w2
	}

	c.logger.Debug("Computed decision boundary",
		log.OperationKey, log.OperationBoundary,
		log.PredsKey, len(xValues),
		log.ShiftKey, shift,
	)
	return ys, nil
}

// DecisionBoundary は shift = 0 の決定境界を返す
func (c *LinearClassifier) DecisionBoundary(xValues []float64) ([]float64, error) {
	return c.DecisionBoundaryY(xValues, 0)
}

// Weights は重みのコピーを返す（未学習なら nil）
func (c *LinearClassifier) Weights() []float64 {
	if c.w == nil {
		return nil
	}
	return append([]float64(nil), c.w...)
}

// SetWeights は外部で求めた重みを設定し、学習済み状態にする
// 学習時の分類指標はクリアされる
func (c *LinearClassifier) SetWeights(w []float64) error {
	const op = "LinearClassifier.SetWeights"
	if len(w) == 0 {
		return errors.NewValueError(op, "weights must not be empty")
	}
	if err := errors.CheckNumericalStability(op, w, 0); err != nil {
		return err
	}
	c.w = append([]float64(nil), w...)
	c.report = metrics.ClassificationReport{}
	c.SetFitted()
	return nil
}

// Score は X に対する予測の正解率を返す
func (c *LinearClassifier) Score(X [][]float64, y []float64) (float64, error) {
	if len(X) != len(y) {
		return 0, errors.NewDimensionError("LinearClassifier.Score", len(X), len(y), 0)
	}
	preds, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(preds) == 0 {
		return 0, errors.NewValueError("LinearClassifier.Score", "empty data")
	}
	return metrics.Accuracy(mat.NewVecDense(len(y), append([]float64(nil), y...)), mat.NewVecDense(len(preds), preds))
}

// TrainingMetrics は直近の Fit での学習データに対する分類指標を返す
// SetWeights / ImportWeights で重みを設定した場合はゼロ値
func (c *LinearClassifier) TrainingMetrics() (metrics.ClassificationReport, error) {
	if !c.IsFitted() {
		return metrics.ClassificationReport{}, errors.NewNotFittedError(ModelType, "TrainingMetrics")
	}
	return c.report, nil
}

// ExportWeights は重みを ModelWeights として書き出す
func (c *LinearClassifier) ExportWeights() (*model.ModelWeights, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError(ModelType, "ExportWeights")
	}

	mw := &model.ModelWeights{
		ModelType:    ModelType,
		Version:      model.WeightsFormatVersion,
		Coefficients: c.Weights(),
		Intercept:    c.w[0],
		IsFitted:     true,
		Hyperparameters: map[string]interface{}{
			"refined": c.refiner != nil,
		},
	}
	if c.report.Confusion.Total > 0 {
		mw.Metadata = map[string]interface{}{
			"training_accuracy": c.report.Accuracy,
			"training_f1_score": c.report.F1Score,
			"training_samples":  c.report.Confusion.Total,
		}
	}
	return mw, nil
}

// ImportWeights は ModelWeights から重みを読み込む
func (c *LinearClassifier) ImportWeights(mw *model.ModelWeights) error {
	const op = "LinearClassifier.ImportWeights"
	if mw == nil {
		return errors.NewValueError(op, "weights must not be nil")
	}
	if err := mw.Validate(); err != nil {
		return err
	}
	if mw.ModelType != ModelType {
		return errors.NewValueError(op, "unexpected model_type "+mw.ModelType)
	}
	if mw.Version != model.WeightsFormatVersion {
		return errors.NewValueError(op, "unsupported version "+mw.Version)
	}

	if !mw.IsFitted {
		c.w = nil
		c.report = metrics.ClassificationReport{}
		c.Reset()
		return nil
	}
	return c.SetWeights(mw.Coefficients)
}

// Save は重みを JSON ファイルに保存する
func (c *LinearClassifier) Save(filename string) error {
	mw, err := c.ExportWeights()
	if err != nil {
		return err
	}
	return model.SaveWeights(mw, filename)
}

// Load は JSON ファイルから重みを読み込む
func (c *LinearClassifier) Load(filename string) error {
	mw, err := model.LoadWeights(filename)
	if err != nil {
		return err
	}
	return c.ImportWeights(mw)
}

var (
	_ model.Classifier  = (*LinearClassifier)(nil)
	_ model.LinearModel = (*LinearClassifier)(nil)
	_ model.Persistable = (*LinearClassifier)(nil)
)
