package linear

import (
	"time"

	"github.com/YuminosukeSato/linclass/core/model"
	"github.com/YuminosukeSato/linclass/metrics"
	"github.com/YuminosukeSato/linclass/pkg/errors"
	"github.com/YuminosukeSato/linclass/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// WeightFitter は特徴行列とターゲットから最小二乗の重みを求めるコラボレータ
// X はバイアス列を含み、返す重みの長さは X の列数と一致する
type WeightFitter interface {
	FitWeights(X mat.Matrix, y mat.Vector) ([]float64, error)
}

// Method は最小二乗問題の解法
type Method int

const (
	// MethodNormal は正規方程式 (X^T X)^(-1) X^T y で解き、特異な場合はSVDに切り替える
	MethodNormal Method = iota
	// MethodSVD は常にSVDによる最小ノルム解を使う
	MethodSVD
)

// String は解法名を返す
func (m Method) String() string {
	switch m {
	case MethodNormal:
		return "normal"
	case MethodSVD:
		return "svd"
	default:
		return "unknown"
	}
}

const defaultRankTol = 1e-10

// LeastSquares は線形最小二乗のソルバー
// 切片は追加しない。バイアス列は呼び出し側で X に含める
type LeastSquares struct {
	model.BaseEstimator

	method Method
	tol    float64
	logger log.Logger

	weights []float64
	mse     float64
	r2      float64
	rank    int
}

// NewLeastSquares は新しい最小二乗ソルバーを作成する
func NewLeastSquares(opts ...Option) *LeastSquares {
	ls := &LeastSquares{
		method: MethodNormal,
		tol:    defaultRankTol,
	}
	for _, opt := range opts {
		opt(ls)
	}
	if ls.logger == nil {
		ls.logger = log.GetLogger().With(log.ModelNameKey, "LeastSquares", log.ComponentKey, "linear")
	}
	return ls
}

// FitWeights は X w ≈ y となる w を最小二乗で求める
func (ls *LeastSquares) FitWeights(X mat.Matrix, y mat.Vector) ([]float64, error) {
	const op = "LeastSquares.FitWeights"
	start := time.Now()

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y == nil {
		return nil, errors.NewDimensionError(op, r, 0, 0)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError(op, r, y.Len(), 0)
	}

	var (
		w    []float64
		rank int
		used Method
	)
	err := errors.SafeExecute(op, func() error {
		var solveErr error
		w, rank, used, solveErr = ls.solve(X, y)
		return solveErr
	})
	if err != nil {
		ls.logger.Error("Least squares failed", err, log.OperationKey, log.OperationFit)
		return nil, err
	}

	if err := errors.CheckNumericalStability(op, w, 0); err != nil {
		return nil, err
	}

	// 学習データ上の残差を記録
	var pred mat.VecDense
	pred.MulVec(X, mat.NewVecDense(c, w))

	mse, err := metrics.MSE(y, &pred)
	if err != nil {
		return nil, err
	}
	r2, err := metrics.R2Score(y, &pred)
	if err != nil {
		// y が定数の場合 R² は定義されない
		r2 = 0
	}

	ls.weights = w
	ls.mse = mse
	ls.r2 = r2
	ls.rank = rank
	ls.SetFitted()

	ls.logger.Debug("Least squares solved",
		log.OperationKey, log.OperationFit,
		log.MethodKey, used.String(),
		log.RankKey, rank,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.MSEKey, mse,
		log.R2ScoreKey, r2,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return append([]float64(nil), w...), nil
}

func (ls *LeastSquares) solve(X mat.Matrix, y mat.Vector) ([]float64, int, Method, error) {
	r, c := X.Dims()

	// 行数が列数より少ない場合 X^T X は必ず特異
	if ls.method == MethodNormal && r >= c {
		w, err := solveNormal(X, y)
		if err == nil {
			return w, c, MethodNormal, nil
		}
		if !errors.Is(err, errors.ErrSingularMatrix) {
			return nil, 0, MethodNormal, err
		}
		ls.logger.Debug("Normal equations are singular, falling back to SVD",
			log.ErrorCodeKey, log.ErrorSingularMatrix,
		)
	}

	w, rank, err := solveSVD(X, y, ls.tol)
	return w, rank, MethodSVD, err
}

// solveNormal は正規方程式 w = (X^T X)^(-1) X^T y を解く
func solveNormal(X mat.Matrix, y mat.Vector) ([]float64, error) {
	_, c := X.Dims()

	var xtx mat.Dense
	xtx.Mul(X.T(), X)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, errors.Wrap(errors.ErrSingularMatrix, err.Error())
	}

	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	w := mat.NewVecDense(c, nil)
	w.MulVec(&inv, &xty)

	return w.RawVector().Data, nil
}

// solveSVD は擬似逆行列による最小ノルム解を求める
func solveSVD(X mat.Matrix, y mat.Vector, tol float64) ([]float64, int, error) {
	const op = "LeastSquares.FitWeights"
	_, c := X.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDThin); !ok {
		return nil, 0, errors.NewModelError(op, "SVD factorization failed", errors.ErrSingularMatrix)
	}

	rank := svd.Rank(tol)
	if rank == 0 {
		return nil, 0, errors.NewModelError(op, "matrix has rank zero", errors.ErrSingularMatrix)
	}

	w := mat.NewVecDense(c, nil)
	svd.SolveVecTo(w, y, rank)

	return w.RawVector().Data, rank, nil
}

// Fit は model.Regressor としての学習。y は列ベクトル
func (ls *LeastSquares) Fit(X, y mat.Matrix) error {
	r, _ := X.Dims()
	ry, cy := y.Dims()

	if ry != r {
		return errors.NewDimensionError("LeastSquares.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LeastSquares.Fit", "y must be a column vector")
	}

	yVec := mat.NewVecDense(ry, nil)
	for i := 0; i < ry; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	_, err := ls.FitWeights(X, yVec)
	return err
}

// Predict は X w を r x 1 の行列として返す
func (ls *LeastSquares) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !ls.IsFitted() {
		return nil, errors.NewNotFittedError("LeastSquares", "Predict")
	}

	r, c := X.Dims()
	if c != len(ls.weights) {
		return nil, errors.NewDimensionError("LeastSquares.Predict", len(ls.weights), c, 1)
	}

	var pred mat.VecDense
	pred.MulVec(X, mat.NewVecDense(c, ls.weights))

	return mat.NewDense(r, 1, pred.RawVector().Data), nil
}

// Weights は学習された重みのコピーを返す
func (ls *LeastSquares) Weights() []float64 {
	if ls.weights == nil {
		return nil
	}
	return append([]float64(nil), ls.weights...)
}

// MSE は直近の学習での平均二乗誤差
func (ls *LeastSquares) MSE() float64 { return ls.mse }

// R2 は直近の学習での決定係数。y が定数の場合は0
func (ls *LeastSquares) R2() float64 { return ls.r2 }

// Rank は直近の学習で使われた X の数値的ランク
func (ls *LeastSquares) Rank() int { return ls.rank }

var (
	_ WeightFitter      = (*LeastSquares)(nil)
	_ model.Regressor   = (*LeastSquares)(nil)
	_ model.LinearModel = (*LeastSquares)(nil)
)
