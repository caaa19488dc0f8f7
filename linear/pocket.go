package linear

import (
	"fmt"

	"github.com/YuminosukeSato/linclass/pkg/errors"
	"github.com/YuminosukeSato/linclass/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PocketRefiner はポケット・パーセプトロンで重みを改善する Refiner
//
// 誤分類された最初のサンプルで w += y_i x_i と更新し、
// 毎反復それまでで最も誤差の小さい重みを保持する。
// pocketEvery 回ごとに更新直後の重みも評価する。
// 誤差率が tol 以下になるか誤分類が無くなった時点で終了する。
// y は ±1 のラベルでなければならない。
type PocketRefiner struct {
	maxIter     int
	tol         float64
	pocketEvery int
	logger      log.Logger

	iterations int
	finalError float64
	history    []float64
}

// NewPocketRefiner は新しい PocketRefiner を作成する
func NewPocketRefiner(opts ...PocketOption) *PocketRefiner {
	p := &PocketRefiner{
		maxIter:     1000,
		tol:         1e-4,
		pocketEvery: 10,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLogger().With(log.ModelNameKey, "PocketRefiner", log.ComponentKey, "linear")
	}
	return p
}

// Refine は w を出発点に分類誤差を下げた重みを返す
// 入力より誤差の大きい重みは返さない
func (p *PocketRefiner) Refine(w []float64, X mat.Matrix, y mat.Vector) ([]float64, error) {
	const op = "PocketRefiner.Refine"

	n, d := X.Dims()
	if n == 0 || d == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y == nil || y.Len() != n {
		got := 0
		if y != nil {
			got = y.Len()
		}
		return nil, errors.NewDimensionError(op, n, got, 0)
	}
	if len(w) != d {
		return nil, errors.NewDimensionError(op, d, len(w), 1)
	}
	if p.maxIter <= 0 {
		return nil, errors.NewValueError(op, "max_iter must be positive")
	}
	if p.pocketEvery <= 0 {
		return nil, errors.NewValueError(op, "pocket_every must be positive")
	}
	for i := 0; i < n; i++ {
		if v := y.AtVec(i); v != PositiveLabel && v != NegativeLabel {
			return nil, errors.NewValueError(op, fmt.Sprintf("label at index %d is %g, must be +1 or -1", i, v))
		}
	}

	current := append([]float64(nil), w...)
	best := append([]float64(nil), w...)
	bestErr, _ := errorRate(current, X, y)

	p.iterations = 0
	p.history = p.history[:0]

	converged := false
	row := make([]float64, d)
	for p.iterations < p.maxIter {
		p.iterations++

		rate, mis := errorRate(current, X, y)
		p.history = append(p.history, rate)

		if rate < bestErr {
			copy(best, current)
			bestErr = rate
		}
		converged = rate <= p.tol || mis < 0
		if converged {
			break
		}

		mat.Row(row, mis, X)
		floats.AddScaled(current, y.AtVec(mis), row)

		if err := errors.CheckNumericalStability(op, current, p.iterations); err != nil {
			return nil, err
		}

		if p.iterations%p.pocketEvery == 0 {
			if rate, _ := errorRate(current, X, y); rate < bestErr {
				copy(best, current)
				bestErr = rate
			}
		}
	}

	p.finalError = bestErr

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("PocketRefiner", p.iterations,
			fmt.Sprintf("best error rate %.4f is above tolerance %g", bestErr, p.tol)))
	}

	p.logger.Debug("Pocket refinement finished",
		log.OperationKey, log.OperationRefine,
		log.IterationKey, p.iterations,
		log.ErrorRateKey, bestErr,
	)

	return best, nil
}

// errorRate は誤分類率と最初の誤分類サンプルの添字を返す（無ければ -1）
// スコアが 0 の点は誤分類として数える
func errorRate(w []float64, X mat.Matrix, y mat.Vector) (float64, int) {
	n, d := X.Dims()

	var scores mat.VecDense
	scores.MulVec(X, mat.NewVecDense(d, w))

	first := -1
	wrong := 0
	for i := 0; i < n; i++ {
		if sign(scores.AtVec(i)) != y.AtVec(i) {
			wrong++
			if first < 0 {
				first = i
			}
		}
	}
	return float64(wrong) / float64(n), first
}

// Iterations は直近の Refine で実行した反復回数
func (p *PocketRefiner) Iterations() int { return p.iterations }

// FinalError は直近の Refine で返した重みの誤差率
func (p *PocketRefiner) FinalError() float64 { return p.finalError }

// History は各反復での誤差率のコピーを返す
func (p *PocketRefiner) History() []float64 {
	return append([]float64(nil), p.history...)
}

var _ Refiner = (*PocketRefiner)(nil)
