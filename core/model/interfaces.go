// Package model provides the estimator state, interfaces and weight
// serialization shared by the linclass models.
package model

import "gonum.org/v1/gonum/mat"

// Regressor は行列入力で学習・予測する回帰モデルのインターフェース
type Regressor interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier は符号で判定する二値分類器のインターフェース
// 入力は行ごとの特徴ベクトル
type Classifier interface {
	// Fit は特徴行列 X とラベル y から重みを学習する
	Fit(X [][]float64, y []float64) error
	// Predict は各点のラベル {-1, 0, +1} を返す
	Predict(points [][]float64) ([]float64, error)
	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
}

// LinearModel は学習済みの重みベクトルを公開するモデル
type LinearModel interface {
	// Weights は重みのコピーを返す（未学習なら nil）
	Weights() []float64
}

// Persistable は ModelWeights を介して保存・復元できるモデル
type Persistable interface {
	ExportWeights() (*ModelWeights, error)
	ImportWeights(w *ModelWeights) error
}
