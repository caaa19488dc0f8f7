// Standard attribute keys. Keys follow a hierarchical naming convention
// (e.g. "model.name", "data.samples") so log lines can be filtered.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "LinearClassifier", "LeastSquares", "PocketRefiner"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"
)

// Data Shape
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
)

// Metrics
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	MSEKey        = "metrics.mse"
	R2ScoreKey    = "metrics.r2_score"
	ErrorRateKey  = "metrics.error_rate"
	IterationKey  = "training.iteration"
	RankKey       = "solver.rank"
	MethodKey     = "solver.method"
)

// Prediction Context
const (
	PredsKey = "preds.count"

	// ShiftKey records the bias offset used for a boundary line.
	ShiftKey = "preds.shift"
)

// Error Context
const (
	ErrorCodeKey = "error.code"
)

// Standard attribute values.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationRefine   = "refine"
	OperationBoundary = "decision_boundary"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorDivisionByZero    = "DIVISION_BY_ZERO"
)
