package linear

import "github.com/YuminosukeSato/linclass/pkg/log"

// Option is a function that configures LeastSquares
type Option func(*LeastSquares)

// WithMethod selects how the least-squares system is solved
func WithMethod(m Method) Option {
	return func(ls *LeastSquares) {
		ls.method = m
	}
}

// WithTol sets the relative singular value cutoff used to determine the rank
func WithTol(tol float64) Option {
	return func(ls *LeastSquares) {
		ls.tol = tol
	}
}

// WithLogger sets the logger used by LeastSquares
func WithLogger(l log.Logger) Option {
	return func(ls *LeastSquares) {
		ls.logger = l
	}
}

// ClassifierOption is a function that configures LinearClassifier
type ClassifierOption func(*LinearClassifier)

// WithSolver replaces the default least-squares weight fitter
func WithSolver(s WeightFitter) ClassifierOption {
	return func(c *LinearClassifier) {
		c.solver = s
	}
}

// WithRefiner adds a refinement stage after the regression fit
func WithRefiner(r Refiner) ClassifierOption {
	return func(c *LinearClassifier) {
		c.refiner = r
	}
}

// WithClassifierLogger sets the logger used by LinearClassifier
func WithClassifierLogger(l log.Logger) ClassifierOption {
	return func(c *LinearClassifier) {
		c.logger = l
	}
}

// PocketOption is a function that configures PocketRefiner
type PocketOption func(*PocketRefiner)

// WithMaxIter sets the maximum number of perceptron updates
func WithMaxIter(n int) PocketOption {
	return func(p *PocketRefiner) {
		p.maxIter = n
	}
}

// WithTolerance sets the training error rate at which refinement stops
func WithTolerance(tol float64) PocketOption {
	return func(p *PocketRefiner) {
		p.tol = tol
	}
}

// WithPocketEvery sets how often (in iterations) the freshly updated weights are
// also compared against the pocket
func WithPocketEvery(n int) PocketOption {
	return func(p *PocketRefiner) {
		p.pocketEvery = n
	}
}

// WithPocketLogger sets the logger used by PocketRefiner
func WithPocketLogger(l log.Logger) PocketOption {
	return func(p *PocketRefiner) {
		p.logger = l
	}
}
