// Package linclass provides a binary linear classifier for Go built on a
// least-squares regression solver.
//
// The classifier fits a weight vector w by least squares on features
// augmented with a bias column, using the ±1 labels as regression targets.
// New points are labelled by the sign of w·x, and for two features the
// decision boundary w0 + w1*x1 + w2*x2 = 0 can be turned into plottable
// (x1, x2) points.
//
// # Features
//
// - Least squares by normal equations with an SVD fallback for singular systems
// - Optional pocket perceptron refinement of the regression weights
// - Typed errors with stack traces (dimension mismatch, not fitted, division by zero)
// - Structured logging with zerolog and log/slog
// - JSON weight files, decision boundary plots and a CLI
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/linclass/linear"
//	    "github.com/YuminosukeSato/linclass/preprocessing"
//	)
//
//	func main() {
//	    X := [][]float64{{2, 1}, {1, 2}, {-1, -2}, {-2, -1}}
//	    y := []float64{1, 1, -1, -1}
//
//	    clf := linear.NewLinearClassifier()
//	    if err := clf.Fit(preprocessing.AddBias(X), y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    labels, err := clf.Predict(preprocessing.AddBias([][]float64{{3, 3}, {-3, 0}}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Labels:", labels)
//
//	    // 境界線と ±1 のマージン線
//	    xs := []float64{-3, 3}
//	    boundary, _ := clf.DecisionBoundaryY(xs, 0)
//	    upper, _ := clf.DecisionBoundaryY(xs, 1)
//	    fmt.Println(boundary, upper)
//	}
//
// # Packages
//
//   - linear: LinearClassifier, LeastSquares, PocketRefiner
//   - metrics: MSE, RMSE, R², accuracy, precision, recall, F1
//   - preprocessing: bias augmentation and input validation
//   - plotting: decision boundary plots with gonum/plot
//   - core/model: estimator state, interfaces and weight files
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error types and structured logging
//
// # Performance
//
// Predict scores batches of more than 1000 points in parallel across CPU
// cores. A single classifier must not be used from several goroutines at
// once while Fit is running.
package linclass
