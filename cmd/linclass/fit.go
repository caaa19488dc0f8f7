package main

import (
	"fmt"

	"github.com/YuminosukeSato/linclass/linear"
	"github.com/YuminosukeSato/linclass/pkg/log"
	"github.com/YuminosukeSato/linclass/preprocessing"
	"github.com/spf13/cobra"
)

func newFitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit weights from a labelled CSV (last column is the label)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.fit()
		},
	}
	cmd.Flags().String("data", "", "training CSV; features then a ±1 label per row")
	cmd.Flags().String("out", "weights.json", "output weights file")
	cmd.Flags().Bool("pocket", false, "refine the regression weights with the pocket perceptron")
	cmd.Flags().Int("max-iter", 1000, "maximum pocket iterations")
	cmd.Flags().Float64("tolerance", 1e-4, "pocket error rate tolerance")
	return cmd
}

func (a *app) fit() error {
	dataPath, err := a.require("data")
	if err != nil {
		return err
	}
	ds, err := loadCSV(dataPath, true)
	if err != nil {
		return err
	}

	var opts []linear.ClassifierOption
	if a.v.GetBool("pocket") {
		opts = append(opts, linear.WithRefiner(linear.NewPocketRefiner(
			linear.WithMaxIter(a.v.GetInt("max-iter")),
			linear.WithTolerance(a.v.GetFloat64("tolerance")),
		)))
	}

	clf := linear.NewLinearClassifier(opts...)
	if err := clf.Fit(preprocessing.AddBias(ds.features), ds.labels); err != nil {
		return err
	}

	out := a.v.GetString("out")
	if err := clf.Save(out); err != nil {
		return err
	}

	report, err := clf.TrainingMetrics()
	if err != nil {
		return err
	}
	log.GetLogger().Info("Saved weights",
		log.ModelNameKey, linear.ModelType,
		log.AccuracyKey, report.Accuracy,
		"path", out,
	)
	fmt.Fprintf(a.stdout, "weights: %v\naccuracy: %.4f\nprecision: %.4f\nrecall: %.4f\nf1: %.4f\n",
		clf.Weights(), report.Accuracy, report.Precision, report.Recall, report.F1Score)
	return nil
}
