package main

import (
	"fmt"

	"github.com/YuminosukeSato/linclass/linear"
	"github.com/YuminosukeSato/linclass/preprocessing"
	"github.com/spf13/cobra"
)

func newPredictCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print one label (-1, 0 or 1) per CSV row",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.predict()
		},
	}
	cmd.Flags().String("weights", "weights.json", "weights file written by fit")
	cmd.Flags().String("data", "", "CSV of feature rows without labels")
	return cmd
}

// loadClassifier は --weights のファイルから分類器を復元する
func (a *app) loadClassifier() (*linear.LinearClassifier, error) {
	path, err := a.require("weights")
	if err != nil {
		return nil, err
	}
	clf := linear.NewLinearClassifier()
	if err := clf.Load(path); err != nil {
		return nil, err
	}
	return clf, nil
}

func (a *app) predict() error {
	clf, err := a.loadClassifier()
	if err != nil {
		return err
	}
	dataPath, err := a.require("data")
	if err != nil {
		return err
	}
	ds, err := loadCSV(dataPath, false)
	if err != nil {
		return err
	}

	labels, err := clf.Predict(preprocessing.AddBias(ds.features))
	if err != nil {
		return err
	}
	for _, l := range labels {
		fmt.Fprintln(a.stdout, l)
	}
	return nil
}
