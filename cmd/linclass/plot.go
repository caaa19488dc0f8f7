package main

import (
	"fmt"

	"github.com/YuminosukeSato/linclass/plotting"
	"github.com/spf13/cobra"
)

func newPlotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render labelled samples and the decision boundary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.plot()
		},
	}
	cmd.Flags().String("weights", "weights.json", "weights file written by fit")
	cmd.Flags().String("data", "", "labelled CSV with two feature columns")
	cmd.Flags().String("out", "boundary.png", "output image (.png, .svg or .pdf)")
	cmd.Flags().Float64("margin", 1, "draw margin lines at score ±margin, 0 to disable")
	cmd.Flags().String("title", "", "plot title")
	return cmd
}

func (a *app) plot() error {
	clf, err := a.loadClassifier()
	if err != nil {
		return err
	}
	dataPath, err := a.require("data")
	if err != nil {
		return err
	}
	ds, err := loadCSV(dataPath, true)
	if err != nil {
		return err
	}

	opts := []plotting.Option{plotting.WithMargin(a.v.GetFloat64("margin"))}
	if title := a.v.GetString("title"); title != "" {
		opts = append(opts, plotting.WithTitle(title))
	}

	out := a.v.GetString("out")
	if err := plotting.SaveBoundary(out, ds.features, ds.labels, clf, opts...); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "saved %s\n", out)
	return nil
}
