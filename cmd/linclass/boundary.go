package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newBoundaryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boundary",
		Short: "Print the x2 coordinate of the decision boundary for each x1",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.boundary()
		},
	}
	cmd.Flags().String("weights", "weights.json", "weights file written by fit")
	cmd.Flags().String("x", "", "comma separated x1 values, e.g. 0,1,2")
	cmd.Flags().Float64("shift", 0, "score level of the line (±1 for margins)")
	return cmd
}

func (a *app) boundary() error {
	clf, err := a.loadClassifier()
	if err != nil {
		return err
	}
	raw, err := a.require("x")
	if err != nil {
		return err
	}
	xs, err := parseFloatList(raw)
	if err != nil {
		return err
	}

	ys, err := clf.DecisionBoundaryY(xs, a.v.GetFloat64("shift"))
	if err != nil {
		return err
	}
	for _, y := range ys {
		fmt.Fprintln(a.stdout, strconv.FormatFloat(y, 'g', -1, 64))
	}
	return nil
}
