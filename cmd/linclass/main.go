// Command linclass fits, applies and plots a least-squares linear classifier
// from CSV data.
//
//	linclass fit --data train.csv --out weights.json
//	linclass predict --weights weights.json --data points.csv
//	linclass boundary --weights weights.json --x 0,1,2 --shift 1
//	linclass plot --weights weights.json --data train.csv --out boundary.png
package main

import (
	"log/slog"
	"os"

	"github.com/YuminosukeSato/linclass/pkg/log"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		slog.Error("command failed", log.ErrAttr(err))
		os.Exit(1)
	}
}
