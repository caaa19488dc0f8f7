package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/linclass/pkg/errors"
)

// dataset は CSV から読んだ特徴量（バイアス列なし）とラベル
type dataset struct {
	features [][]float64
	labels   []float64
}

// loadCSV は path の CSV を読む。withLabels の場合は最終列をラベルとする
func loadCSV(path string, withLabels bool) (*dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	return readCSV(bufio.NewReader(file), withLabels)
}

// readCSV は数値の CSV を読む。先頭行のどの列も数値でなければヘッダとして読み飛ばす
func readCSV(r io.Reader, withLabels bool) (*dataset, error) {
	const op = "readCSV"

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	ds := &dataset{}
	width := -1
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read line %d", line)
		}

		values, numeric := parseRecord(rec)
		if numeric < len(rec) {
			if line == 1 && numeric == 0 {
				continue
			}
			return nil, errors.NewValueError(op, "non-numeric value on line "+strconv.Itoa(line))
		}

		if width < 0 {
			width = len(values)
		} else if len(values) != width {
			return nil, errors.NewDimensionError(op, width, len(values), 1)
		}

		if withLabels {
			if len(values) < 2 {
				return nil, errors.NewValueError(op, "need at least one feature column and a label column")
			}
			ds.features = append(ds.features, values[:len(values)-1])
			ds.labels = append(ds.labels, values[len(values)-1])
		} else {
			ds.features = append(ds.features, values)
		}
	}

	if len(ds.features) == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	return ds, nil
}

// parseRecord は各列を数値にし、数値として読めた列の数を返す
func parseRecord(rec []string) ([]float64, int) {
	values := make([]float64, len(rec))
	numeric := 0
	for i, s := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			continue
		}
		values[i] = v
		numeric++
	}
	return values, numeric
}

// parseFloatList は "0,1,2" を []float64 にする
func parseFloatList(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %q", part)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.NewValueError("parseFloatList", "no values given")
	}
	return out, nil
}
