// Package plotting draws labelled samples and the decision boundary of a
// two-feature linear classifier with gonum/plot.
package plotting

import (
	"image/color"
	"io"
	"math"

	"github.com/YuminosukeSato/linclass/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Boundary は x 座標から境界線上の y 座標を求めるモデル
// linear.LinearClassifier が満たす
type Boundary interface {
	DecisionBoundaryY(xValues []float64, shift float64) ([]float64, error)
}

// Option は描画の設定を変更する関数
type Option func(*config)

type config struct {
	title  string
	width  vg.Length
	height vg.Length
	margin float64
	steps  int
}

func defaultConfig() config {
	return config{
		title:  "Linear Classifier Decision Boundary",
		width:  6 * vg.Inch,
		height: 6 * vg.Inch,
		margin: 1,
		steps:  2,
	}
}

// WithTitle はタイトルを設定する
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithSize は画像の大きさを設定する
func WithSize(width, height vg.Length) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithMargin は w·x = ±margin のマージン線を描く。0 で描かない
func WithMargin(margin float64) Option {
	return func(c *config) { c.margin = margin }
}

// WithSteps は境界線を評価する x 座標の数。直線なので 2 で十分
func WithSteps(steps int) Option {
	return func(c *config) { c.steps = steps }
}

var (
	positiveColor  = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	negativeColor  = color.RGBA{R: 255, G: 60, A: 255}
	undecidedColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	boundaryColor  = color.RGBA{A: 255}
)

// NewBoundaryPlot は points (x1, x2) をラベルごとに色分けし、境界線を重ねたプロットを作る
// points の各行はバイアス列を含まない特徴量で、先頭の 2 列を使う
func NewBoundaryPlot(points [][]float64, labels []float64, b Boundary, opts ...Option) (*plot.Plot, error) {
	const op = "plotting.NewBoundaryPlot"

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.steps < 2 {
		return nil, errors.NewValueError(op, "steps must be at least 2")
	}

	if len(points) == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(labels) != len(points) {
		return nil, errors.NewDimensionError(op, len(points), len(labels), 0)
	}

	var pos, neg, undecided plotter.XYs
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, pt := range points {
		if len(pt) < 2 {
			return nil, errors.NewDimensionError(op, 2, len(pt), 1)
		}
		xy := plotter.XY{X: pt[0], Y: pt[1]}
		switch {
		case labels[i] > 0:
			pos = append(pos, xy)
		case labels[i] < 0:
			neg = append(neg, xy)
		default:
			undecided = append(undecided, xy)
		}
		minX = math.Min(minX, pt[0])
		maxX = math.Max(maxX, pt[0])
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "x1"
	p.Y.Label.Text = "x2"
	p.Add(plotter.NewGrid())

	if err := addScatter(p, pos, "+1", positiveColor, draw.CircleGlyph{}); err != nil {
		return nil, err
	}
	if err := addScatter(p, neg, "-1", negativeColor, draw.PyramidGlyph{}); err != nil {
		return nil, err
	}
	if err := addScatter(p, undecided, "0", undecidedColor, draw.CrossGlyph{}); err != nil {
		return nil, err
	}

	xs := linspace(minX, maxX, cfg.steps)

	if err := addBoundaryLine(p, b, xs, 0, "boundary", vg.Points(2), nil); err != nil {
		return nil, err
	}
	if cfg.margin != 0 {
		dashes := []vg.Length{vg.Points(5), vg.Points(3)}
		if err := addBoundaryLine(p, b, xs, cfg.margin, "margin", vg.Points(1), dashes); err != nil {
			return nil, err
		}
		if err := addBoundaryLine(p, b, xs, -cfg.margin, "", vg.Points(1), dashes); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// SaveBoundary はプロットを filename に保存する。形式は拡張子から決まる (.png, .svg, .pdf)
func SaveBoundary(filename string, points [][]float64, labels []float64, b Boundary, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p, err := NewBoundaryPlot(points, labels, b, opts...)
	if err != nil {
		return err
	}
	if err := p.Save(cfg.width, cfg.height, filename); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", filename)
	}
	return nil
}

// WriteBoundary はプロットを format ("png", "svg" など) で w に書き出す
func WriteBoundary(w io.Writer, format string, points [][]float64, labels []float64, b Boundary, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p, err := NewBoundaryPlot(points, labels, b, opts...)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(cfg.width, cfg.height, format)
	if err != nil {
		return errors.Wrapf(err, "unsupported plot format %q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write plot")
	}
	return nil
}

func addScatter(p *plot.Plot, pts plotter.XYs, name string, c color.Color, shape draw.GlyphDrawer) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "failed to create scatter")
	}
	s.Color = c
	s.Shape = shape
	s.Radius = vg.Points(3)
	p.Add(s)
	p.Legend.Add(name, s)
	return nil
}

func addBoundaryLine(p *plot.Plot, b Boundary, xs []float64, shift float64, name string, width vg.Length, dashes []vg.Length) error {
	ys, err := b.DecisionBoundaryY(xs, shift)
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "failed to create boundary line")
	}
	l.Color = boundaryColor
	l.LineStyle.Width = width
	l.LineStyle.Dashes = dashes
	p.Add(l)
	if name != "" {
		p.Legend.Add(name, l)
	}
	return nil
}

// linspace は [lo, hi] を n 点で等分する。lo == hi の場合は ±1 広げる
func linspace(lo, hi float64, n int) []float64 {
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	xs := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	xs[n-1] = hi
	return xs
}
