// Package export renders stored runs as images: a top-down map of the
// world with the robot's path, and time series of recorded channels.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/robosim/internal/storage"
	"github.com/san-kum/robosim/internal/world"
)

const ellipseSegments = 48

var (
	ErrEmptyTrajectory = errors.New("export: trajectory is empty")
	ErrUnknownChannel  = errors.New("export: unknown channel")
)

var (
	wallColor  = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	pathColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	touchColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// Channels lists the sample fields TimeSeries can plot.
var Channels = map[string]func(storage.Sample) float64{
	"x":     func(s storage.Sample) float64 { return s.X },
	"y":     func(s storage.Sample) float64 { return s.Y },
	"angle": func(s storage.Sample) float64 { return s.Angle },
	"speed": func(s storage.Sample) float64 { return math.Hypot(s.Vx, s.Vy) * 1000 },
	"omega": func(s storage.Sample) float64 { return s.Omega },
	"enc_a": func(s storage.Sample) float64 { return s.Encoders[0] },
	"enc_b": func(s storage.Sample) float64 { return s.Encoders[1] },
	"enc_c": func(s storage.Sample) float64 { return s.Encoders[2] },
}

// Trajectory draws regions, walls and the robot path in world coordinates.
// The y axis is inverted so the picture matches screen orientation.
// w may be nil when only the path is wanted.
func Trajectory(w *world.World, samples []storage.Sample, title string) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyTrajectory
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "y (px)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Add(plotter.NewGrid())

	if w != nil {
		for _, r := range w.Regions() {
			if err := addRegion(p, r); err != nil {
				return nil, err
			}
		}
		for _, wall := range w.Walls() {
			poly, err := plotter.NewPolygon(toXYs(wall.Polygon()))
			if err != nil {
				return nil, err
			}
			poly.Color = wallColor
			poly.LineStyle.Width = 0
			p.Add(poly)
		}
	}

	path := make(plotter.XYs, len(samples))
	touches := make(plotter.XYs, 0)
	for i, s := range samples {
		path[i].X, path[i].Y = s.X, s.Y
		if s.Touching {
			touches = append(touches, plotter.XY{X: s.X, Y: s.Y})
		}
	}

	line, err := plotter.NewLine(path)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = pathColor
	p.Add(line)

	if len(touches) > 0 {
		sc, err := plotter.NewScatter(touches)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = touchColor
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add("touching", sc)
	}
	p.Legend.Add("path", line)

	return p, nil
}

// TimeSeries plots one channel of the samples against time in seconds.
func TimeSeries(samples []storage.Sample, channel string) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyTrajectory
	}
	value, ok := Channels[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}

	p := plot.New()
	p.Title.Text = channel
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = channel

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Time / 1000
		pts[i].Y = value(s)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = pathColor
	p.Add(line)
	return p, nil
}

// WritePNG renders p at the given size in inches.
func WritePNG(w io.Writer, p *plot.Plot, widthIn, heightIn float64) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return bw.Flush()
}

// Save writes p to path. PNG goes through WritePNG; other extensions
// (svg, pdf, eps) use the plot's own encoders.
func Save(p *plot.Plot, widthIn, heightIn float64, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return p.Save(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WritePNG(f, p, widthIn, heightIn)
}

func addRegion(p *plot.Plot, r *world.Region) error {
	switch r.Shape {
	case world.ShapeLine:
		if len(r.Points) < 2 {
			return nil
		}
		line, err := plotter.NewLine(toXYs(r.Points))
		if err != nil {
			return err
		}
		line.LineStyle.Color = r.Color
		line.LineStyle.Width = vg.Points(math.Max(r.Width/2, 1))
		p.Add(line)
		return nil
	case world.ShapeEllipse:
		if len(r.Points) < 2 {
			return nil
		}
		return addPolygon(p, ellipse(r.Points[0], r.Points[1]), r.Color)
	default:
		if len(r.Points) < 3 {
			return nil
		}
		return addPolygon(p, r.Points, r.Color)
	}
}

func addPolygon(p *plot.Plot, pts []r2.Point, c color.Color) error {
	poly, err := plotter.NewPolygon(toXYs(pts))
	if err != nil {
		return err
	}
	poly.Color = c
	poly.LineStyle.Width = 0
	p.Add(poly)
	return nil
}

func ellipse(a, b r2.Point) []r2.Point {
	box := r2.RectFromPoints(a, b)
	c, size := box.Center(), box.Size()
	pts := make([]r2.Point, ellipseSegments)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / ellipseSegments
		pts[i] = r2.Point{X: c.X + size.X/2*math.Cos(t), Y: c.Y + size.Y/2*math.Sin(t)}
	}
	return pts
}

func toXYs(pts []r2.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i].X, xys[i].Y = pt.X, pt.Y
	}
	return xys
}
