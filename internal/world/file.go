package world

import (
	"fmt"
	"os"

	"github.com/golang/geo/r2"
	"gopkg.in/yaml.v3"
)

// Point is the YAML form of a coordinate: [x, y].
type Point [2]float64

func (p Point) R2() r2.Point { return r2.Point{X: p[0], Y: p[1]} }

func PointOf(p r2.Point) Point { return Point{p.X, p.Y} }

type WallRecord struct {
	ID        string  `yaml:"id,omitempty"`
	Begin     *Point  `yaml:"begin,omitempty"`
	End       *Point  `yaml:"end,omitempty"`
	Thickness float64 `yaml:"thickness,omitempty"`
	Corners   []Point `yaml:"corners,omitempty"`
}

type RegionRecord struct {
	Shape  string  `yaml:"shape"`
	Points []Point `yaml:"points"`
	Width  float64 `yaml:"width,omitempty"`
	Color  string  `yaml:"color"`
	Z      int     `yaml:"z,omitempty"`
}

// RobotRecord is the persisted robot pose. Values stay strings so that the
// robot package can reject malformed numbers instead of defaulting them.
type RobotRecord struct {
	Position  string `yaml:"position"`
	Direction string `yaml:"direction"`
}

type SensorRecord struct {
	Type     string  `yaml:"type"`
	Offset   *Point  `yaml:"offset,omitempty"`
	Rotation float64 `yaml:"rotation,omitempty"`
}

// File is the on-disk description of a field.
type File struct {
	Name    string               `yaml:"name,omitempty"`
	Walls   []WallRecord         `yaml:"walls"`
	Regions []RegionRecord       `yaml:"regions,omitempty"`
	Robot   *RobotRecord         `yaml:"robot,omitempty"`
	Sensors map[int]SensorRecord `yaml:"sensors,omitempty"`
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func Decode(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode world: %w", err)
	}
	return &f, nil
}

func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build turns the records into a World.
func (f *File) Build() (*World, error) {
	w := New()
	for i, rec := range f.Walls {
		wall, err := rec.wall()
		if err != nil {
			return nil, fmt.Errorf("wall %d: %w", i, err)
		}
		w.AddWall(wall)
	}
	for i, rec := range f.Regions {
		region, err := rec.region()
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		w.AddRegion(region)
	}
	return w, nil
}

func (rec WallRecord) wall() (*Wall, error) {
	var wall *Wall
	switch {
	case len(rec.Corners) == 4:
		wall = NewWallFromCorners([4]r2.Point{
			rec.Corners[0].R2(), rec.Corners[1].R2(), rec.Corners[2].R2(), rec.Corners[3].R2(),
		})
	case len(rec.Corners) != 0:
		return nil, fmt.Errorf("expected 4 corners, got %d", len(rec.Corners))
	case rec.Begin != nil && rec.End != nil:
		if rec.Thickness <= 0 {
			return nil, fmt.Errorf("thickness must be positive, got %g", rec.Thickness)
		}
		wall = NewWall(rec.Begin.R2(), rec.End.R2(), rec.Thickness)
	default:
		return nil, fmt.Errorf("wall needs either corners or begin/end")
	}
	wall.ID = rec.ID
	return wall, nil
}

func (rec RegionRecord) region() (*Region, error) {
	shape, err := ParseShape(rec.Shape)
	if err != nil {
		return nil, err
	}
	c, err := ParseColor(rec.Color)
	if err != nil {
		return nil, err
	}
	minPoints := map[Shape]int{ShapePolygon: 3, ShapeLine: 2, ShapeEllipse: 2}[shape]
	if len(rec.Points) < minPoints {
		return nil, fmt.Errorf("%s needs at least %d points, got %d", shape, minPoints, len(rec.Points))
	}
	if shape == ShapeLine && rec.Width <= 0 {
		return nil, fmt.Errorf("line width must be positive, got %g", rec.Width)
	}
	pts := make([]r2.Point, len(rec.Points))
	for i, p := range rec.Points {
		pts[i] = p.R2()
	}
	return &Region{Shape: shape, Points: pts, Width: rec.Width, Color: c, Z: rec.Z}, nil
}

// Records converts a World back into its file form. Walls are stored by
// corners so any shape round-trips.
func Records(w *World) ([]WallRecord, []RegionRecord) {
	walls := make([]WallRecord, 0, len(w.walls))
	for _, wall := range w.walls {
		rec := WallRecord{ID: wall.ID, Corners: make([]Point, 4)}
		for i := 0; i < 4; i++ {
			rec.Corners[i] = PointOf(wall.Point(i))
		}
		walls = append(walls, rec)
	}
	regions := make([]RegionRecord, 0, len(w.regions))
	for _, r := range w.regions {
		rec := RegionRecord{Shape: r.Shape.String(), Width: r.Width, Color: FormatColor(r.Color), Z: r.Z}
		for _, p := range r.Points {
			rec.Points = append(rec.Points, PointOf(p))
		}
		regions = append(regions, rec)
	}
	return walls, regions
}
