package world

import "github.com/golang/geo/r2"

// Arena returns a closed rectangular field with its top-left corner at the
// origin.
func Arena(width, height, thickness float64) *World {
	tl := r2.Point{}
	tr := r2.Point{X: width}
	br := r2.Point{X: width, Y: height}
	bl := r2.Point{Y: height}

	w := New(
		NewWall(tl, tr, thickness),
		NewWall(tr, br, thickness),
		NewWall(br, bl, thickness),
		NewWall(bl, tl, thickness),
	)
	for i, id := range []string{"north", "east", "south", "west"} {
		w.walls[i].ID = id
	}
	return w
}

// ExampleFile is the field written by `robosim init-world`: an arena with a
// black line loop, a colored patch and an obstacle.
func ExampleFile() *File {
	w := Arena(600, 400, 10)
	w.AddWall(NewWall(r2.Point{X: 400, Y: 120}, r2.Point{X: 400, Y: 280}, 12))
	w.walls[4].ID = "obstacle"
	w.AddRegion(&Region{
		Shape:  ShapeLine,
		Points: []r2.Point{{X: 80, Y: 80}, {X: 320, Y: 80}, {X: 320, Y: 320}, {X: 80, Y: 320}, {X: 80, Y: 80}},
		Width:  12,
		Color:  Black,
		Z:      1,
	})
	w.AddRegion(&Region{
		Shape:  ShapeEllipse,
		Points: []r2.Point{{X: 480, Y: 300}, {X: 560, Y: 370}},
		Color:  Red,
	})

	walls, regions := Records(w)
	return &File{
		Name:    "example",
		Walls:   walls,
		Regions: regions,
		Robot:   &RobotRecord{Position: "150:200", Direction: "0"},
		Sensors: map[int]SensorRecord{
			1: {Type: "touch"},
			2: {Type: "sonar"},
			3: {Type: "light", Offset: &Point{20, 0}},
		},
	}
}
