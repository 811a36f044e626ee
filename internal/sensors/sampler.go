package sensors

import (
	"image/color"
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/geometry"
	"github.com/san-kum/robosim/internal/noise"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/world"
)

const (
	SensorWidth          = 12.0
	TouchStrokeIncrement = 10.0
	TouchWallStroke      = 10.0

	MaxLightValue = 1023

	ColorDispersion = 2.0
	LightDispersion = 1.0
	SonarDispersion = 1.5
	// SaltPepperPercent is the share of light samples forced to black or
	// white when sensor noise is on.
	SaltPepperPercent = 20.0
)

// Palette codes reported by a ColorFull sensor.
const (
	CodeOther = iota
	CodeBlack
	CodeBlue
	CodeGreen
	CodeYellow
	CodeRed
	CodeWhite
	CodeCyan
	CodeMagenta
)

var paletteCodes = map[uint32]int{
	pack(world.Black):   CodeBlack,
	pack(world.Blue):    CodeBlue,
	pack(world.Green):   CodeGreen,
	pack(world.Yellow):  CodeYellow,
	pack(world.Red):     CodeRed,
	pack(world.White):   CodeWhite,
	pack(world.Cyan):    CodeCyan,
	pack(world.Magenta): CodeMagenta,
}

var codeNames = map[string]int{
	"other":   CodeOther,
	"black":   CodeBlack,
	"blue":    CodeBlue,
	"green":   CodeGreen,
	"yellow":  CodeYellow,
	"red":     CodeRed,
	"white":   CodeWhite,
	"cyan":    CodeCyan,
	"magenta": CodeMagenta,
}

// ColorCode maps a palette name to the code a ColorFull sensor reports.
func ColorCode(name string) (int, bool) {
	code, ok := codeNames[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// streamSalt separates the sensor noise stream from the motor noise
// stream drawn from the same configured seed.
const streamSalt = 0x5e4503

// Sampler reads the sensors of one robot against its world. Sensor noise
// has its own generator, so polling sensors more or less often never
// changes the motor noise and hence the trajectory.
type Sampler struct {
	model   *robot.Model
	sensors *Configuration
	noise   *noise.Generator
}

func NewSampler(m *robot.Model, c *Configuration) *Sampler {
	s := &Sampler{model: m, sensors: c}
	s.Reset()
	return s
}

// Reset restarts the sensor noise stream from the model's seed.
func (s *Sampler) Reset() {
	if seed := s.model.Config().Seed; seed != 0 {
		s.noise = noise.New(seed ^ streamSalt)
	} else {
		s.noise = noise.NewUnseeded()
	}
}

func (s *Sampler) Configuration() *Configuration { return s.sensors }

func (s *Sampler) noisy() bool { return s.model.Config().SensorNoise }

func (s *Sampler) draw(dispersion float64) float64 {
	return s.noise.Generate(s.model.Config().NoiseApproximationLevel, dispersion)
}

// Locate returns the sensor's position in the world and its direction in
// degrees.
func (s *Sampler) Locate(port int) (r2.Point, float64) {
	pose := s.model.Pose()
	m := s.sensors.Mount(port)
	return pose.Position.Add(geometry.Rotate(m.Offset, pose.Angle)), pose.Angle + m.Rotation
}

// Read dispatches on the configured type of port.
func (s *Sampler) Read(port int) (int, error) {
	if err := checkPort(port); err != nil {
		return 0, err
	}
	switch t := s.sensors.Type(port); {
	case t.IsTouch():
		return s.Touch(port), nil
	case t == Sonar:
		return s.Sonar(port), nil
	case t == Light:
		return s.Light(port), nil
	case t.IsColor():
		return s.Color(port), nil
	default:
		return 0, nil
	}
}

// Touch returns 1 when a wall lies within reach of the bumper, 0 otherwise
// or when the port is not a touch sensor.
func (s *Sampler) Touch(port int) int {
	if !s.sensors.Type(port).IsTouch() {
		return 0
	}
	pos, _ := s.Locate(port)
	pad := geometry.RectPolygon(pos, SensorWidth+TouchStrokeIncrement)
	if s.model.World().CheckCollision(pad, TouchWallStroke) {
		return 1
	}
	return 0
}

func (s *Sampler) Sonar(port int) int {
	pos, dir := s.Locate(port)
	d := s.model.World().SonarReading(pos, dir)
	if !s.noisy() {
		return d
	}
	ran := s.draw(SonarDispersion)
	return geometry.Truncate(0, world.SonarRange, int(math.Round(float64(d)+ran)))
}

// scan returns the floor colors under the sensor's square footprint, one
// per pixel.
func (s *Sampler) scan(port int) []color.RGBA {
	pos, _ := s.Locate(port)
	w := s.model.World()
	half := SensorWidth / 2
	n := int(SensorWidth)

	pixels := make([]color.RGBA, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			p := r2.Point{X: pos.X - half + float64(i) + 0.5, Y: pos.Y - half + float64(j) + 0.5}
			pixels = append(pixels, w.ColorAt(p))
		}
	}
	return pixels
}

func (s *Sampler) Color(port int) int {
	t := s.sensors.Type(port)
	if !t.IsColor() {
		return 0
	}
	pixels := s.scan(port)
	counts := make(map[uint32]int)
	for _, c := range pixels {
		if s.noisy() {
			c = s.spoilColor(c)
		}
		counts[pack(c)]++
	}
	n := float64(len(pixels))

	switch t {
	case ColorFull:
		return colorCode(counts)
	case ColorRed:
		return int(float64(counts[pack(world.Red)]) / n * 100)
	case ColorGreen:
		return int(float64(counts[pack(world.Green)]) / n * 100)
	case ColorBlue:
		return int(float64(counts[pack(world.Blue)]) / n * 100)
	default:
		return colorNone(counts, n)
	}
}

// colorCode picks the most frequent color, breaking ties by the lowest
// packed RGB value.
func colorCode(counts map[uint32]int) int {
	var best uint32
	most := -1
	for c, n := range counts {
		if n > most || (n == most && c < best) {
			best, most = c, n
		}
	}
	return paletteCodes[best]
}

func colorNone(counts map[uint32]int, n float64) int {
	white := pack(world.White)
	sum := float64(counts[white])
	for c, k := range counts {
		if c == white {
			continue
		}
		r, g, b := float64(c>>16&0xff), float64(c>>8&0xff), float64(c&0xff)
		sum += float64(k) * math.Sqrt(r*r+g*g+b*b) / 500
	}
	return geometry.Truncate(0, 100, int(sum/n*100))
}

func (s *Sampler) spoilColor(c color.RGBA) color.RGBA {
	ran := s.draw(ColorDispersion)
	shift := func(v uint8) uint8 {
		return uint8(geometry.Truncate(0, 255, int(math.Round(float64(v)+ran))))
	}
	return color.RGBA{R: shift(c.R), G: shift(c.G), B: shift(c.B), A: c.A}
}

// Light returns the mean brightness under the sensor in percent of
// MaxLightValue.
func (s *Sampler) Light(port int) int {
	if s.sensors.Type(port) != Light {
		return 0
	}
	pixels := s.scan(port)
	sum := 0
	for _, c := range pixels {
		if s.noisy() {
			c = s.spoilLight(c)
		}
		brightness := int(0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B))
		sum += 4 * brightness
	}
	raw := sum / len(pixels)
	return geometry.Truncate(0, 100, int(float64(raw)*100/MaxLightValue))
}

func (s *Sampler) spoilLight(c color.RGBA) color.RGBA {
	ran := s.draw(LightDispersion)
	threshold := 1 - SaltPepperPercent/100
	switch {
	case ran > threshold:
		return world.White
	case ran < -threshold:
		return world.Black
	}
	return c
}

func pack(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
