package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"github.com/san-kum/robosim/internal/robot"
)

var trajectoryHeader = []string{
	"time", "x", "y", "angle", "vx", "vy", "omega", "touching", "enc_a", "enc_b", "enc_c",
}

// Sample is one recorded row of a run. Time is in milliseconds.
type Sample struct {
	Time     float64                    `json:"time"`
	X        float64                    `json:"x"`
	Y        float64                    `json:"y"`
	Angle    float64                    `json:"angle"`
	Vx       float64                    `json:"vx"`
	Vy       float64                    `json:"vy"`
	Omega    float64                    `json:"omega"`
	Touching bool                       `json:"touching"`
	Encoders [robot.EngineCount]float64 `json:"encoders"`
}

func SampleOf(s robot.Snapshot) Sample {
	out := Sample{
		Time:     s.Time,
		X:        s.Pose.Position.X,
		Y:        s.Pose.Position.Y,
		Angle:    s.Pose.Angle,
		Vx:       s.Velocity.X,
		Vy:       s.Velocity.Y,
		Omega:    s.AngularVelocity,
		Touching: s.Touching,
	}
	for i, e := range s.Engines {
		out.Encoders[i] = e.Turnover
	}
	return out
}

// Recorder keeps every n-th tick snapshot as a Sample.
type Recorder struct {
	every   int64
	samples []Sample
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: int64(every)}
}

func (r *Recorder) OnTick(s robot.Snapshot) {
	if s.Tick%r.every != 0 {
		return
	}
	r.samples = append(r.samples, SampleOf(s))
}

func (r *Recorder) Samples() []Sample { return r.samples }

// Reset starts a new recording. Slices returned by Samples stay intact.
func (r *Recorder) Reset() { r.samples = nil }

// WriteTrajectory encodes samples as zstd-compressed CSV.
func WriteTrajectory(w io.Writer, samples []Sample) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(enc)
	if err := cw.Write(trajectoryHeader); err != nil {
		enc.Close()
		return err
	}
	for _, s := range samples {
		if err := cw.Write(s.record()); err != nil {
			enc.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func ReadTrajectory(r io.Reader) ([]Sample, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = len(trajectoryHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		s, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func (s Sample) record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		f(s.Time), f(s.X), f(s.Y), f(s.Angle), f(s.Vx), f(s.Vy), f(s.Omega),
		strconv.FormatBool(s.Touching),
		f(s.Encoders[0]), f(s.Encoders[1]), f(s.Encoders[2]),
	}
}

func parseRecord(rec []string) (Sample, error) {
	var vals [10]float64
	idx := []int{0, 1, 2, 3, 4, 5, 6, 8, 9, 10}
	for i, col := range idx {
		v, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return Sample{}, fmt.Errorf("%s: %w", trajectoryHeader[col], err)
		}
		vals[i] = v
	}
	touching, err := strconv.ParseBool(rec[7])
	if err != nil {
		return Sample{}, fmt.Errorf("touching: %w", err)
	}

	return Sample{
		Time: vals[0], X: vals[1], Y: vals[2], Angle: vals[3],
		Vx: vals[4], Vy: vals[5], Omega: vals[6],
		Touching: touching,
		Encoders: [robot.EngineCount]float64{vals[7], vals[8], vals[9]},
	}, nil
}
