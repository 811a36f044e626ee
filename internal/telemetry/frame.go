package telemetry

import "github.com/san-kum/robosim/internal/robot"

type EngineFrame struct {
	Port     string  `json:"port"`
	Speed    int     `json:"speed"`
	Mode     string  `json:"mode"`
	Turnover float64 `json:"turnover"`
}

// Frame is the JSON message pushed to viewers once per rendered frame.
type Frame struct {
	Tick     int64         `json:"tick"`
	Time     float64       `json:"time"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Angle    float64       `json:"angle"`
	Vx       float64       `json:"vx"`
	Vy       float64       `json:"vy"`
	Omega    float64       `json:"omega"`
	Touching bool          `json:"touching"`
	Beep     uint          `json:"beep,omitempty"`
	Engines  []EngineFrame `json:"engines"`
}

func FrameOf(s robot.Snapshot) Frame {
	f := Frame{
		Tick:     s.Tick,
		Time:     s.Time,
		X:        s.Pose.Position.X,
		Y:        s.Pose.Position.Y,
		Angle:    s.Pose.Angle,
		Vx:       s.Velocity.X,
		Vy:       s.Velocity.Y,
		Omega:    s.AngularVelocity,
		Touching: s.Touching,
		Engines:  make([]EngineFrame, 0, robot.EngineCount),
	}
	for i, e := range s.Engines {
		if !e.Used {
			continue
		}
		f.Engines = append(f.Engines, EngineFrame{
			Port:     robot.Port(i).String(),
			Speed:    e.Spoiled,
			Mode:     e.Mode.String(),
			Turnover: e.Turnover,
		})
	}
	return f
}

// ModelFrame captures m's current state, including an active beep.
func ModelFrame(m *robot.Model) Frame {
	f := FrameOf(m.Snapshot())
	if m.Beeping() {
		f.Beep = m.BeepFrequency()
	}
	return f
}
