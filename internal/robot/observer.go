package robot

import "github.com/golang/geo/r2"

// Snapshot is the state published to observers after every tick.
type Snapshot struct {
	Tick            int64
	Time            float64
	Pose            Pose
	Velocity        r2.Point
	AngularVelocity float64
	Touching        bool
	Engines         [EngineCount]Engine
}

type Observer interface {
	OnTick(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnTick(s Snapshot) { f(s) }

func (m *Model) AddObserver(o Observer) { m.observers = append(m.observers, o) }

// OnMotorFinished registers fn to run once each time a motor reaches its
// turnover limit.
func (m *Model) OnMotorFinished(fn func(Port)) {
	m.motorFinished = append(m.motorFinished, fn)
}

// OnContactChange registers fn to run whenever the set of touched walls
// differs from the previous tick.
func (m *Model) OnContactChange(fn func(Contacts)) {
	m.contactChange = append(m.contactChange, fn)
}

// Snapshot returns the current state in the form observers receive.
func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		Tick:            m.ticks,
		Time:            float64(m.ticks) * TimeInterval,
		Pose:            m.pose,
		Velocity:        m.velocity,
		AngularVelocity: m.angularVelocity,
		Touching:        m.contacts.Any(),
		Engines:         m.engines,
	}
}

func (m *Model) notifyTick() {
	if len(m.observers) == 0 {
		return
	}
	s := m.Snapshot()
	for _, o := range m.observers {
		o.OnTick(s)
	}
}

func (m *Model) notifyMotorFinished(p Port) {
	for _, fn := range m.motorFinished {
		fn(p)
	}
}

func (m *Model) notifyContactChange() {
	for _, fn := range m.contactChange {
		fn(m.contacts)
	}
}
