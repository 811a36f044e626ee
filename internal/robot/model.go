package robot

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/geometry"
	"github.com/san-kum/robosim/internal/noise"
	"github.com/san-kum/robosim/internal/world"
	"go.uber.org/zap"
)

// SimulationConfig switches the noise sources of a Model.
type SimulationConfig struct {
	SensorNoise             bool
	MotorNoise              bool
	NoiseApproximationLevel uint
	// Seed feeds the noise generator; zero seeds from the clock.
	Seed int64
}

// Contacts records which wall touches which part of the body. Walls is
// indexed by vertex, EdgeWalls by border (border i runs from vertex i to
// vertex i+1).
type Contacts struct {
	Walls     [4]*world.Wall
	EdgeWalls [4]*world.Wall
}

func (c Contacts) Any() bool {
	for i := 0; i < 4; i++ {
		if c.Walls[i] != nil || c.EdgeWalls[i] != nil {
			return true
		}
	}
	return false
}

type Model struct {
	world *world.World
	cfg   SimulationConfig
	noise *noise.Generator
	log   *zap.Logger

	pose            Pose
	start           Pose
	velocity        r2.Point
	angularVelocity float64
	tractionForce   r2.Point
	forceMoment     float64

	engines  [EngineCount]Engine
	vertices [4]r2.Point
	borders  [4]geometry.Segment

	contacts     Contacts
	previous     Contacts
	insidePoints []r2.Point

	ticks  int64
	halted bool
	beep   beep

	observers     []Observer
	motorFinished []func(Port)
	contactChange []func(Contacts)
}

type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = l }
}

func New(w *world.World, cfg SimulationConfig, opts ...Option) *Model {
	m := &Model{world: w, cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	m.seedNoise()
	m.engines = idleEngines()
	m.updateCoord()
	return m
}

// seedNoise restarts the motor noise stream; a seeded model replays the
// same draws after every Reset.
func (m *Model) seedNoise() {
	if m.cfg.Seed != 0 {
		m.noise = noise.New(m.cfg.Seed)
	} else {
		m.noise = noise.NewUnseeded()
	}
	m.noise.SetApproximationLevel(m.cfg.NoiseApproximationLevel)
}

func (m *Model) World() *world.World          { return m.world }
func (m *Model) Config() SimulationConfig     { return m.cfg }
func (m *Model) Noise() *noise.Generator      { return m.noise }
func (m *Model) Pose() Pose                   { return m.pose }
func (m *Model) Velocity() r2.Point           { return m.velocity }
func (m *Model) AngularVelocity() float64     { return m.angularVelocity }
func (m *Model) Vertices() [4]r2.Point        { return m.vertices }
func (m *Model) Contacts() Contacts           { return m.contacts }
func (m *Model) Engines() [EngineCount]Engine { return m.engines }
func (m *Model) Ticks() int64                 { return m.ticks }
func (m *Model) Halted() bool                 { return m.halted }
func (m *Model) InsidePoints() []r2.Point     { return append([]r2.Point(nil), m.insidePoints...) }

func (m *Model) Body() geometry.Polygon {
	return geometry.Polygon{m.vertices[0], m.vertices[1], m.vertices[2], m.vertices[3]}
}

// Engine returns the zero Engine for an invalid port.
func (m *Model) Engine(p Port) Engine {
	if !p.Valid() {
		return Engine{}
	}
	return m.engines[p]
}

func (m *Model) SetConfig(cfg SimulationConfig) {
	m.cfg = cfg
	m.noise.SetApproximationLevel(cfg.NoiseApproximationLevel)
}

func (m *Model) SetPosition(p r2.Point) {
	m.pose.Position = p
	m.updateCoord()
}

// SetRotation sets the heading, normalized to [0, 360).
func (m *Model) SetRotation(angle float64) {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	m.pose.Angle = angle
	m.updateCoord()
}

// SetStartPose sets both the current pose and the pose Reset returns to.
func (m *Model) SetStartPose(p Pose) {
	m.start = p
	m.pose = p
	m.updateCoord()
}

// Load applies a persisted pose as the start pose.
func (m *Model) Load(rec world.RobotRecord) error {
	p, err := PoseFromRecord(rec)
	if err != nil {
		return err
	}
	m.SetStartPose(p)
	return nil
}

// SetMotor commands one engine. A non-zero degrees limits the run to that
// many degrees of wheel rotation, after which the engine stops on its own.
func (m *Model) SetMotor(speed, degrees int, port Port, brake bool) error {
	if !port.Valid() {
		return &ConfigurationError{Setting: "motor port", Value: strconv.Itoa(int(port)), Err: ErrUnknownPort}
	}
	speed = geometry.Truncate(-MaxSpeed, MaxSpeed, speed)
	e := &m.engines[port]
	if speed == 0 || e.Speed == 0 {
		e.Factor = 0
	}
	e.Speed = speed
	e.Brake = brake
	e.Used = true
	e.Progress = 0
	e.Degrees = 0
	e.Mode = Infinite
	if degrees != 0 {
		e.Mode = ByLimit
		e.Degrees = abs(degrees)
	}
	m.log.Debug("motor set",
		zap.Stringer("port", port),
		zap.Int("speed", speed),
		zap.Int("degrees", degrees),
		zap.Bool("brake", brake))
	return nil
}

// Stop zeroes every motor and engages the brakes.
func (m *Model) Stop() {
	for i := range m.engines {
		m.engines[i].halt()
		m.engines[i].Brake = true
		if m.engines[i].Mode == ByLimit {
			m.engines[i].Mode = Infinite
		}
	}
}

// Halt freezes the model: subsequent ticks do nothing until Resume.
func (m *Model) Halt()   { m.halted = true }
func (m *Model) Resume() { m.halted = false }

// Reset returns to the start pose with all motion, motors, contacts and
// counters cleared.
func (m *Model) Reset() {
	m.pose = m.start
	m.velocity = r2.Point{}
	m.angularVelocity = 0
	m.tractionForce = r2.Point{}
	m.forceMoment = 0
	m.engines = idleEngines()
	m.contacts = Contacts{}
	m.previous = Contacts{}
	m.insidePoints = m.insidePoints[:0]
	m.ticks = 0
	m.halted = false
	m.beep = beep{}
	if m.cfg.Seed != 0 {
		m.seedNoise()
	}
	m.updateCoord()
}

func (m *Model) ReadEncoder(p Port) (float64, error) {
	if !p.Valid() {
		return 0, &ConfigurationError{Setting: "motor port", Value: strconv.Itoa(int(p)), Err: ErrUnknownPort}
	}
	return m.engines[p].Turnover, nil
}

func (m *Model) ResetEncoder(p Port) error {
	if !p.Valid() {
		return &ConfigurationError{Setting: "motor port", Value: strconv.Itoa(int(p)), Err: ErrUnknownPort}
	}
	m.engines[p].Turnover = 0
	return nil
}

type beep struct {
	frequency uint
	remaining time.Duration
}

func (m *Model) SetBeep(frequency uint, duration time.Duration) {
	m.beep = beep{frequency: frequency, remaining: duration}
}

func (m *Model) Beeping() bool { return m.beep.remaining > 0 }

func (m *Model) BeepFrequency() uint { return m.beep.frequency }

// CountBeep consumes one frame of the current beep and reports whether it
// was sounding during that frame.
func (m *Model) CountBeep(frame time.Duration) bool {
	if m.beep.remaining <= 0 {
		return false
	}
	m.beep.remaining -= frame
	return true
}

// Tick advances the model by TimeInterval.
func (m *Model) Tick() {
	if m.halted {
		return
	}
	m.previous = m.contacts
	m.contacts = Contacts{}
	m.insidePoints = m.insidePoints[:0]

	m.updateCoord()
	for _, wall := range m.world.Walls() {
		m.findCollision(wall)
	}
	m.updateCoord()
	if m.contacts != m.previous {
		m.log.Debug("contacts changed", zap.Bool("touching", m.contacts.Any()), zap.Int64("tick", m.ticks))
		m.notifyContactChange()
	}
	if m.halted {
		return
	}

	m.countNewForces()
	m.PushOutOfWalls()
	m.nextStep()
	m.countMotorTurnover()
	m.ticks++
	m.notifyTick()
}

func (m *Model) updateCoord() {
	c := m.pose.Position
	dir := geometry.DirectionVector(m.pose.Angle)
	front := dir.Mul(RobotWidth / 2)
	side := r2.Point{X: dir.Y, Y: -dir.X}.Mul(RobotHeight / 2)

	m.vertices[0] = c.Add(front).Add(side)
	m.vertices[1] = c.Add(front).Sub(side)
	m.vertices[2] = c.Sub(front).Sub(side)
	m.vertices[3] = c.Sub(front).Add(side)
	for i := 0; i < 4; i++ {
		m.borders[i] = geometry.Segment{A: m.vertices[i], B: m.vertices[(i+1)%4]}
	}
}

func (m *Model) findCollision(wall *world.Wall) {
	body := m.Body()
	if !wall.Intersects(body) && !m.resting(wall, body) {
		for i := 0; i < 4; i++ {
			if m.previous.Walls[i] == wall || m.previous.EdgeWalls[i] == wall {
				m.angularVelocity = 0
			}
		}
		return
	}

	for i := 0; i < 4; i++ {
		v := m.vertices[i]
		if wall.Contains(v) || wall.Polygon().BoundaryDistance(v) <= ContactSlop {
			inward := wall.Inward(wall.ClosestLine(v))
			if m.velocity.Dot(inward) > 0 {
				m.velocity = m.velocity.Sub(geometry.Projection(m.velocity, inward))
			}
			m.contacts.Walls[i] = wall
		}

		corner := wall.Point(i)
		if body.Contains(corner) || body.BoundaryDistance(corner) <= ContactSlop {
			m.velocity = r2.Point{}
			m.angularVelocity = 0
			m.insidePoints = append(m.insidePoints, corner)
			m.contacts.EdgeWalls[m.nearestBorder(corner)] = wall
		}
	}
}

// resting reports whether the body touches the wall within ContactSlop,
// which is where PushOutOfWalls leaves it.
func (m *Model) resting(wall *world.Wall, body geometry.Polygon) bool {
	for i := 0; i < 4; i++ {
		if wall.Polygon().BoundaryDistance(m.vertices[i]) <= ContactSlop ||
			body.BoundaryDistance(wall.Point(i)) <= ContactSlop {
			return true
		}
	}
	return false
}

func (m *Model) nearestBorder(p r2.Point) int {
	best, minimum := 0, math.Inf(1)
	for i := 0; i < 4; i++ {
		if d := m.borders[i].Distance(p); d < minimum {
			best, minimum = i, d
		}
	}
	return best
}

func (m *Model) spoil(speed int) int {
	if !m.cfg.MotorNoise || speed == 0 {
		return speed
	}
	ran := m.noise.Draw(MotorDispersion)
	return geometry.Truncate(-MaxSpeed, MaxSpeed, int(math.Round(float64(speed)*(1+ran))))
}

func (m *Model) wheelSpeed(e Engine) float64 {
	return float64(e.Spoiled) * 2 * math.Pi * WheelRadius * OnePercentAngularVelocity / 360 * e.Factor
}

func (m *Model) countNewForces() {
	for i := range m.engines {
		m.engines[i].ramp()
		m.engines[i].Spoiled = m.spoil(m.engines[i].Speed)
	}
	left, right := ActivePair(m.engines)
	el, er := m.engines[left], m.engines[right]

	m.countTraction(m.wheelSpeed(el), m.wheelSpeed(er), el.Brake || er.Brake)
	m.countWallForces()
	m.recalculateVelocity()
	m.applyLateralFriction()
}

func (m *Model) countTraction(speed1, speed2 float64, brake bool) {
	if geometry.Eq(speed1, 0) && geometry.Eq(speed2, 0) {
		k := FloorFriction
		if brake {
			k = BrakeFriction
		}
		m.tractionForce = m.velocity.Mul(-k)
		m.forceMoment = 0
		return
	}

	c := m.pose.Position
	dir := geometry.DirectionVector(m.pose.Angle)
	f1 := dir.Mul(speed1)
	f2 := dir.Mul(speed2)

	m.tractionForce = f1.Add(f2).Mul(FloorFriction / 2).Sub(m.velocity.Mul(FloorFriction))
	m.forceMoment = -geometry.VectorProduct(f1, m.vertices[0].Sub(c)) -
		geometry.VectorProduct(f2, m.vertices[1].Sub(c))
}

func (m *Model) countWallForces() {
	c := m.pose.Position
	for _, g := range m.contactGroups() {
		arm := g.point().Sub(c)

		var reaction r2.Point
		if m.tractionForce.Dot(g.normal) > 0 {
			reaction = geometry.Projection(m.tractionForce, g.normal).Mul(-1)
		}
		friction := m.wallFriction(g.along, reaction.Norm())

		m.tractionForce = m.tractionForce.Add(reaction).Add(friction)
		m.forceMoment -= geometry.VectorProduct(friction, arm)
		m.forceMoment -= geometry.VectorProduct(reaction, arm)
	}
}

// contactGroup collects the contact points that share one border. The
// reaction acts once per group, at the mean of its points.
type contactGroup struct {
	// normal points from the body into the obstacle.
	normal r2.Point
	along  r2.Point
	points []r2.Point
}

func (g *contactGroup) point() r2.Point {
	var sum r2.Point
	for _, p := range g.points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(g.points)))
}

type contactKey struct {
	wall *world.Wall
	line int
}

func (m *Model) contactGroups() []*contactGroup {
	var groups []*contactGroup
	index := make(map[contactKey]*contactGroup)
	add := func(key contactKey, normal, along, p r2.Point) {
		g, ok := index[key]
		if !ok {
			g = &contactGroup{normal: normal, along: along}
			index[key] = g
			groups = append(groups, g)
		}
		g.points = append(g.points, p)
	}

	for i := 0; i < 4; i++ {
		wall := m.contacts.Walls[i]
		if wall == nil {
			continue
		}
		v := m.vertices[i]
		line := wall.ClosestLine(v)
		add(contactKey{wall, line}, wall.Inward(line), wall.Line(line).Direction(), v)
	}

	c := m.pose.Position
	for _, p := range m.insidePoints {
		i := m.nearestBorder(p)
		b := m.borders[i]
		outward := b.A.Add(b.B).Mul(0.5).Sub(c).Normalize()
		add(contactKey{nil, i}, outward, b.Direction(), p)
	}
	return groups
}

// wallFriction opposes sliding along the wall. A body at rest along the
// wall only gets static friction up to the traction pushing it.
func (m *Model) wallFriction(along r2.Point, normal float64) r2.Point {
	limit := normal * WallFriction
	if limit == 0 {
		return r2.Point{}
	}
	if slide := m.velocity.Dot(along); math.Abs(slide) > geometry.Epsilon {
		return along.Mul(-geometry.Sign(slide) * limit)
	}
	push := m.tractionForce.Dot(along)
	return along.Mul(-geometry.Sign(push) * math.Min(limit, math.Abs(push)))
}

func (m *Model) recalculateVelocity() {
	m.velocity = m.velocity.Add(m.tractionForce.Mul(TimeInterval / Mass))

	friction := AngularFriction * math.Abs(m.angularVelocity) / Inertia * TimeInterval
	m.angularVelocity += m.forceMoment / Inertia * TimeInterval
	before := m.angularVelocity
	m.angularVelocity -= geometry.Sign(m.angularVelocity) * friction
	if before*m.angularVelocity <= 0 {
		m.angularVelocity = 0
	}
}

// applyLateralFriction damps sideways skidding. The correction is cut
// short so it never flips the velocity component it acts on.
func (m *Model) applyLateralFriction() {
	speed := m.velocity.Norm()
	if speed < geometry.Epsilon {
		return
	}
	dir := geometry.DirectionVector(m.pose.Angle)
	lateral := r2.Point{X: -dir.Y, Y: dir.X}
	sinus := geometry.VectorProduct(m.velocity.Mul(1/speed), lateral)

	force := lateral.Mul(sinus * speed * LateralFriction)
	if force.Dot(m.velocity) > 0 {
		force = force.Mul(-1)
	}
	delta := force.Mul(TimeInterval / Mass)
	next := m.velocity.Add(delta)

	if overshoot := next.Dot(force); overshoot > 0 {
		remaining := -m.velocity.Dot(force)
		m.velocity = m.velocity.Add(delta.Mul(remaining / (remaining + overshoot)))
		return
	}
	m.velocity = next
}

// PushOutOfWalls moves the body so that no vertex lies strictly inside a
// wall and no wall corner lies strictly inside the body. Applying it twice
// in a row moves nothing the second time.
func (m *Model) PushOutOfWalls() {
	for i := 0; i < 4; i++ {
		for _, wall := range m.world.Walls() {
			if v := m.vertices[i]; wall.Contains(v) {
				np := geometry.NormalPoint(wall.ClosestBorder(v), v)
				m.pose.Position = m.pose.Position.Add(np.Sub(v))
				m.updateCoord()
				m.contacts.Walls[i] = wall
			}

			if m.contacts.EdgeWalls[i] != wall {
				continue
			}
			if !wall.Polygon().IntersectsSegment(m.borders[i]) {
				m.contacts.EdgeWalls[i] = nil
				continue
			}
			for j := 0; j < 4; j++ {
				corner := wall.Point(j)
				if m.Body().Contains(corner) {
					np := geometry.NormalPoint(m.borders[i], corner)
					m.pose.Position = m.pose.Position.Add(corner.Sub(np))
					m.updateCoord()
				}
			}
		}
	}
}

func (m *Model) nextStep() {
	m.pose.Position = m.pose.Position.Add(m.velocity.Mul(TimeInterval))
	m.pose.Angle += m.angularVelocity * TimeInterval
	m.updateCoord()
}

func (m *Model) countMotorTurnover() {
	for i := range m.engines {
		e := &m.engines[i]
		if !e.Used {
			continue
		}
		delta := TimeInterval * float64(e.Spoiled) * OnePercentAngularVelocity
		if e.Mode == ByLimit {
			remaining := float64(e.Degrees) - e.Progress
			if math.Abs(delta) >= remaining {
				e.Turnover += geometry.Sign(delta) * remaining
				e.Progress = float64(e.Degrees)
				e.halt()
				e.Mode = Finished
				m.log.Debug("motor finished", zap.Stringer("port", Port(i)), zap.Float64("turnover", e.Turnover))
				m.notifyMotorFinished(Port(i))
				continue
			}
			e.Progress += math.Abs(delta)
		}
		e.Turnover += delta
	}
}

func (m *Model) String() string {
	return fmt.Sprintf("robot at %s heading %s", FormatPosition(m.pose.Position), FormatAngle(m.pose.Angle))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
