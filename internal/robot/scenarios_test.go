package robot_test

import (
	"math"

	"github.com/golang/geo/r2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sensors"
	"github.com/san-kum/robosim/internal/world"
)

func run(m *robot.Model, ticks int) {
	for i := 0; i < ticks; i++ {
		m.Tick()
	}
}

func drive(m *robot.Model, left, right int) {
	Expect(m.SetMotor(left, 0, robot.PortA, false)).To(Succeed())
	Expect(m.SetMotor(right, 0, robot.PortB, false)).To(Succeed())
}

// oneTickReach bounds how far any point of the body moves in the single
// integration step that follows positional correction: full wheel speed
// for the center, doubled to cover rotation.
var oneTickReach = 2 * robot.MaxSpeed * 2 * math.Pi * robot.WheelRadius * robot.OnePercentAngularVelocity / 360 * robot.TimeInterval

// penetration is the deepest a body vertex sits inside a wall, or a wall
// corner inside the body.
func penetration(m *robot.Model) float64 {
	deepest := 0.0
	body := m.Body()
	for _, w := range m.World().Walls() {
		for i, v := range m.Vertices() {
			if w.Contains(v) {
				deepest = math.Max(deepest, w.Polygon().BoundaryDistance(v))
			}
			if corner := w.Point(i); body.Contains(corner) {
				deepest = math.Max(deepest, body.BoundaryDistance(corner))
			}
		}
	}
	return deepest
}

func verticesOutside(m *robot.Model) bool {
	for _, v := range m.Vertices() {
		for _, w := range m.World().Walls() {
			if w.Contains(v) {
				return false
			}
		}
	}
	return true
}

var _ = Describe("Model", func() {
	var m *robot.Model

	Context("in an open field", func() {
		BeforeEach(func() {
			m = robot.New(world.New(), robot.SimulationConfig{Seed: 1})
			m.SetStartPose(robot.Pose{Position: r2.Point{X: 300, Y: 300}})
		})

		It("stays put without commands", func() {
			run(m, 500)
			Expect(m.Pose()).To(Equal(robot.Pose{Position: r2.Point{X: 300, Y: 300}}))
			Expect(m.Velocity()).To(Equal(r2.Point{}))
		})

		It("accelerates towards the mean wheel speed along its heading", func() {
			drive(m, 50, 50)
			run(m, 3000)

			wheel := 50 * 2 * math.Pi * robot.WheelRadius * robot.OnePercentAngularVelocity / 360
			Expect(m.Velocity().X).To(BeNumerically("~", wheel, wheel*0.01))
			Expect(m.Velocity().Y).To(BeNumerically("~", 0, 1e-12))
			Expect(m.Pose().Position.X).To(BeNumerically(">", 300))
			Expect(m.AngularVelocity()).To(BeNumerically("~", 0, 1e-12))
		})

		It("slows down monotonically once the motors are released", func() {
			drive(m, 50, 50)
			run(m, 600)
			drive(m, 0, 0)

			previous := m.Velocity().Norm()
			Expect(previous).To(BeNumerically(">", 0))
			for i := 0; i < 3000; i++ {
				m.Tick()
				speed := m.Velocity().Norm()
				Expect(speed).To(BeNumerically("<=", previous))
				previous = speed
			}
			Expect(previous).To(BeNumerically("<", 1e-4))
		})

		It("stops quickly when braking", func() {
			drive(m, 50, 50)
			run(m, 600)
			m.Stop()
			run(m, 150)
			Expect(m.Velocity().Norm()).To(BeNumerically("<", 1e-4))
		})

		It("turns on the spot with opposite wheel speeds", func() {
			drive(m, 50, -50)
			run(m, 200)

			Expect(m.AngularVelocity()).To(BeNumerically(">", 0))
			Expect(m.Pose().Angle).To(BeNumerically(">", 0))
			Expect(m.Pose().Position.Sub(r2.Point{X: 300, Y: 300}).Norm()).To(BeNumerically("<", 1e-6))
		})

		It("lets angular velocity die out once the torque is gone", func() {
			drive(m, 50, -50)
			run(m, 200)
			drive(m, 0, 0)
			run(m, 200)
			Expect(m.AngularVelocity()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Context("facing a wall", func() {
		var sampler *sensors.Sampler

		BeforeEach(func() {
			w := world.New(world.NewWall(r2.Point{X: 300, Y: 0}, r2.Point{X: 300, Y: 400}, 10))
			m = robot.New(w, robot.SimulationConfig{Seed: 1})
			m.SetStartPose(robot.Pose{Position: r2.Point{X: 200, Y: 200}})

			cfg := sensors.NewConfiguration()
			Expect(cfg.Set(1, sensors.TouchBoolean)).To(Succeed())
			sampler = sensors.NewSampler(m, cfg)
		})

		It("comes to rest against the wall with the bumper pressed", func() {
			Expect(sampler.Touch(1)).To(Equal(0))

			drive(m, 50, 50)
			run(m, 4000)

			Expect(sampler.Touch(1)).To(Equal(1))
			x := m.Pose().Position.X
			Expect(x).To(BeNumerically("~", 295-robot.RobotWidth/2, 0.5))

			run(m, 500)
			Expect(m.Pose().Position.X).To(BeNumerically("~", x, 0.01))
			Expect(m.Pose().Position.Y).To(BeNumerically("~", 200, 1e-9))
		})

		It("never ends a tick deeper in the wall than one step of travel", func() {
			drive(m, 70, 70)
			inside := 0
			for i := 0; i < 3000; i++ {
				m.Tick()
				depth := penetration(m)
				Expect(depth).To(BeNumerically("<=", oneTickReach), "tick %d", i)
				if depth > 0 {
					inside++
				}
			}
			// only the arrival tick may end inside; resting contact holds
			Expect(inside).To(BeNumerically("<=", 1))
			Expect(verticesOutside(m)).To(BeTrue())
			Expect(m.Contacts().Any()).To(BeTrue())
			Expect(m.Pose().Angle).To(BeNumerically("~", 0, 1e-9))
		})

		It("pushes an overlapping body out and is idempotent", func() {
			m.SetPosition(r2.Point{X: 273, Y: 200})
			Expect(verticesOutside(m)).To(BeFalse())

			m.PushOutOfWalls()
			Expect(verticesOutside(m)).To(BeTrue())
			Expect(m.Pose().Position.X).To(BeNumerically("~", 270, 1e-9))

			settled := m.Pose()
			m.PushOutOfWalls()
			Expect(m.Pose()).To(Equal(settled))
		})
	})

	Context("approaching a wall at an angle", func() {
		BeforeEach(func() {
			w := world.New(world.NewWall(r2.Point{X: 300, Y: -1000}, r2.Point{X: 300, Y: 1400}, 10))
			m = robot.New(w, robot.SimulationConfig{Seed: 1})
			m.SetStartPose(robot.Pose{Position: r2.Point{X: 200, Y: 200}, Angle: 20})
		})

		It("stays out of the wall and turns towards it", func() {
			drive(m, 70, 70)
			touched := false
			for i := 0; i < 3000; i++ {
				m.Tick()
				Expect(penetration(m)).To(BeNumerically("<=", oneTickReach), "tick %d", i)
				touched = touched || m.Contacts().Any()
			}
			Expect(touched).To(BeTrue())
			Expect(math.Abs(m.Pose().Angle)).To(BeNumerically("<", 20))
			for _, v := range m.Vertices() {
				Expect(v.X).To(BeNumerically("<=", 295+oneTickReach))
			}
		})
	})

	Context("running into a wall corner", func() {
		BeforeEach(func() {
			// a short post whose left corners meet the middle of the front border
			w := world.New(world.NewWall(r2.Point{X: 240, Y: 200}, r2.Point{X: 260, Y: 200}, 10))
			m = robot.New(w, robot.SimulationConfig{Seed: 1})
			m.SetStartPose(robot.Pose{Position: r2.Point{X: 200, Y: 200}})
		})

		It("records edge contacts and rests with the corners on the border", func() {
			edges := 0
			m.OnContactChange(func(c robot.Contacts) {
				for _, w := range c.EdgeWalls {
					if w != nil {
						edges++
						return
					}
				}
			})

			drive(m, 50, 50)
			for i := 0; i < 2000; i++ {
				m.Tick()
				Expect(penetration(m)).To(BeNumerically("<=", oneTickReach), "tick %d", i)
			}

			Expect(edges).To(BeNumerically(">", 0))
			Expect(m.Pose().Position.X).To(BeNumerically("~", 240-robot.RobotWidth/2, 1e-6))
			Expect(m.Pose().Position.Y).To(BeNumerically("~", 200, 1e-9))
			Expect(m.Pose().Angle).To(BeNumerically("~", 0, 1e-9))
			Expect(penetration(m)).To(BeZero())
		})
	})

	Context("with a limited motor", func() {
		BeforeEach(func() {
			m = robot.New(world.New(), robot.SimulationConfig{Seed: 1})
		})

		It("notifies exactly once and freezes the encoder", func() {
			var finished []robot.Port
			m.OnMotorFinished(func(p robot.Port) { finished = append(finished, p) })

			Expect(m.SetMotor(80, 360, robot.PortB, false)).To(Succeed())
			run(m, 1000)
			turnover, err := m.ReadEncoder(robot.PortB)
			Expect(err).NotTo(HaveOccurred())

			run(m, 1000)
			again, _ := m.ReadEncoder(robot.PortB)

			Expect(finished).To(Equal([]robot.Port{robot.PortB}))
			Expect(turnover).To(BeNumerically("~", 360, 1e-9))
			Expect(again).To(Equal(turnover))
		})
	})
})
