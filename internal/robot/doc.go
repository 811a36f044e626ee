// Package robot simulates a two-wheeled differential-drive robot moving
// among the walls of a [world.World].
//
// A [Model] advances in fixed ticks of [TimeInterval] milliseconds. Each
// tick detects wall contacts, derives traction and torque from the two
// active motors, adds wall reaction and friction, pushes the body back
// out of any wall it penetrated, integrates pose and velocity, and
// finally advances the motor encoders.
//
// # Example
//
//	w := world.Arena(600, 400, 10)
//	m := robot.New(w, robot.SimulationConfig{}, robot.WithLogger(log))
//	m.SetPosition(r2.Point{X: 150, Y: 200})
//	_ = m.SetMotor(50, 0, robot.PortA, false)
//	_ = m.SetMotor(50, 0, robot.PortB, false)
//	for i := 0; i < 200; i++ {
//		m.Tick()
//	}
//
// # Thread Safety
//
// A Model is NOT safe for concurrent use. Drive it from a single goroutine,
// typically the one running the timeline.
package robot
