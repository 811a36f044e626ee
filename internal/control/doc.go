// Package control provides the feedback controller used by closed-loop
// program steps.
//
//   - [PID]: Proportional-Integral-Derivative controller
//
// # Usage
//
//	pid := control.NewPID(0.8, 0, 2, 50) // Kp, Ki, Kd, setpoint
//	u := pid.Update(float64(light), robot.TimeInterval)
//
// Gains can be changed between updates with [PID.SetParam].
package control
