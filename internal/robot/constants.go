package robot

// Physical constants of the simulated robot. Lengths are in field pixels,
// time in milliseconds, angles in degrees.
const (
	// TimeInterval is the simulated duration of one tick.
	TimeInterval = 5.0

	RobotWidth    = 50.0
	RobotHeight   = 50.0
	WheelDiameter = 16.0
	WheelRadius   = WheelDiameter / 2

	// OnePercentAngularVelocity is the wheel rotation, in degrees per ms,
	// produced by one percent of motor power.
	OnePercentAngularVelocity = 0.0055

	Mass    = 500.0
	Inertia = 100.0

	FloorFriction = 0.3
	WallFriction  = 0.2
	// BrakeFriction is large enough to stop the robot almost at once.
	BrakeFriction = 5.0
	// AngularFriction keeps AngularFriction*TimeInterval/Inertia below one
	// so that damping alone never overshoots zero.
	AngularFriction = 10.0
	LateralFriction = 1500.0

	// ContactSlop is how far a vertex may sit from a wall border and
	// still count as touching it.
	ContactSlop = 1e-6

	MotorDispersion = 0.0125
	// RampTicks is how long a motor starting from rest takes to reach
	// full traction.
	RampTicks = 20

	MaxSpeed = 100
)
