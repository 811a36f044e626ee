// Package viz draws a running session in the terminal.
//
// [Live] is a Bubble Tea program that drives the session's timeline from
// the wall clock and renders the field on a braille [Canvas]: walls,
// floor markings, the robot body and its recent path. A side panel shows
// pose, motors, sensor readings and a speed graph.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the start pose and rerun the program
//	+/-   - Double/halve the speed factor
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
//
// [PlotChannel] renders a stored trajectory channel with asciigraph for
// the non-interactive plot command.
package viz
