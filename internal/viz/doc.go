// Package viz renders finished trajectories in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [DrawFrame]: draws both rods and the bob trails onto a canvas
//   - [Player]: Bubble Tea replay of a trajectory
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from t = 0
//	T     - Cycle color themes
//	+/-   - Playback speed
//	[]/   - Step one frame back/forward
//	?     - Show help overlay
package viz
