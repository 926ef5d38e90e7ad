// Package viz animates finished trajectories in the terminal.
//
// The package implements a playback TUI using the Bubble Tea framework:
//
//   - [Model]: replays a simulated flight at wall-clock speed
//   - [Canvas]: Braille-based pixel canvas with a world-space viewport
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from release
//	[ ]   - Scrub backward/forward 0.1s
//	+ -   - Speed up / slow down
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Playback sessions can be captured as GIF animations with the G key. The
// output path is chosen by the caller when constructing the model.
package viz
