// Package viz renders water-rocket flights in the terminal.
//
//   - [Canvas]: braille dot canvas used for trajectories
//   - [Chart] and [Dashboard]: asciigraph plots of sample series
//   - [Replay]: Bubble Tea playback of a finished flight
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from launch
//	T     - Cycle color themes
//	?     - Show help overlay
//	[ ]   - Scrub backward/forward
//	+ -   - Playback speed
package viz
