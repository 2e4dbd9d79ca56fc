/*
Package task defines the cooperative progress and cancellation boundary used
by long-running palette and remapping operations.

The library spawns no goroutines of its own; a caller that wants to abort a
large conversion provides a Delegate and the core polls it at frame and row
boundaries.
*/
package task

// Delegate is polled by long-running operations. Canceled is checked once per
// processed frame or row; Progress receives a fraction in [0, 1].
type Delegate interface {
	Canceled() bool
	Progress(fraction float64)
}
