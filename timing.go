// FILE: spicex/timing.go

package spicex

import "time"

// Timing constants for the reload coordinator.
const (
	// DefaultDebounce is the quiet period a watched file must hold before
	// its layer reloads. Editors and atomic writers commonly emit bursts of
	// events for one logical save.
	DefaultDebounce = 500 * time.Millisecond
)
