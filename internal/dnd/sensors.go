// Package dnd implements the board drag-and-drop engine: sensor activation
// rules, the per-gesture session tracker, and the drop resolver that turns a
// finished gesture into at most one move instruction.
package dnd

import (
	"math"
	"slices"
	"time"
)

// Default activation thresholds. The pointer distance and touch delay keep
// misclicks and scroll gestures from starting a drag.
const (
	DefaultPointerActivationDistance = 8.0
	DefaultTouchActivationDelay      = 250 * time.Millisecond
	DefaultTouchTolerance            = 5.0
)

// PointerSensor declares the pointer activation rule.
type PointerSensor struct {
	ActivationDistance float64
}

// TouchSensor declares the touch-hold activation rule.
type TouchSensor struct {
	ActivationDelay time.Duration
	Tolerance       float64
}

// KeyboardSensor declares the explicit pick-up keys for keyboard dragging.
type KeyboardSensor struct {
	Enabled    bool
	PickUpKeys []string
	CancelKeys []string
}

// SensorConfig declares every input modality that may initiate a drag. It is
// a pure declaration consumed by the presentation layer; it owns no state.
type SensorConfig struct {
	Pointer  PointerSensor
	Touch    TouchSensor
	Keyboard KeyboardSensor
}

// DefaultSensors returns the standard sensor thresholds.
func DefaultSensors() SensorConfig {
	return SensorConfig{
		Pointer: PointerSensor{
			ActivationDistance: DefaultPointerActivationDistance,
		},
		Touch: TouchSensor{
			ActivationDelay: DefaultTouchActivationDelay,
			Tolerance:       DefaultTouchTolerance,
		},
		Keyboard: KeyboardSensor{
			Enabled:    true,
			PickUpKeys: []string{" ", "enter"},
			CancelKeys: []string{"esc"},
		},
	}
}

// Activates reports whether pointer travel from the press origin is far
// enough to count as a drag rather than a click.
func (s PointerSensor) Activates(dx, dy float64) bool {
	distance := s.ActivationDistance
	if distance <= 0 {
		distance = DefaultPointerActivationDistance
	}
	return math.Hypot(dx, dy) >= distance
}

// Activates reports whether a touch hold qualifies as a drag: held for the
// activation delay while moving less than the tolerance.
func (s TouchSensor) Activates(held time.Duration, movement float64) bool {
	delay := s.ActivationDelay
	if delay <= 0 {
		delay = DefaultTouchActivationDelay
	}
	tolerance := s.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTouchTolerance
	}
	return held >= delay && movement < tolerance
}

// IsPickUpKey reports whether a key press should pick up the focused item.
func (s KeyboardSensor) IsPickUpKey(key string) bool {
	return s.Enabled && slices.Contains(s.PickUpKeys, key)
}

// IsCancelKey reports whether a key press should cancel an active drag.
func (s KeyboardSensor) IsCancelKey(key string) bool {
	return s.Enabled && slices.Contains(s.CancelKeys, key)
}
