package tui

import (
	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/dnd"
)

type Option func(*Model)

// WithKeyBindings rebinds the drag keys from configuration.
func WithKeyBindings(cfg KeyBindingConfig) Option {
	return func(m *Model) {
		m.keys = newKeyMap(cfg)
	}
}

// WithSensors overrides the drag activation thresholds.
func WithSensors(cfg dnd.SensorConfig) Option {
	return func(m *Model) {
		m.sensors = cfg
	}
}

// WithDefaultDeleteMode selects what the delete key does.
func WithDefaultDeleteMode(mode app.DeleteMode) Option {
	return func(m *Model) {
		switch mode {
		case app.DeleteModeArchive, app.DeleteModeHard:
			m.defaultDeleteMode = mode
		}
	}
}
