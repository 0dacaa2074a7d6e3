package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

type DeleteMode string

const (
	DeleteModeArchive DeleteMode = "archive"
	DeleteModeHard    DeleteMode = "hard"
)

type Config struct {
	Database  DatabaseConfig `toml:"database"`
	Delete    DeleteConfig   `toml:"delete"`
	Board     BoardConfig    `toml:"board"`
	Birthdays BirthdayConfig `toml:"birthdays"`
	Drag      DragConfig     `toml:"drag"`
	Server    ServerConfig   `toml:"server"`
	Keys      KeyConfig      `toml:"keys"`
	Logging   LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type DeleteConfig struct {
	DefaultMode DeleteMode `toml:"default_mode"`
}

type BoardConfig struct {
	Lanes []LaneConfig `toml:"lanes"`
}

type LaneConfig struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Position    int    `toml:"position"`
	AcceptsDrop bool   `toml:"accepts_drop"`
}

type BirthdayConfig struct {
	LaneID     string `toml:"lane_id"`
	WindowDays int    `toml:"window_days"`
}

// DragConfig tunes the gesture sensors. Distances are in cells for the
// terminal UI and logical pixels for pointer clients.
type DragConfig struct {
	PointerDistance float64 `toml:"pointer_distance"`
	TouchDelayMS    int     `toml:"touch_delay_ms"`
	TouchTolerance  float64 `toml:"touch_tolerance"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LoggingConfig struct {
	Level   string           `toml:"level"`
	DevFile DevFileLogConfig `toml:"dev_file"`
}

// DevFileLogConfig enables an extra logfmt sink under the workspace when
// running a dev build.
type DevFileLogConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type KeyConfig struct {
	PickUp string `toml:"pick_up"`
	Drop   string `toml:"drop"`
	Cancel string `toml:"cancel"`
	Help   string `toml:"help"`
	Quit   string `toml:"quit"`
}

func defaultLanes() []LaneConfig {
	return []LaneConfig{
		{ID: "today", Name: "Today", Position: 0, AcceptsDrop: true},
		{ID: "week", Name: "This Week", Position: 1, AcceptsDrop: true},
		{ID: "inbox", Name: "Inbox", Position: 2, AcceptsDrop: true},
		{ID: "done", Name: "Done", Position: 3, AcceptsDrop: true},
		{ID: "calendar", Name: "Calendar", Position: 4, AcceptsDrop: false},
	}
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Delete: DeleteConfig{
			DefaultMode: DeleteModeArchive,
		},
		Board: BoardConfig{
			Lanes: defaultLanes(),
		},
		Birthdays: BirthdayConfig{
			LaneID:     "today",
			WindowDays: 14,
		},
		Drag: DragConfig{
			PointerDistance: 8,
			TouchDelayMS:    250,
			TouchTolerance:  5,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8097",
		},
		Keys: KeyConfig{
			PickUp: " ",
			Drop:   "enter",
			Cancel: "esc",
			Help:   "?",
			Quit:   "q",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileLogConfig{
				Enabled: true,
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	switch c.Delete.DefaultMode {
	case DeleteModeArchive, DeleteModeHard:
	default:
		return fmt.Errorf("invalid delete.default_mode: %q", c.Delete.DefaultMode)
	}

	if len(c.Board.Lanes) == 0 {
		return errors.New("board.lanes must include at least one lane")
	}
	seenLaneID := map[string]struct{}{}
	for idx, lane := range c.Board.Lanes {
		id := strings.TrimSpace(strings.ToLower(lane.ID))
		if id == "" {
			return fmt.Errorf("board.lanes[%d].id is required", idx)
		}
		if strings.TrimSpace(lane.Name) == "" {
			return fmt.Errorf("board.lanes[%d].name is required", idx)
		}
		if lane.Position < 0 {
			return fmt.Errorf("board.lanes[%d].position must be >= 0", idx)
		}
		if _, ok := seenLaneID[id]; ok {
			return fmt.Errorf("board.lanes[%d].id is duplicated: %s", idx, id)
		}
		seenLaneID[id] = struct{}{}
	}

	if laneID := strings.TrimSpace(strings.ToLower(c.Birthdays.LaneID)); laneID != "" {
		if _, ok := seenLaneID[laneID]; !ok {
			return fmt.Errorf("birthdays.lane_id references unknown lane %q", c.Birthdays.LaneID)
		}
	}
	if c.Birthdays.WindowDays < 0 {
		return errors.New("birthdays.window_days must be >= 0")
	}

	if c.Drag.PointerDistance < 0 {
		return errors.New("drag.pointer_distance must be >= 0")
	}
	if c.Drag.TouchDelayMS < 0 {
		return errors.New("drag.touch_delay_ms must be >= 0")
	}
	if c.Drag.TouchTolerance < 0 {
		return errors.New("drag.touch_tolerance must be >= 0")
	}

	if strings.TrimSpace(c.Logging.Level) == "" {
		return errors.New("logging.level is required")
	}

	return nil
}

// BirthdayWindow converts the configured day count to a duration.
func (c Config) BirthdayWindow() time.Duration {
	return time.Duration(c.Birthdays.WindowDays) * 24 * time.Hour
}

// TouchDelay converts the configured millisecond count to a duration.
func (c Config) TouchDelay() time.Duration {
	return time.Duration(c.Drag.TouchDelayMS) * time.Millisecond
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
