package model

import (
	"fmt"
	"strings"
)

var ErrInvalidMode = fmt.Errorf("%w: invalid timer mode", ErrValidation)

type Mode string

const (
	ModeFocus     Mode = "Focus"
	ModeBreak     Mode = "Break"
	ModeFreeWrite Mode = "FreeWrite"
)

var Modes = []Mode{ModeFocus, ModeBreak, ModeFreeWrite}

func (m Mode) IsValid() bool {
	switch m {
	case ModeFocus, ModeBreak, ModeFreeWrite:
		return true
	default:
		return false
	}
}

func (m Mode) DisplayName() string {
	switch m {
	case ModeFocus:
		return "Pomodoro"
	case ModeBreak:
		return "Break"
	case ModeFreeWrite:
		return "Free-write"
	default:
		return string(m)
	}
}

func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "focus", "pomodoro", "work", "f":
		return ModeFocus, nil
	case "break", "short", "b":
		return ModeBreak, nil
	case "freewrite", "free-write", "write", "rant", "w":
		return ModeFreeWrite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
}

// Durations holds whole seconds per mode.
type Durations struct {
	Focus     int `json:"focus"`
	Break     int `json:"break"`
	FreeWrite int `json:"freewrite"`
}

func DefaultDurations() Durations {
	return Durations{
		Focus:     25 * 60,
		Break:     5 * 60,
		FreeWrite: 15 * 60,
	}
}

func (d Durations) For(m Mode) int {
	switch m {
	case ModeBreak:
		return d.Break
	case ModeFreeWrite:
		return d.FreeWrite
	default:
		return d.Focus
	}
}

func (d Durations) Validate() error {
	if d.Focus < 0 || d.Break < 0 || d.FreeWrite < 0 {
		return fmt.Errorf("%w: durations must not be negative: %+v", ErrValidation, d)
	}
	return nil
}
