// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Radical is one drillable unit: a glyph and the keystrokes that type it.
type Radical struct {
	Code      string `json:"code" yaml:"code"`
	Text      string `json:"text" yaml:"text"`
	Frequency int    `json:"frequency" yaml:"frequency"`
	BigCode   string `json:"big_code" yaml:"big_code"`
	SmallCode string `json:"small_code" yaml:"small_code"`
}

// PracticeMode selects which part of the code is checked.
type PracticeMode int

const (
	// DualCode checks the full code.
	DualCode PracticeMode = iota
	// BigCode checks only the first keystroke.
	BigCode
)

// Order selects how the catalog is arranged for presentation.
type Order int

const (
	OrderRandom Order = iota
	OrderAlphabetical
	OrderFrequency
	OrderKeyboard
)

// InterfaceMode selects the practice screen decoration.
type InterfaceMode int

const (
	InterfaceNormal InterfaceMode = iota
	// InterfacePretend drops borders and fills the background with noise.
	InterfacePretend
)

func (m PracticeMode) String() string {
	switch m {
	case BigCode:
		return "big"
	default:
		return "dual"
	}
}

// ParsePracticeMode accepts "big" or "dual".
func ParsePracticeMode(s string) (PracticeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "big", "bigcode":
		return BigCode, nil
	case "dual", "dualcode", "":
		return DualCode, nil
	default:
		return DualCode, fmt.Errorf("unknown practice mode %q (use big or dual)", s)
	}
}

// MarshalText encodes the mode by name.
func (m PracticeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *PracticeMode) UnmarshalText(text []byte) error {
	v, err := ParsePracticeMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (o Order) String() string {
	switch o {
	case OrderAlphabetical:
		return "alpha"
	case OrderFrequency:
		return "freq"
	case OrderKeyboard:
		return "keyboard"
	default:
		return "random"
	}
}

// ParseOrder accepts alpha, freq, keyboard or random.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alpha", "alphabetical":
		return OrderAlphabetical, nil
	case "freq", "frequency":
		return OrderFrequency, nil
	case "keyboard", "kbd":
		return OrderKeyboard, nil
	case "random", "":
		return OrderRandom, nil
	default:
		return OrderRandom, fmt.Errorf("unknown order %q (use alpha, freq, keyboard or random)", s)
	}
}

func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(text []byte) error {
	v, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (m InterfaceMode) String() string {
	if m == InterfacePretend {
		return "pretend"
	}
	return "normal"
}

// ParseInterfaceMode accepts "normal" or "pretend".
func ParseInterfaceMode(s string) (InterfaceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return InterfaceNormal, nil
	case "pretend":
		return InterfacePretend, nil
	default:
		return InterfaceNormal, fmt.Errorf("unknown interface %q (use normal or pretend)", s)
	}
}

func (m InterfaceMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *InterfaceMode) UnmarshalText(text []byte) error {
	v, err := ParseInterfaceMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Config defines practice settings.
type Config struct {
	RadicalFile   string        `json:"radical_file" yaml:"radical_file"`
	FrequencyFile string        `json:"frequency_file" yaml:"frequency_file"`
	Penalty       int           `json:"penalty" yaml:"penalty"`
	MinPractice   int           `json:"min_practice" yaml:"min_practice"`
	PracticeMode  PracticeMode  `json:"practice_mode" yaml:"practice_mode"`
	Order         Order         `json:"order" yaml:"order"`
	Interface     InterfaceMode `json:"interface" yaml:"interface"`
	FocusWeak     bool          `json:"focus_weak" yaml:"focus_weak"`
	WeakTop       int           `json:"weak_top" yaml:"weak_top"`
	WeakWindow    int           `json:"weak_window" yaml:"weak_window"`
	WeakBonus     int           `json:"weak_bonus" yaml:"weak_bonus"`
}

// Snapshot is the flat, serializable form of a practice session.
// Remaining holds one counter per catalog position; History holds catalog
// positions, newest first.
type Snapshot struct {
	SessionID     string    `json:"session_id" yaml:"session_id"`
	StartedAt     time.Time `json:"started_at" yaml:"started_at"`
	SavedAt       time.Time `json:"saved_at" yaml:"saved_at"`
	Config        Config    `json:"config" yaml:"config"`
	Radicals      []Radical `json:"radicals" yaml:"radicals"`
	CurrentIndex  int       `json:"current_index" yaml:"current_index"`
	Remaining     []int     `json:"remaining" yaml:"remaining"`
	CorrectCount  int       `json:"correct_count" yaml:"correct_count"`
	WrongCount    int       `json:"wrong_count" yaml:"wrong_count"`
	TotalPractice int       `json:"total_practice" yaml:"total_practice"`
	History       []int     `json:"history" yaml:"history"`
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Radicals    string
}

// SessionStats captures a finished practice session.
type SessionStats struct {
	SessionID    string
	StartedAt    time.Time
	EndedAt      time.Time
	RadicalFile  string
	PracticeMode PracticeMode
	Order        Order
	Penalty      int
	MinPractice  int
	Correct      int
	Wrong        int
	Completed    bool
	DurationMs   int64
}

// RadicalStats stores per-radical answers for a session.
type RadicalStats struct {
	Text         string
	Code         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// RadicalAggregate aggregates radical stats across sessions.
type RadicalAggregate struct {
	Text         string
	Code         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	ID         int64
	SessionID  string
	EndedAt    time.Time
	Correct    int
	Wrong      int
	Completed  bool
	DurationMs int64
}
