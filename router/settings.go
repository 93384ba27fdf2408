// Package router schedules a whole routing suite: it orders pin pairs
// nearest-first, routes them through a configurable search algorithm,
// and repairs blocked connections by ripping and rerouting previously
// placed wires, with deep-cloned grid snapshots guarding every
// speculative attempt.
package router

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pinroute/alg"
	"github.com/katalvlaran/pinroute/record"
)

// Alg names a supported routing algorithm.
type Alg string

const (
	// AlgLeeMoore selects the two-phase BFS wavefront.
	AlgLeeMoore Alg = "leemoore"
	// AlgAStar selects the A* best-first search.
	AlgAStar Alg = "astar"
)

// ErrBadSettings indicates an invalid router configuration.
var ErrBadSettings = errors.New("router: invalid settings")

// Settings configures a Router. The yaml tags match the settings-file
// format accepted by LoadSettings.
type Settings struct {
	// Alg selects the single-pair search algorithm.
	Alg Alg `yaml:"alg"`
	// RipAndReroute permits evicting other sets' wires when a pair is
	// otherwise blocked.
	RipAndReroute bool `yaml:"rip_and_reroute"`
	// RipAndRerouteCount bounds rip attempts per blocked pair.
	RipAndRerouteCount int `yaml:"rip_and_reroute_count"`
	// MaxRerunCount bounds full-suite sweeps.
	MaxRerunCount int `yaml:"max_rerun_count"`
	// DifficultBoostThresh is the failure count at which a difficult
	// pair is promoted to the front of the retry queue.
	DifficultBoostThresh int `yaml:"difficult_boost_thresh"`
	// RoutedCellsLowerCost makes same-set wire reuse cheaper.
	RoutedCellsLowerCost bool `yaml:"routed_cells_lower_cost"`
	// RipPenalty is the A* rip admission penalty.
	RipPenalty int `yaml:"rip_penalty"`
	// LogVerbosity filters stored snapshots.
	LogVerbosity record.Verbosity `yaml:"log_verbosity"`
	// UIVerbosity filters live-update snapshots.
	UIVerbosity record.Verbosity `yaml:"ui_verbosity"`
}

// DefaultSettings returns the baseline configuration.
func DefaultSettings() Settings {
	return Settings{
		Alg:                  AlgAStar,
		RipAndReroute:        true,
		RipAndRerouteCount:   2,
		MaxRerunCount:        3,
		DifficultBoostThresh: 2,
		RoutedCellsLowerCost: true,
		RipPenalty:           alg.DefaultRipPenalty,
		LogVerbosity:         record.CoarseIntermediate,
		UIVerbosity:          record.CoarseIntermediate,
	}
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	switch s.Alg {
	case AlgLeeMoore, AlgAStar:
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrBadSettings, s.Alg)
	}
	if s.RipAndRerouteCount < 0 {
		return fmt.Errorf("%w: rip_and_reroute_count %d", ErrBadSettings, s.RipAndRerouteCount)
	}
	if s.MaxRerunCount < 1 {
		return fmt.Errorf("%w: max_rerun_count %d", ErrBadSettings, s.MaxRerunCount)
	}
	if s.DifficultBoostThresh < 1 {
		return fmt.Errorf("%w: difficult_boost_thresh %d", ErrBadSettings, s.DifficultBoostThresh)
	}
	if s.RipPenalty <= 0 {
		return fmt.Errorf("%w: rip_penalty %d", ErrBadSettings, s.RipPenalty)
	}
	return nil
}

// LoadSettings reads a yaml settings file over DefaultSettings, so a
// partial file overrides only what it names.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("router: read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%w: %v", ErrBadSettings, err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// newAlg instantiates the configured algorithm.
func (s Settings) newAlg() (alg.RoutingAlg, error) {
	switch s.Alg {
	case AlgLeeMoore:
		return alg.LeeMoore{}, nil
	case AlgAStar:
		return alg.AStar{}, nil
	}
	return nil, fmt.Errorf("%w: unknown algorithm %q", ErrBadSettings, s.Alg)
}
