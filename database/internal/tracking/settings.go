// Package tracking wraps a types.Interface with statement logging, slow
// statement detection, OpenTelemetry spans and metrics.
package tracking

import (
	"time"

	"github.com/gaborage/go-sqlmodel/config"
)

const (
	// DefaultSlowQueryThreshold applies when the configuration leaves it unset.
	DefaultSlowQueryThreshold = 200 * time.Millisecond
	// DefaultMaxQueryLength bounds logged statement text and arguments.
	DefaultMaxQueryLength = 1000
)

// Settings controls what the wrapper logs.
type Settings struct {
	slowQueryThreshold time.Duration
	slowQueryEnabled   bool
	maxQueryLength     int
	logQueryParameters bool
}

// NewSettings derives Settings from cfg. A nil cfg or non-positive values
// fall back to the defaults.
func NewSettings(cfg *config.DatabaseConfig) Settings {
	settings := Settings{
		slowQueryThreshold: DefaultSlowQueryThreshold,
		slowQueryEnabled:   true,
		maxQueryLength:     DefaultMaxQueryLength,
	}
	if cfg == nil {
		return settings
	}

	if cfg.Query.Slow.Threshold > 0 {
		settings.slowQueryThreshold = cfg.Query.Slow.Threshold
	}
	if cfg.Query.Log.MaxLength > 0 {
		settings.maxQueryLength = cfg.Query.Log.MaxLength
	}
	settings.slowQueryEnabled = cfg.Query.Slow.Enabled
	settings.logQueryParameters = cfg.Query.Log.Parameters
	return settings
}

func (s Settings) SlowQueryThreshold() time.Duration { return s.slowQueryThreshold }

func (s Settings) MaxQueryLength() int { return s.maxQueryLength }

func (s Settings) LogQueryParameters() bool { return s.logQueryParameters }

// isSlow reports whether elapsed crosses the threshold while detection is on.
func (s Settings) isSlow(elapsed time.Duration) bool {
	return s.slowQueryEnabled && elapsed > s.slowQueryThreshold
}
