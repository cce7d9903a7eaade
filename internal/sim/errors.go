package sim

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration is matched by every ConfigError.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvariant is matched by every InvariantError.
	ErrInvariant = errors.New("simulation invariant violation")
)

// ConfigError reports invalid run configuration or team data. It is raised
// before any trial runs and aborts the whole run.
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvariantError indicates a logic defect detected mid-trial. It carries
// enough context to locate the failing week or round.
type InvariantError struct {
	Stage   string   `json:"stage"`
	Round   string   `json:"round,omitempty"`
	Week    int      `json:"week,omitempty"`
	Teams   []string `json:"teams,omitempty"`
	Message string   `json:"message"`
}

func (e *InvariantError) Error() string {
	var b strings.Builder
	b.WriteString("invariant violation in ")
	b.WriteString(e.Stage)
	if e.Round != "" {
		fmt.Fprintf(&b, " (round %s)", e.Round)
	}
	if e.Week > 0 {
		fmt.Fprintf(&b, " (week %d)", e.Week)
	}
	if len(e.Teams) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Teams, ", "))
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}
