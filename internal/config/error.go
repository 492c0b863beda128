package config

import (
	"fmt"
	"strings"
)

// ConfigError lists every problem found in one config file.
type ConfigError struct {
	Path    string
	Missing []string // environment variables referenced but not set
	Errors  []string // "field: problem"
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}
	var b strings.Builder
	b.WriteString("invalid config")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\n  - missing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	for _, msg := range e.Errors {
		fmt.Fprintf(&b, "\n  - %s", msg)
	}
	return b.String()
}

// HasErrors reports whether anything was wrong.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing)+len(e.Errors) > 0
}
