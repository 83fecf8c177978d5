// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultPort is the HTTP port used when none is configured.
const DefaultPort Port = 8000

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Port is a TCP port that falls back to DefaultPort instead of failing when
// the configured text is not a usable port number.
type Port int

// UnmarshalText implements encoding.TextUnmarshaler for env decoding.
func (p *Port) UnmarshalText(text []byte) error {
	*p = ParsePort(string(text))
	return nil
}

// ParsePort parses text as a port, returning DefaultPort when it is empty,
// malformed, or outside 1-65535.
func ParsePort(text string) Port {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value < 1 || value > 65535 {
		return DefaultPort
	}
	return Port(value)
}

// String renders the port number.
func (p Port) String() string {
	return strconv.Itoa(int(p))
}

// Set implements flag.Value with the same fallback rules.
func (p *Port) Set(text string) error {
	*p = ParsePort(text)
	return nil
}
