// Package config holds the one-per-run provider configuration parsed from
// the first input line.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	errspkg "github.com/streamweld/consolesink/internal/sink/errors"
	"github.com/streamweld/consolesink/internal/sink/format"
	"github.com/streamweld/consolesink/internal/sink/jsoncodec"
)

// Config selects how envelopes are rendered. It is parsed once at start-up
// and held immutably for the run. Keys the provider does not recognize are
// kept raw in Extensions so the orchestrator can extend the object without
// breaking older provider builds.
type Config struct {
	// OutputFormat is the raw selector as received. Unrecognized or absent
	// values fall back to the default format; use Format for the
	// normalized value.
	OutputFormat string

	Extensions map[string]json.RawMessage
}

const outputFormatKey = "outputFormat"

// Parse decodes the configuration from the first input line.
func Parse(line []byte) (*Config, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil, errspkg.ErrNoConfig
	}

	var raw map[string]json.RawMessage
	if err := jsoncodec.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrConfigInvalid, err)
	}

	cfg := &Config{}
	for key, value := range raw {
		if strings.EqualFold(key, outputFormatKey) {
			var s string
			if err := jsoncodec.Unmarshal(value, &s); err != nil {
				return nil, fmt.Errorf("%w: %s must be a string", errspkg.ErrConfigInvalid, outputFormatKey)
			}
			cfg.OutputFormat = s
			continue
		}
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]json.RawMessage)
		}
		cfg.Extensions[key] = value
	}

	return cfg, nil
}

// Format returns the normalized output format. Matching is
// case-insensitive and unknown selectors fall back to the default rather
// than failing.
func (c *Config) Format() format.Format {
	return format.ParseFormat(c.OutputFormat)
}

// Validate checks the configuration. Unknown output formats are not an
// error by contract, so validation is lenient and currently always passes;
// the method exists so callers bind configuration the same way regardless
// of future required fields.
func (c *Config) Validate() error {
	if c == nil {
		return errspkg.ErrConfigRequired
	}
	return nil
}

// String renders the configuration for the stderr echo line.
func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "outputFormat=%s", c.Format())
	if c.OutputFormat != "" && !format.Known(c.OutputFormat) {
		fmt.Fprintf(&b, " (requested %q)", c.OutputFormat)
	}
	if len(c.Extensions) > 0 {
		keys := make([]string, 0, len(c.Extensions))
		for k := range c.Extensions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, " extensions=%s", strings.Join(keys, ","))
	}
	return b.String()
}
