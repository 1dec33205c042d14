// Package config loads the monitored-ticker list and optional analyst
// overrides for the WACC assumptions.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"valuewatch/pkg/core/fundamentals"
)

// ConfigError wraps any configuration loading failure.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// tickersFile is the YAML shape of the monitored-stocks config.
type tickersFile struct {
	MonitoredStocks []string `yaml:"monitored_stocks"`
}

// LoadTickers reads the monitored-ticker list from a YAML file. Tickers are
// uppercased and deduplicated preserving order; an empty or malformed list
// is a ConfigError.
func LoadTickers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("config file not found: %w", err)}
	}

	var cfg tickersFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("invalid YAML format: %w", err)}
	}
	if len(cfg.MonitoredStocks) == 0 {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("no tickers specified under monitored_stocks")}
	}

	seen := make(map[string]bool, len(cfg.MonitoredStocks))
	tickers := make([]string, 0, len(cfg.MonitoredStocks))
	for _, t := range cfg.MonitoredStocks {
		ticker := strings.ToUpper(strings.TrimSpace(t))
		if ticker == "" {
			continue
		}
		if seen[ticker] {
			log.Printf("WARNING: duplicate ticker %q in config, skipping", ticker)
			continue
		}
		seen[ticker] = true
		tickers = append(tickers, ticker)
	}
	if len(tickers) == 0 {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("no valid tickers in monitored_stocks")}
	}
	return tickers, nil
}

// LoadOverrides reads optional analyst WACC overrides from an HJSON file
// (HJSON so the file can carry inline commentary on each assumption).
// A missing file means no overrides and is not an error.
func LoadOverrides(path string) (fundamentals.WACCOptions, error) {
	var opts fundamentals.WACCOptions
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, &ConfigError{Path: path, Err: err}
	}
	if err := hjson.Unmarshal(data, &opts); err != nil {
		return opts, &ConfigError{Path: path, Err: fmt.Errorf("invalid HJSON format: %w", err)}
	}
	return opts, nil
}
