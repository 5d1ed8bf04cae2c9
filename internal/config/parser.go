package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Load returns the effective configuration: the manifest at path when given,
// otherwise the built-in default, with environment-variable overrides applied
// on top and the result validated.
func Load(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		parsed, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	applyDefaults(cfg)

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, platformerrors.NewParseError(path, 0, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, platformerrors.NewParseError(path, extractLine(err), err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Settings.CommandTimeout <= 0 {
		cfg.Settings.CommandTimeout = 120
	}
	if cfg.Settings.Parallel <= 0 {
		cfg.Settings.Parallel = 4
	}
	if cfg.Settings.SettleDelay < 0 {
		cfg.Settings.SettleDelay = 10
	}
	// A manifest without a bootstrap block gets the full pipeline.
	if !cfg.Bootstrap.declared {
		cfg.Bootstrap.EnableMonitoring = true
		cfg.Bootstrap.EnableAuth = true
	}
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
