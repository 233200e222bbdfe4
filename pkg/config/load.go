// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	goversion "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFileNameYAML = "j2.yaml"
	DefaultFileNameTOML = "j2.toml"
)

// LoadFile reads and parses configuration from path. An empty path
// looks for j2.yaml, then j2.toml, in the current directory.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		found, err := discover()
		if err != nil {
			return nil, err
		}
		path = found
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %s", err)
	}

	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(bs, &cfg)
	default:
		err = yaml.Unmarshal(bs, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config '%s': %s", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating config '%s': %s", path, err)
	}

	return &cfg, nil
}

func discover() (string, error) {
	for _, name := range []string{DefaultFileNameYAML, DefaultFileNameTOML} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("expected to find %s (or %s) in current directory",
		DefaultFileNameYAML, DefaultFileNameTOML)
}

// CheckVersion enforces the config's minimum_version against the
// running binary's version, before any producer runs.
func (c *Config) CheckVersion(current string) error {
	if c.MinimumVersion == "" {
		return nil
	}

	constraint, err := goversion.NewConstraint(">= " + c.MinimumVersion)
	if err != nil {
		return fmt.Errorf("parsing minimum_version: %s", err)
	}

	curr, err := goversion.NewVersion(current)
	if err != nil {
		return fmt.Errorf("parsing current version: %s", err)
	}

	if !constraint.Check(curr) {
		return fmt.Errorf("j2 version %s does not meet the minimum required version %s",
			current, c.MinimumVersion)
	}

	return nil
}
