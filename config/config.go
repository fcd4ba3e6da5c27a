// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the process-wide bridge configuration. It is read once
// at start-up and never changes afterwards.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/luxfi/mpbridge/compute"
)

const (
	// EnvNative toggles the native exponentiation routine.
	EnvNative = "MPBRIDGE_NATIVE"
	// EnvIntercept toggles batch interception.
	EnvIntercept = "MPBRIDGE_INTERCEPT"
)

var ErrInvalidPlaceholder = errors.New("placeholder must be a non-negative decimal integer")

// Config holds configuration for the bridge.
type Config struct {
	// EnableNative selects the native routine for direct-mode calls when it
	// is compiled in.
	EnableNative bool `json:"enableNative"`
	// EnableInterception enables the record, compute, replay protocol. When
	// false a run executes the computation once in direct mode.
	EnableInterception bool `json:"enableInterception"`
	// Placeholder is returned for every recorded call. Default: "2"
	Placeholder string `json:"placeholder"`

	Compute compute.Config `json:"compute"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() Config {
	return Config{
		EnableInterception: true,
		Placeholder:        "2",
		Compute:            compute.DefaultConfig(),
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if _, err := c.PlaceholderValue(); err != nil {
		return err
	}
	if err := c.Compute.Validate(); err != nil {
		return fmt.Errorf("compute: %w", err)
	}
	return nil
}

// PlaceholderValue returns the parsed placeholder.
func (c Config) PlaceholderValue() (*big.Int, error) {
	v, ok := new(big.Int).SetString(c.Placeholder, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlaceholder, c.Placeholder)
	}
	return v, nil
}

// ComputeConfig returns the compute engine configuration with the native
// flag carried over.
func (c Config) ComputeConfig() compute.Config {
	cc := c.Compute
	cc.EnableNative = c.EnableNative
	return cc
}

// ParseConfig parses configuration from JSON bytes. Missing fields keep their
// defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides the two feature flags from the environment. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, flag := range []struct {
		env string
		dst *bool
	}{
		{EnvNative, &c.EnableNative},
		{EnvIntercept, &c.EnableInterception},
	} {
		s, ok := lookup(flag.env)
		if !ok || s == "" {
			continue
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%s: %w", flag.env, err)
		}
		*flag.dst = v
	}
	return nil
}

// Load reads the JSON file at path, applies the environment and validates the
// result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}
