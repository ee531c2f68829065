// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ember

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/blinklabs-io/goember/dom"
	"github.com/blinklabs-io/goember/muxer"
	"github.com/blinklabs-io/goember/s101"
	"github.com/jinzhu/copier"
)

// Config holds the file-configurable settings of a Connection. Durations use
// time.ParseDuration syntax.
type Config struct {
	Slot              uint8  `toml:"slot"`
	KeepAliveInterval string `toml:"keep_alive_interval"`
	AutoKeepAlive     *bool  `toml:"auto_keep_alive"`
	MaxPackageSize    int    `toml:"max_package_size"`
	MaxFrameSize      int    `toml:"max_frame_size"`
	MaxPayloadSize    int    `toml:"max_payload_size"`
	TerminatorLength  int    `toml:"terminator_length"`
	MaxDepth          int    `toml:"max_depth"`
	MaxValueLength    int    `toml:"max_value_length"`
}

// DefaultConfig returns the settings used when a file leaves a key unset
func DefaultConfig() Config {
	autoKeepAlive := true
	return Config{
		KeepAliveInterval: "0s",
		AutoKeepAlive:     &autoKeepAlive,
		MaxPackageSize:    s101.DefaultMaxPackageSize,
		MaxFrameSize:      s101.DefaultMaxFrameSize,
		MaxPayloadSize:    muxer.DefaultMaxPayloadSize,
		TerminatorLength:  dom.DefaultTerminatorLength,
		MaxDepth:          64,
	}
}

// LoadConfig reads a TOML file and layers it over DefaultConfig
func LoadConfig(path string) (Config, error) {
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return mergeConfig(file, meta)
}

// ParseConfig parses TOML data and layers it over DefaultConfig
func ParseConfig(data string) (Config, error) {
	var file Config
	meta, err := toml.Decode(data, &file)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return mergeConfig(file, meta)
}

func mergeConfig(file Config, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg := DefaultConfig()
	if err := copier.CopyWithOption(&cfg, &file, copier.Option{IgnoreEmpty: true}); err != nil {
		return Config{}, fmt.Errorf("merge config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable
func (c Config) Validate() error {
	var errs []error
	if _, err := c.keepAliveInterval(); err != nil {
		errs = append(errs, err)
	}
	if c.MaxPackageSize <= 0 {
		errs = append(errs, fmt.Errorf("max_package_size must be positive: %d", c.MaxPackageSize))
	}
	if c.MaxFrameSize < 0 {
		errs = append(errs, fmt.Errorf("max_frame_size must not be negative: %d", c.MaxFrameSize))
	}
	if c.MaxFrameSize > 0 && c.MaxFrameSize < c.MaxPackageSize {
		errs = append(
			errs,
			fmt.Errorf(
				"max_frame_size %d is smaller than max_package_size %d",
				c.MaxFrameSize,
				c.MaxPackageSize,
			),
		)
	}
	if c.MaxPayloadSize < 0 {
		errs = append(errs, fmt.Errorf("max_payload_size must not be negative: %d", c.MaxPayloadSize))
	}
	if c.TerminatorLength < 1 {
		errs = append(errs, fmt.Errorf("terminator_length must be positive: %d", c.TerminatorLength))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative: %d", c.MaxDepth))
	}
	if c.MaxValueLength < 0 {
		errs = append(errs, fmt.Errorf("max_value_length must not be negative: %d", c.MaxValueLength))
	}
	return errors.Join(errs...)
}

func (c Config) keepAliveInterval() (time.Duration, error) {
	if c.KeepAliveInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.KeepAliveInterval))
	if err != nil {
		return 0, fmt.Errorf("parse keep_alive_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("keep_alive_interval must not be negative: %s", d)
	}
	return d, nil
}

// Options converts the settings into connection options
func (c Config) Options() ([]ConnectionOptionFunc, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	interval, _ := c.keepAliveInterval()
	autoKeepAlive := true
	if c.AutoKeepAlive != nil {
		autoKeepAlive = *c.AutoKeepAlive
	}
	return []ConnectionOptionFunc{
		WithSlot(c.Slot),
		WithKeepAliveInterval(interval),
		WithAutoKeepAlive(autoKeepAlive),
		WithMaxPackageSize(c.MaxPackageSize),
		WithMaxFrameSize(c.MaxFrameSize),
		WithMaxPayloadSize(c.MaxPayloadSize),
		WithTerminatorLength(c.TerminatorLength),
		WithMaxDepth(c.MaxDepth),
		WithMaxValueLength(c.MaxValueLength),
	}, nil
}
