/*
 * config.go, part of seismat.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config holds the settings of the stream2matfile program, which
// can be read from a YAML file.
//
//	output:
//	  dir: out
//	  prefix: obspy.stream.
//	  compress: true
//	  plot: false
//	fetch:
//	  source: https://examples.obspy.org/BW.BGLD..EH.D.2010.037
//	  retries: 3
//	  delay: 1s
//	  timeout: 2m
//	  max_download: 512MB
//	log:
//	  level: info
//	  json: false
package config

import (
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// DefaultSource is read when no source is given.
const DefaultSource = "https://examples.obspy.org/BW.BGLD..EH.D.2010.037"

// Config is the full set of settings.
type Config struct {
	Output Output `yaml:"output"`
	Fetch  Fetch  `yaml:"fetch"`
	Log    Log    `yaml:"log"`
}

// Output controls where and how MAT files are written.
type Output struct {
	Dir      string `yaml:"dir"`
	Prefix   string `yaml:"prefix"`
	Compress bool   `yaml:"compress"`
	Plot     bool   `yaml:"plot"`
}

// Fetch controls how the input is obtained. Durations use the
// time.ParseDuration syntax, sizes the datasize one ("512MB").
type Fetch struct {
	Source      string `yaml:"source"`
	Retries     uint   `yaml:"retries"`
	Delay       string `yaml:"delay"`
	Timeout     string `yaml:"timeout"`
	MaxDownload string `yaml:"max_download"`
}

// Log sets the logger up.
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the settings used when there is no file.
func Default() *Config {
	return &Config{
		Output: Output{Prefix: "obspy.stream."},
		Fetch: Fetch{
			Source:      DefaultSource,
			Retries:     3,
			Delay:       "1s",
			Timeout:     "2m",
			MaxDownload: "512MB",
		},
		Log: Log{Level: "warn"},
	}
}

// Load reads the YAML file path on top of the defaults, and validates the
// result. Unknown keys are an error.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	c := Default()
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// Validate checks that durations, sizes and the log level can be parsed.
func (c *Config) Validate() error {
	if _, err := c.DelayDuration(); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.MaxDownloadSize(); err != nil {
		return err
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return errors.Wrap(err, "log.level")
		}
	}
	return nil
}

// DelayDuration returns the wait between download attempts.
func (c *Config) DelayDuration() (time.Duration, error) {
	return duration(c.Fetch.Delay, "fetch.delay")
}

// TimeoutDuration returns the timeout of each download attempt.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return duration(c.Fetch.Timeout, "fetch.timeout")
}

// MaxDownloadSize returns the largest accepted download. An empty
// setting means no limit.
func (c *Config) MaxDownloadSize() (datasize.ByteSize, error) {
	if c.Fetch.MaxDownload == "" {
		return 0, nil
	}
	s, err := datasize.ParseString(c.Fetch.MaxDownload)
	if err != nil {
		return 0, errors.Wrapf(err, "fetch.max_download %q", c.Fetch.MaxDownload)
	}
	return s, nil
}

func duration(s, key string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	if d < 0 {
		return 0, errors.Errorf("%s: negative duration %s", key, s)
	}
	return d, nil
}
