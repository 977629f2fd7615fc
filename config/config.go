// Package config loads cache settings from a YAML file.
package config

import (
	"os"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/phuslu/log"
	"gopkg.in/yaml.v3"

	cache "github.com/krisalay/lfu-ttl-cache"
	"github.com/krisalay/lfu-ttl-cache/expiration"
	"github.com/krisalay/lfu-ttl-cache/logging"
)

// File mirrors the YAML layout:
//
//	max_entries: 1024
//	invalidation_timeout: 30s
//	purge: eager
//	shards: 8
//	janitor_interval: 5s
//	log_level: info
type File struct {
	MaxEntries          int    `yaml:"max_entries"`
	InvalidationTimeout string `yaml:"invalidation_timeout"`
	Purge               string `yaml:"purge"`
	Shards              int    `yaml:"shards"`
	JanitorInterval     string `yaml:"janitor_interval"`
	LogLevel            string `yaml:"log_level"`
}

// Settings is a parsed File.
type Settings struct {
	Cache           cache.Config
	Shards          int
	JanitorInterval time.Duration
	LogLevel        log.Level
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Cache:    cache.DefaultConfig(),
		Shards:   1,
		LogLevel: log.InfoLevel,
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrapf(err, errors.CodeNotFound, "reading config %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML. Missing fields keep their Default value.
func Parse(data []byte) (Settings, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Settings{}, errors.Wrap(err, errors.CodeInvalidInput, "decoding config")
	}
	return f.Settings()
}

// Settings converts the raw file values and validates the cache config.
func (f File) Settings() (Settings, error) {
	s := Default()

	if f.MaxEntries != 0 {
		s.Cache.MaxEntries = f.MaxEntries
	}
	if f.InvalidationTimeout != "" {
		d, err := time.ParseDuration(f.InvalidationTimeout)
		if err != nil {
			return Settings{}, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "parsing invalidation_timeout"),
				"value", f.InvalidationTimeout,
			)
		}
		s.Cache.InvalidationTimeout = d
	}

	mode, err := expiration.ParsePurgeMode(f.Purge)
	if err != nil {
		return Settings{}, errors.Wrap(err, errors.CodeInvalidConfig, "parsing purge")
	}
	s.Cache.Purge = mode

	if f.Shards != 0 {
		s.Shards = f.Shards
	}
	if f.JanitorInterval != "" {
		d, err := time.ParseDuration(f.JanitorInterval)
		if err != nil {
			return Settings{}, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "parsing janitor_interval"),
				"value", f.JanitorInterval,
			)
		}
		if d < 0 {
			return Settings{}, errors.Newf(errors.CodeInvalidConfig,
				"janitor_interval must not be negative, got %s", d)
		}
		s.JanitorInterval = d
	}
	if f.LogLevel != "" {
		s.LogLevel = logging.ParseLevel(f.LogLevel)
	}

	if err := s.Cache.Validate(); err != nil {
		return Settings{}, err
	}
	if s.Shards <= 0 {
		return Settings{}, errors.Newf(errors.CodeInvalidConfig, "shards must be positive, got %d", s.Shards)
	}
	return s, nil
}
