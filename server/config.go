package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from the "1h30m" YAML form.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("server: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the server configuration, loadable from YAML.
type Config struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`
	// ImagesDir is the directory served images are read from.
	ImagesDir string `yaml:"images_dir"`
	// ImageCacheTTL bounds the decoded image retention.
	ImageCacheTTL Duration `yaml:"image_cache_ttl"`
	// ResponseCacheTTL bounds the serialized response retention.
	ResponseCacheTTL Duration `yaml:"response_cache_ttl"`
	// MaxConnections caps concurrent client connections; zero is unlimited.
	MaxConnections int `yaml:"max_connections"`
	// NarrowDigits and WideDigits override the encoder precision.
	NarrowDigits int `yaml:"narrow_digits"`
	WideDigits   int `yaml:"wide_digits"`
	// Transfers maps custom decoding function names to JavaScript
	// expressions of x, compiled and registered at startup.
	Transfers map[string]string `yaml:"transfers"`
}

// DefaultConfig mirrors the reference deployment: a week of caching and the
// float16/float32 encoder precisions.
func DefaultConfig() Config {
	return Config{
		Addr:             ":8010",
		ImagesDir:        "static/images",
		ImageCacheTTL:    Duration(7 * 24 * time.Hour),
		ResponseCacheTTL: Duration(7 * 24 * time.Hour),
		NarrowDigits:     3,
		WideDigits:       6,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("server: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("server: parse config: %w", err)
	}
	return cfg, nil
}
