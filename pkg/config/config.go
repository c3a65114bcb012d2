package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read after the config file.
const (
	EnvEndpoint  = "JOBWIZARD_ENDPOINT"
	EnvToken     = "JOBWIZARD_TOKEN"
	EnvOutputDir = "JOBWIZARD_OUTPUT_DIR"
)

// Config holds settings for talking to the job service.
type Config struct {
	Endpoint     string   `yaml:"endpoint" toml:"endpoint"`
	Token        string   `yaml:"token" toml:"token"`
	PollInterval Duration `yaml:"poll_interval" toml:"poll_interval"`
	Timeout      Duration `yaml:"timeout" toml:"timeout"`
	OutputDir    string   `yaml:"output_dir" toml:"output_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		PollInterval: Duration(2 * time.Second),
		Timeout:      Duration(30 * time.Minute),
	}
}

// Duration accepts "90s", "5m", "1h" or a plain number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func ParseDuration(input string) (time.Duration, error) {
	value := strings.TrimSpace(strings.ToLower(input))
	if value == "" {
		return 0, fmt.Errorf("invalid duration")
	}
	if strings.HasSuffix(value, "s") || strings.HasSuffix(value, "m") || strings.HasSuffix(value, "h") {
		return time.ParseDuration(value)
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s", input)
	}
	return time.Duration(seconds) * time.Second, nil
}

// DefaultPath returns the first existing config file under the user config
// directory (config.yaml, config.yml, config.toml), or "" if there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		path := filepath.Join(dir, "jobwizard", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load builds the configuration: defaults, then the config file at path (or
// DefaultPath when path is empty), then environment variables. envFiles are
// loaded into the environment first; missing ones are skipped and variables
// already set are not overridden.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parse config %s: unknown key %s", path, undecoded[0])
		}
	default:
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return nil
}
