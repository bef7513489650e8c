// Package config loads gwparse settings.
//
// Settings are read, lowest priority first, from built-in defaults, the
// config file (~/.geneweb/config.yaml unless a path is given), a .env file,
// GENEWEB_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/geneweb/gw"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

var log = commonlog.GetLogger("geneweb.config")

// EnvPrefix is prepended to every key when read from the environment:
// log.verbosity is GENEWEB_LOG_VERBOSITY.
const EnvPrefix = "GENEWEB"

type Config struct {
	Strict               bool      `yaml:"strict" mapstructure:"strict"`
	Streaming            string    `yaml:"streaming" mapstructure:"streaming"`
	StreamingThresholdMB int64     `yaml:"streaming_threshold_mb" mapstructure:"streaming_threshold_mb"`
	Validate             bool      `yaml:"validate" mapstructure:"validate"`
	Workers              int       `yaml:"workers" mapstructure:"workers"`
	Log                  LogConfig `yaml:"log" mapstructure:"log"`

	// Source is the config file that was read, if any.
	Source string `yaml:"-" mapstructure:"-"`
}

type LogConfig struct {
	Verbosity int    `yaml:"verbosity" mapstructure:"verbosity"`
	File      string `yaml:"file" mapstructure:"file"`
}

func Default() *Config {
	return &Config{
		Streaming:            string(gw.StreamAuto),
		StreamingThresholdMB: gw.DefaultStreamingThreshold >> 20,
		Validate:             true,
	}
}

// Check reports the first setting that is out of range.
func (c *Config) Check() error {
	if _, err := gw.ParseStreamMode(c.Streaming); err != nil {
		return fmt.Errorf("streaming: %w", err)
	}
	if c.StreamingThresholdMB < 0 {
		return fmt.Errorf("streaming_threshold_mb: must not be negative, got %d", c.StreamingThresholdMB)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must not be negative, got %d", c.Workers)
	}
	return nil
}

// Options converts the settings into parse options.
func (c *Config) Options() (gw.Options, error) {
	mode, err := gw.ParseStreamMode(c.Streaming)
	if err != nil {
		return gw.Options{}, fmt.Errorf("streaming: %w", err)
	}
	opts := gw.DefaultOptions()
	opts.Strict = c.Strict
	opts.Streaming = mode
	opts.Validate = c.Validate
	if c.StreamingThresholdMB > 0 {
		opts.StreamingThresholdBytes = c.StreamingThresholdMB << 20
	}
	return opts, nil
}

// WriteYAML writes the settings as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// DefaultPath returns ~/.geneweb/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".geneweb", "config.yaml"), nil
}

// Loader reads settings through viper. Flags bound with BindFlag override
// every other source once they are set on the command line.
type Loader struct {
	v *viper.Viper

	// EnvFile is loaded into the environment before reading. A missing
	// file is not an error.
	EnvFile string
}

func NewLoader() *Loader {
	v := viper.New()
	def := Default()
	v.SetDefault("strict", def.Strict)
	v.SetDefault("streaming", def.Streaming)
	v.SetDefault("streaming_threshold_mb", def.StreamingThresholdMB)
	v.SetDefault("validate", def.Validate)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("log.verbosity", def.Log.Verbosity)
	v.SetDefault("log.file", def.Log.File)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, EnvFile: ".env"}
}

// BindFlag makes flag the highest priority source of key.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: no such flag", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the settings. An empty path searches ~/.geneweb for
// config.yaml and tolerates its absence; an explicit path must exist.
func (l *Loader) Load(path string) (*Config, error) {
	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", l.EnvFile, err)
		}
	}

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".geneweb"))
		}
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Source = l.v.ConfigFileUsed()
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		log.Debugf("using config file %s", cfg.Source)
	}
	return cfg, nil
}

// Load reads the settings with a fresh Loader.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Init writes the default settings to path, creating its directory. It
// refuses to overwrite an existing file unless force is set.
func Init(path string, force bool) (err error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	header := "# gwparse configuration\n" +
		"#\n" +
		"# Priority, highest first: command-line flags, GENEWEB_* environment\n" +
		"# variables (also read from .env), this file, built-in defaults.\n" +
		"# streaming is one of auto, always, never.\n\n"
	if _, err := io.WriteString(f, header); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return Default().WriteYAML(f)
}
