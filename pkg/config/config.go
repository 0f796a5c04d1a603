// Package config loads bot settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/go-mclib/legacy/pkg/client"
)

// Config mirrors the client builder. Files are decoded over Default(), so
// keys missing from a file keep their default values.
type Config struct {
	Username             string `yaml:"username" toml:"username"`
	Host                 string `yaml:"host" toml:"host"`
	Port                 uint16 `yaml:"port" toml:"port"`
	Autoreconnect        string `yaml:"autoreconnect" toml:"autoreconnect"`
	MaxReconnectAttempts int    `yaml:"max_reconnect_attempts" toml:"max_reconnect_attempts"`
	AutoRespawn          bool   `yaml:"auto_respawn" toml:"auto_respawn"`
	Interactive          bool   `yaml:"interactive" toml:"interactive"`
	Verbose              bool   `yaml:"verbose" toml:"verbose"`
	MaxLogLines          int    `yaml:"max_log_lines" toml:"max_log_lines"`
	Locale               string `yaml:"locale" toml:"locale"`
	ViewDistance         int8   `yaml:"view_distance" toml:"view_distance"`
}

const (
	MinViewDistance = 2
	MaxViewDistance = 32
)

func Default() Config {
	settings := client.DefaultSettings()
	return Config{
		Username:             client.DefaultUsername,
		Host:                 client.DefaultHost,
		Port:                 client.DefaultPort,
		Autoreconnect:        client.DefaultAutoreconnect.String(),
		MaxReconnectAttempts: -1,
		AutoRespawn:          true,
		MaxLogLines:          client.DefaultMaxLogLines,
		Locale:               settings.Locale,
		ViewDistance:         settings.ViewDistance,
	}
}

// Load reads path, choosing the decoder by extension. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	name := filepath.Base(path)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("%s: %w", name, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", name, err)
		}
	default:
		return cfg, fmt.Errorf("%s: unsupported config format %q", name, ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if n := utf8.RuneCountInString(c.Username); n > client.MaxUsernameLength {
		errs = append(errs, fmt.Errorf("username: %d characters, max %d", n, client.MaxUsernameLength))
	}
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, errors.New("host: must not be empty"))
	}
	if c.Port == 0 {
		errs = append(errs, errors.New("port: must not be 0"))
	}
	if d, err := c.reconnectDelay(); err != nil {
		errs = append(errs, err)
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("autoreconnect: negative delay %s", d))
	}
	if c.MaxReconnectAttempts < -1 {
		errs = append(errs, fmt.Errorf("max_reconnect_attempts: %d, want -1 or more", c.MaxReconnectAttempts))
	}
	if c.MaxLogLines < 0 {
		errs = append(errs, fmt.Errorf("max_log_lines: %d is negative", c.MaxLogLines))
	}
	if c.Locale == "" {
		errs = append(errs, errors.New("locale: must not be empty"))
	}
	if c.ViewDistance < MinViewDistance || c.ViewDistance > MaxViewDistance {
		errs = append(errs, fmt.Errorf("view_distance: %d outside [%d, %d]", c.ViewDistance, MinViewDistance, MaxViewDistance))
	}
	return errors.Join(errs...)
}

// reconnectDelay parses Autoreconnect; "" and "0" disable reconnecting.
func (c Config) reconnectDelay() (time.Duration, error) {
	if c.Autoreconnect == "" || c.Autoreconnect == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Autoreconnect)
	if err != nil {
		return 0, fmt.Errorf("autoreconnect: %w", err)
	}
	return d, nil
}

// Apply validates c and copies it onto cl.
func (c Config) Apply(cl *client.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}
	delay, _ := c.reconnectDelay()

	settings := cl.Settings
	settings.Locale = c.Locale
	settings.ViewDistance = c.ViewDistance

	cl.WithUsername(c.Username).
		WithHost(c.Host).
		WithPort(c.Port).
		WithAutoreconnect(delay).
		WithMaxReconnectAttempts(c.MaxReconnectAttempts).
		WithAutoRespawn(c.AutoRespawn).
		WithInteractive(c.Interactive).
		WithVerbose(c.Verbose).
		WithSettings(settings)
	cl.MaxLogLines = c.MaxLogLines
	return nil
}
