package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/mt5bridge/mql"
)

// Config is the configuration shared by mt5ctl and the proxy.
type Config struct {
	Terminal TerminalConfig `json:"terminal" yaml:"terminal"`
	Account  AccountConfig  `json:"account" yaml:"account"`
	Python   PythonConfig   `json:"python" yaml:"python"`
	Proxy    ProxyConfig    `json:"proxy" yaml:"proxy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// TerminalConfig locates the terminal executable.
type TerminalConfig struct {
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"omitempty,duration"` // e.g. "60s"
	Portable bool   `json:"portable,omitempty" yaml:"portable,omitempty"`
}

// ParseTimeout converts the timeout string to time.Duration. Zero means the
// terminal default.
func (t TerminalConfig) ParseTimeout() (time.Duration, error) {
	if t.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(t.Timeout)
}

// AccountConfig holds the trading account credentials. Either all of them
// are set or none.
type AccountConfig struct {
	Login    int64  `json:"login,omitempty" yaml:"login,omitempty" validate:"required_with=Password Server"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" validate:"required_with=Login"`
	Server   string `json:"server,omitempty" yaml:"server,omitempty" validate:"required_with=Login"`
}

// Credentials returns the account credentials and whether any are set.
func (a AccountConfig) Credentials() (mql.AccountCredentials, bool) {
	return mql.AccountCredentials{Login: a.Login, Password: a.Password, Server: a.Server}, a.Login != 0
}

// PythonConfig configures the interpreter hosting the terminal module.
type PythonConfig struct {
	Executable   string `json:"executable,omitempty" yaml:"executable,omitempty"`
	SitePackages string `json:"site_packages,omitempty" yaml:"site_packages,omitempty"`
	Module       string `json:"module,omitempty" yaml:"module,omitempty"`
}

// ProxyConfig configures the HTTP proxy and the client talking to it.
type ProxyConfig struct {
	Listen string `json:"listen" yaml:"listen" validate:"required,hostname_port"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
}

// JournalConfig selects where checked and sent trade requests are recorded.
type JournalConfig struct {
	Type string `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=sqlite csv"`
	Path string `json:"path,omitempty" yaml:"path,omitempty" validate:"required_with=Type"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}

// Load returns the defaults when path is empty, the file contents otherwise.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromFile(path)
}

// LoadFromFile loads configuration from a file (YAML or JSON). Keys missing
// from the file keep their default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("TERMINAL_PATH"); v != "" {
		c.Terminal.Path = v
	}
	if v := os.Getenv("TERMINAL_ACCOUNT_ID"); v != "" {
		login, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TERMINAL_ACCOUNT_ID: %w", err)
		}
		c.Account.Login = login
	}
	if v := os.Getenv("TERMINAL_ACCOUNT_PASSWORD"); v != "" {
		c.Account.Password = v
	}
	if v := os.Getenv("TERMINAL_ACCOUNT_SERVER"); v != "" {
		c.Account.Server = v
	}
	if v := os.Getenv("MT5_SITE_PACKAGES"); v != "" {
		c.Python.SitePackages = v
	}
	if v := os.Getenv("MT5_PROXY_URL"); v != "" {
		c.Proxy.URL = v
	}
	return nil
}

// Validate checks the configuration and reports the first problem found.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "required_with":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Errorf("%s is not a valid %s", field, fe.Tag())
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Terminal: TerminalConfig{
			Timeout: "60s",
		},
		Python: PythonConfig{
			Module: "MetaTrader5",
		},
		Proxy: ProxyConfig{
			Listen: "127.0.0.1:8000",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
