package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"wbrowse/pkg/layout"
	"wbrowse/pkg/text"
	stdnet "wbrowse/std/net"
)

// Config is the full application configuration, loaded from the config
// file, WBROWSE_ environment variables and command line flags.
type Config struct {
	Logger  LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Window  WindowConfig    `mapstructure:"window" yaml:"window"`
	Layout  LayoutConfig    `mapstructure:"layout" yaml:"layout"`
	Fonts   text.FontConfig `mapstructure:"fonts" yaml:"fonts"`
	Network NetworkConfig   `mapstructure:"network" yaml:"network"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal color for each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// WindowConfig is the viewport size and the distance of one scroll step.
type WindowConfig struct {
	Width      int     `mapstructure:"width" yaml:"width"`
	Height     int     `mapstructure:"height" yaml:"height"`
	ScrollStep float64 `mapstructure:"scroll_step" yaml:"scroll_step"`
}

// LayoutConfig carries the layout constants and whether documents go
// through the tree builder before layout.
type LayoutConfig struct {
	layout.Options `mapstructure:",squash" yaml:",inline"`
	Tree           bool `mapstructure:"tree" yaml:"tree"`
}

type NetworkConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// NewDefaultConfig returns the configuration with every default applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "wbrowse")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Window --
	v.SetDefault("window.width", 800)
	v.SetDefault("window.height", 600)
	v.SetDefault("window.scroll_step", 100)

	// -- Layout --
	defaults := layout.DefaultOptions()
	v.SetDefault("layout.hstep", defaults.HStep)
	v.SetDefault("layout.vstep", defaults.VStep)
	v.SetDefault("layout.font_size", defaults.FontSize)
	v.SetDefault("layout.line_height", defaults.LineHeight)
	v.SetDefault("layout.tree", false)

	// -- Fonts --
	v.SetDefault("fonts.regular", "")
	v.SetDefault("fonts.bold", "")
	v.SetDefault("fonts.italic", "")
	v.SetDefault("fonts.bold_italic", "")

	// -- Network --
	v.SetDefault("network.timeout", "30s")
	v.SetDefault("network.user_agent", stdnet.DefaultUserAgent)
}

// EnvPrefix is prepended to every environment override, e.g.
// WBROWSE_WINDOW_WIDTH for window.width.
const EnvPrefix = "WBROWSE"

// BindEnv makes every configuration key overridable from the environment.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.ScrollStep <= 0 {
		return fmt.Errorf("window.scroll_step must be positive")
	}
	if c.Layout.FontSize <= 0 {
		return fmt.Errorf("layout.font_size must be a positive integer")
	}
	if c.Layout.HStep < 0 || c.Layout.VStep < 0 {
		return fmt.Errorf("layout.hstep and layout.vstep must not be negative")
	}
	if 2*c.Layout.HStep >= float64(c.Window.Width) {
		return fmt.Errorf("layout.hstep %.0f leaves no room in a %dpx window", c.Layout.HStep, c.Window.Width)
	}
	if c.Layout.LineHeight <= 0 {
		return fmt.Errorf("layout.line_height must be positive")
	}
	if c.Network.Timeout < 0 {
		return fmt.Errorf("network.timeout must not be negative")
	}
	return nil
}
