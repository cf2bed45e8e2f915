package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"wbrowse/internal/config"
	"wbrowse/internal/observability"
)

// app carries what every subcommand needs once the root command has
// loaded the configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "wbrowse",
		Short:         "A small text web browser: fetch, tokenize, lay out and paint pages.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initializeConfig(); err != nil {
				return err
			}
			cfg, err := config.NewConfigFromViper(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			observability.InitializeLogger(cfg.Logger)
			a.logger = observability.GetLogger()
			a.logger.Debug("configuration loaded",
				zap.Int("width", cfg.Window.Width),
				zap.Int("height", cfg.Window.Height),
				zap.Bool("tree", cfg.Layout.Tree))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./wbrowse.yaml)")
	flags.Int("width", 800, "viewport width in pixels")
	flags.Int("height", 600, "viewport height in pixels")
	flags.Bool("tree", false, "build a document tree before layout")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	config.SetDefaults(a.v)
	if err := bindFlags(a.v, flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		newOpenCmd(a),
		newShowCmd(a),
		newLayoutCmd(a),
		newTokensCmd(a),
		newTreeCmd(a),
	)
	return rootCmd
}

// flagKeys maps persistent flags to the configuration keys they override.
var flagKeys = []struct{ key, flag string }{
	{"window.width", "width"},
	{"window.height", "height"},
	{"layout.tree", "tree"},
	{"logger.level", "log-level"},
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, b := range flagKeys {
		f := flags.Lookup(b.flag)
		if f == nil {
			return fmt.Errorf("binding %s: flag --%s is not defined", b.key, b.flag)
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("binding %s: %w", b.key, err)
		}
	}
	return nil
}

// initializeConfig reads the config file, if any, and binds WBROWSE_
// environment variables.
func (a *app) initializeConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("wbrowse")
		a.v.SetConfigType("yaml")
	}
	config.BindEnv(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
