package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"calpicker/internal/config"
	appLog "calpicker/internal/log"
	"calpicker/internal/picker"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	listen     string
	logLevel   string
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:   "calpicker",
	Short: "Month-grid date picker served over HTTP or in a terminal",
	Long: `calpicker shows one month at a time as a 6x7 day grid. A day can be
selected by tapping it, months are paged with Previous/Next, and every
selection change is reported to the host.

It can run as:
  - A web host with a JSON API (serve)
  - A terminal picker (tui)
  - A one-shot grid printer or PNG renderer (grid, render)`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`{{printf "calpicker version %s\n" .Version}}`)

	// Default to the web host, like the daemon always did.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "./calpicker.yaml", "Path to config file")
	pf.StringVar(&flags.listen, "listen", "", "HTTP listen address (overrides config if set)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config if set)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newGridCmd())
}

// loadConfig reads the config file and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		return nil, err
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Debug("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"selected_date", conf.SelectedDate,
		"ics_count", len(conf.ICS),
		"refresh", conf.RefreshCron,
		"metrics", conf.Metrics,
	)
	return conf, nil
}

// pickerOptions builds picker options from conf with today as the fallback
// selection.
func pickerOptions(conf *config.Config) (picker.Options, error) {
	opts, err := conf.PickerOptions(time.Now())
	if err != nil {
		appLog.Error("invalid picker configuration", err)
		return picker.Options{}, err
	}
	return opts, nil
}
