package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/config"
	"github.com/tahmarrrr23/tappval/internal/output"
	"github.com/tahmarrrr23/tappval/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tappval",
	Short: "Inspect tap-target analysis results",
	Long: `tappval fetches tap-target analysis results for a web page and shows
them as a colour-coded overlay on the captured screenshot: a summary, the
ordered overlay regions, a rendered image, an HTTP viewer and MCP tools.`,
	SilenceUsage: true,
}

// cfg is the loaded configuration, set before any subcommand runs.
var cfg = config.Default()

// logger is the CLI logger, set before any subcommand runs.
var logger = slog.Default()

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config, else info)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		configPath, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level, _ := rootCmd.PersistentFlags().GetString("log-level")
		if level == "" {
			level = cfg.LogLevel
		}
		l, err := newLogger(level)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

// newLogger builds the stderr text logger for level.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unsupported log level: %s (use debug, info, warn or error)", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
