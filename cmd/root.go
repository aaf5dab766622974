// Package cmd wires the CLI surface: every invocation is routed to
// exactly one service or config operation, and every failure is mapped
// from the component error taxonomy onto an exit code and a single
// user-visible line.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-rcp/rcpdaemon/internal/cliio"
	"github.com/open-rcp/rcpdaemon/internal/config"
)

var (
	cfgFile  string
	jsonOut  bool
	quietOut bool
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "rcpdaemon",
	Short: "Manage the RCP daemon and its configuration",
	Long: `rcpdaemon controls the RCP background daemon: it registers the daemon
with the native service manager (systemd, launchd, or the Windows SCM),
drives its lifecycle, and edits the shared configuration file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(docOrDefault())
	},
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		f := newFormatter(docOrDefault())
		f.ErrorObject(errorKind(err), err.Error())
		if hint := errorHint(err); hint != "" && !f.JSON {
			f.Info(hint)
		}
		return exitCodeFor(err)
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit structured JSON output")
	rootCmd.PersistentFlags().BoolVarP(&quietOut, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// configPath resolves --config or the well-known default
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

// loadDocument loads the config document and reports where it came from
func loadDocument() (*config.Document, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}
	doc, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return doc, path, nil
}

// docOrDefault loads the document for presentation decisions only; a
// broken config file must not keep error rendering from working, so any
// load failure falls back to the defaults.
func docOrDefault() *config.Document {
	doc, _, err := loadDocument()
	if err != nil {
		def := config.Default()
		return &def
	}
	return doc
}

// newFormatter builds the output formatter from the document plus the
// global flag overrides
func newFormatter(doc *config.Document) *cliio.Formatter {
	useJSON := jsonOut || doc.Output.JSONOutput || doc.Output.Format == "json"
	useColor := doc.Output.Color && !noColor
	useQuiet := quietOut || doc.Output.Quiet
	return cliio.New(useJSON, useColor, useQuiet)
}

// setupLogging installs the default slog logger at the configured level
func setupLogging(doc *config.Document) {
	var level slog.Level
	switch doc.Output.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
