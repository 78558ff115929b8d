// figs is an arcade space shooter for the terminal.
//
// Usage:
//
//	figs play      - Play in this terminal
//	figs serve     - Host games over SSH, one session per connection
//	figs scores    - Show the high-score list
//	figs web       - Serve the landing page and the scores feed
//
// Global flags:
//
//	--config <path>     - Tuning YAML (default: search $FIGS_TUNING, ~/.figs, ./configs)
//	--db <path>         - Scores database (default: ~/.figs/scores.db)
//	--seed <value>      - RNG seed for reproducible sessions
//	--log-level <lvl>   - debug, info, warn or error
//	--autotest          - Drive the ship from the scripted thrust sequence
//	--debug             - Record frame states
//	--input-log         - Log every input transition
//	--debug-out <file>  - Write the recording here when play ends (.json or .msgpack)
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tomz197/figs-in-space/internal/config"
	"github.com/tomz197/figs-in-space/internal/leaderboard"
	"github.com/tomz197/figs-in-space/internal/storage"
)

const defaultDBPath = "~/.figs/scores.db"

var (
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
	flagLogFile  string
	flagAutoTest bool
	flagDebug    bool
	flagInputLog bool
	flagDebugOut string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "figs",
	Short: "Figs in Space - an arcade shooter for your terminal",
	Long: `Figs in Space is a wrap-around arcade shooter drawn with half-block
characters. Clear each wave of figs, dodge the saucers and keep away from
the gravity wells.

Examples:
  figs play
  figs play --seed 42 --debug --debug-out run.json
  figs serve
  figs scores`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnv,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&flagAutoTest, "autotest", false, "Play the scripted thrust sequence and record it")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Record frame states for export")
	rootCmd.PersistentFlags().BoolVar(&flagInputLog, "input-log", false, "Log every input transition")
	rootCmd.PersistentFlags().StringVar(&flagDebugOut, "debug-out", "", "Export the recording to this file (.json, .msgpack)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(webCmd)
}

// loadEnv reads .env and lets the environment fill flags that were not given.
func loadEnv(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if !cmd.Flags().Changed("db") {
		flagDBPath = config.GetEnv(config.EnvDB, flagDBPath)
	}
	if !cmd.Flags().Changed("log-level") {
		flagLogLevel = config.GetEnv(config.EnvLogLevel, flagLogLevel)
	}
	return nil
}

// app is what every command needs before it starts.
type app struct {
	tuning config.Tuning
	flags  config.Flags
	logger *log.Logger
	closer io.Closer // log file, if any
}

// setup loads tuning and builds the logger. logs is where log records go
// when no --log-file is given.
func setup(logs io.Writer) (*app, error) {
	a := &app{}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("figs: open log file: %w", err)
		}
		logs = f
		a.closer = f
	}

	a.logger = log.NewWithOptions(logs, log.Options{
		ReportTimestamp: true,
		Prefix:          "figs",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("figs: --log-level: %w", err)
	}
	a.logger.SetLevel(level)

	tuning, source, err := config.LoadTuning(flagConfig)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.tuning = tuning
	a.logger.Debug("tuning loaded", "source", source)

	a.flags = config.Flags{
		AutoTest: flagAutoTest,
		Debug:    flagDebug || flagDebugOut != "",
		InputLog: flagInputLog,
	}
	return a, nil
}

// Close releases the log file.
func (a *app) Close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

// openBoard opens the scores database. The returned func closes it.
func (a *app) openBoard(ctx context.Context) (*leaderboard.Board, func(), error) {
	kv, err := storage.OpenSQLite(flagDBPath)
	if err != nil {
		return nil, nil, err
	}
	board, err := leaderboard.New(ctx, kv, leaderboard.WithLogger(a.logger.WithPrefix("scores")))
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	a.logger.Debug("scores opened", "db", flagDBPath)
	return board, func() { kv.Close() }, nil
}
