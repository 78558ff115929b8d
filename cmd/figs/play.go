package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomz197/figs-in-space/internal/debuglog"
	"github.com/tomz197/figs-in-space/internal/loop"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game in the current terminal. The terminal is switched to raw
mode for the whole run and restored on exit.

Logs go to stderr unless it is the same terminal as the game; use --log-file
to keep them.

Examples:
  figs play
  figs play --autotest --debug-out thrust.msgpack`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	var logs io.Writer = os.Stderr
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logs = io.Discard
	}
	a, err := setup(logs)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	board, closeBoard, err := a.openBoard(ctx)
	if err != nil {
		return err
	}
	defer closeBoard()

	var rec *debuglog.Recorder
	if a.flags.Recording() {
		rec = debuglog.New(debuglog.Options{
			Logger:         a.logger,
			ConsoleLogging: a.flags.LogInput(),
		})
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("figs: enable raw mode: %w", err)
	}
	runErr := loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Tuning:   a.tuning,
		Board:    board,
		Recorder: rec,
		Flags:    a.flags,
		Logger:   a.logger,
		Styles:   lipgloss.NewRenderer(os.Stdout),
		Seed:     flagSeed,
	})
	_ = term.Restore(fd, oldState)
	if runErr != nil {
		return fmt.Errorf("figs: play: %w", runErr)
	}

	if rec != nil && flagDebugOut != "" {
		if err := exportRecording(rec, flagDebugOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recording written to %s\n", flagDebugOut)
	}
	return nil
}

// exportRecording writes rec to path in the format named by its extension.
func exportRecording(rec *debuglog.Recorder, path string) error {
	format, err := debuglog.ParseFormat(filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("figs: --debug-out: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("figs: --debug-out: %w", err)
	}
	if err := rec.Export(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
