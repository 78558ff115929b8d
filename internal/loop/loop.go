// Package loop runs the terminal host: one frame loop per connection that
// feeds input to a game session and draws it.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/figs-in-space/internal/config"
	"github.com/tomz197/figs-in-space/internal/debuglog"
	"github.com/tomz197/figs-in-space/internal/draw"
	"github.com/tomz197/figs-in-space/internal/input"
	"github.com/tomz197/figs-in-space/internal/leaderboard"
)

// Options configures a host.
type Options struct {
	Tuning       config.Tuning
	Board        *leaderboard.Board // shared across connections; nil keeps scores in memory
	Recorder     *debuglog.Recorder
	Flags        config.Flags
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
	Styles       *lipgloss.Renderer // colour profile of the terminal being drawn to
	Seed         int64              // 0 seeds from the clock
	Player       string             // prefilled high-score name
}

// Run drives the host at the configured frame rate until the player leaves,
// the reader ends or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	h, err := NewHost(ctx, w, opts)
	if err != nil {
		return err
	}
	defer h.Close()

	stream := input.StartStream(r)

	draw.EnterAltScreen(w)
	draw.HideCursor(w)
	defer func() {
		io.WriteString(w, draw.ColorReset)
		draw.ClearScreen(w)
		draw.ShowCursor(w)
		draw.ExitAltScreen(w)
	}()
	draw.ClearScreen(w)

	frameTime := opts.Tuning.Host.FrameTime()
	start := time.Now()
	lastTime := start

	for {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		frame := stream.Poll(frameStart)
		if frame.Closed {
			return nil
		}
		if !h.Step(frameStart.Sub(start), delta, frame) {
			return nil
		}

		h.updateScreen()
		if err := h.Draw(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(frameTime - elapsed):
			}
		} else if ctx.Err() != nil {
			return nil
		}
	}
}

// Step advances the host to now: timers first, then the screen's input
// handling, then the simulation. It reports whether the host keeps running.
func (h *Host) Step(now, delta time.Duration, in input.Frame) bool {
	h.now = now
	h.queue.Advance(now)

	if in.Interrupt {
		h.running = false
		return false
	}

	switch h.screen {
	case ScreenTitle:
		h.updateTitle(in)
	case ScreenDemo:
		h.updateDemo(in)
	case ScreenLeaderboard:
		h.updateLeaderboard(in)
	case ScreenPlaying:
		h.updatePlaying(in)
	case ScreenGameOver:
		h.updateGameOver(in)
	}

	switch h.screen {
	case ScreenDemo, ScreenPlaying, ScreenGameOver:
		h.session.Tick(now, delta)
	}
	return h.running
}

// updateScreen handles terminal resize, clamping to the max render resolution.
// A real size change clears the terminal to remove stale borders.
func (h *Host) updateScreen() {
	termW, termH, err := h.termSize()
	if err != nil {
		return
	}
	renderW, renderH, offCol, offRow := clampTermSize(termW, termH, h.t.Host)

	if renderW != h.canvas.TerminalWidth() || renderH != h.canvas.TerminalHeight() ||
		offCol != h.canvas.OffsetCol() || offRow != h.canvas.OffsetRow() {
		draw.ClearScreen(h.w)
		h.canvas.ForceRedraw()
	}

	h.canvas.Resize(renderW, renderH)
	h.canvas.SetOffset(offCol, offRow)
	h.cw.SetOffset(offCol, offRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the offset that centres the render area.
func clampTermSize(termW, termH int, ht config.HostTuning) (renderW, renderH, offCol, offRow int) {
	renderW = min(max(termW, 1), ht.MaxTermWidth)
	renderH = min(max(termH, 1), ht.MaxTermHeight)
	offCol = max(termW-renderW, 0) / 2
	offRow = max(termH-renderH, 0) / 2
	return
}
