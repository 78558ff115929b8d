package loop

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/figs-in-space/internal/config"
	"github.com/tomz197/figs-in-space/internal/draw"
	"github.com/tomz197/figs-in-space/internal/game"
	"github.com/tomz197/figs-in-space/internal/input"
	"github.com/tomz197/figs-in-space/internal/leaderboard"
	"github.com/tomz197/figs-in-space/internal/object"
	"github.com/tomz197/figs-in-space/internal/storage"
)

// Screen is the phase a connection is in.
type Screen uint8

const (
	ScreenTitle       Screen = iota // Logo and start prompt
	ScreenDemo                      // Autopilot session during the attract cycle
	ScreenLeaderboard               // High scores, in the attract cycle or after a game
	ScreenPlaying                   // Active gameplay
	ScreenGameOver                  // Final score and name entry
)

var screenNames = [...]string{"title", "demo", "leaderboard", "playing", "game-over"}

func (s Screen) String() string {
	if int(s) < len(screenNames) {
		return screenNames[s]
	}
	return "unknown"
}

// Overlay is a dialog drawn over the playing screen. Any overlay pauses the session.
type Overlay uint8

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayQuit
)

// Host owns one terminal: its session, its timers and its canvas.
// All methods run on the frame goroutine.
type Host struct {
	ctx    context.Context
	t      config.Tuning
	flags  config.Flags
	logger *log.Logger
	board  *leaderboard.Board

	queue   *game.TimerQueue
	session *game.Session

	w        io.Writer
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	renderer draw.Renderer
	theme    draw.Theme
	termSize draw.TermSizeFunc
	sprites  []object.Sprite

	screen    Screen
	drawn     Screen // screen shown by the last frame
	firstDraw bool
	now       time.Duration
	running   bool

	attractTimer game.Timer

	// Playing
	overlay   Overlay
	helpTimer game.Timer
	held      input.KeySet // live keys as last forwarded to the session

	// Game over and leaderboard
	result      game.Result
	highScore   bool
	name        []rune
	player      string
	resultTimer game.Timer
	highlight   *leaderboard.Entry
	notice      string
}

// NewHost prepares a host that writes frames to w. It does not touch the
// terminal until the first Draw.
func NewHost(ctx context.Context, w io.Writer, opts Options) (*Host, error) {
	t := opts.Tuning
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("loop: new host: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.WithPrefix("host")

	board := opts.Board
	if board == nil {
		var err error
		board, err = leaderboard.New(ctx, storage.NewMemoryKV(), leaderboard.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("loop: new host: %w", err)
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	termSize := opts.TermSizeFunc
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}

	h := &Host{
		ctx:       ctx,
		t:         t,
		flags:     opts.Flags,
		logger:    logger,
		board:     board,
		queue:     game.NewTimerQueue(),
		w:         w,
		renderer:  draw.NewRenderer(),
		theme:     draw.NewTheme(opts.Styles),
		termSize:  termSize,
		player:    opts.Player,
		firstDraw: true,
		running:   true,
	}

	session, err := game.New(game.Options{
		Tuning:    t,
		Scheduler: h.queue,
		Rand:      rand.New(rand.NewSource(seed)),
		Recorder:  opts.Recorder,
		Reporter:  game.ReporterFunc(h.onResult),
		Logger:    opts.Logger,
		Flags:     opts.Flags,
	})
	if err != nil {
		return nil, fmt.Errorf("loop: new host: %w", err)
	}
	h.session = session

	termW, termH, err := termSize()
	if err != nil {
		termW, termH = 80, 24
	}
	renderW, renderH, offCol, offRow := clampTermSize(termW, termH, t.Host)
	h.canvas = draw.NewScaledCanvas(renderW, renderH, t.World.Width, t.World.Height)
	h.canvas.SetOffset(offCol, offRow)
	h.cw = draw.NewChunkWriter(w, offCol, offRow)

	h.toTitle()
	return h, nil
}

// Screen returns the current phase.
func (h *Host) Screen() Screen { return h.screen }

// Overlay returns the dialog shown over play, if any.
func (h *Host) Overlay() Overlay { return h.overlay }

// Session returns the host's game session.
func (h *Host) Session() *game.Session { return h.session }

// Running reports whether the host wants more frames.
func (h *Host) Running() bool { return h.running }

// Close abandons the current session and cancels every timer.
func (h *Host) Close() {
	h.session.Stop()
	h.queue.Clear()
	h.running = false
}

func stopTimer(t *game.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
