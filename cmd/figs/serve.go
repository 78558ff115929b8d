package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/cobra"

	"github.com/tomz197/figs-in-space/internal/config"
	"github.com/tomz197/figs-in-space/internal/draw"
	"github.com/tomz197/figs-in-space/internal/leaderboard"
	"github.com/tomz197/figs-in-space/internal/loop"
)

const (
	defaultHost     = "::"
	defaultPort     = "2222"
	shutdownTimeout = 10 * time.Second
)

var flagIdleTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host games over SSH",
	Long: `Start an SSH server. Every connection gets its own game; players share
only the high-score list.

The listen address comes from $FIGS_HOST and $FIGS_PORT (default [::]:2222).
The host key is read from $FIGS_HOST_KEY, or generated at ~/.figs/host_key.

Players connect with:
  ssh -t -p 2222 localhost`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Disconnect idle players after this long")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	host := config.GetEnv(config.EnvHost, defaultHost)
	port := config.GetEnv(config.EnvPort, defaultPort)
	hostKeyPath, err := resolveHostKey(config.GetEnv(config.EnvHostKey, ""))
	if err != nil {
		return err
	}

	board, closeBoard, err := a.openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBoard()

	gh := &gameHandler{
		app:    a,
		board:  board,
		logger: a.logger.WithPrefix("ssh"),
	}

	s, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(flagIdleTimeout),
		wish.WithMiddleware(
			gh.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(_ ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	)
	if err != nil {
		return fmt.Errorf("figs: create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	serveErr := make(chan error, 1)
	a.logger.Info("starting SSH server", "address", net.JoinHostPort(host, port), "hostKey", hostKeyPath)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		return fmt.Errorf("figs: serve: %w", err)
	}

	a.logger.Info("shutting down", "players", gh.active())
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("figs: shutdown: %w", err)
	}
	return nil
}

// resolveHostKey defaults the host key to ~/.figs/host_key and makes sure its
// directory exists. wish generates the key on first use.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("figs: host key: %w", err)
		}
		path = filepath.Join(home, ".figs", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("figs: host key: %w", err)
	}
	return path, nil
}

// gameHandler runs one host per SSH session. Only the board is shared.
type gameHandler struct {
	*app
	board  *leaderboard.Board
	logger *log.Logger

	mu      sync.Mutex
	players int
}

func (g *gameHandler) active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players
}

func (g *gameHandler) track(delta int) {
	g.mu.Lock()
	g.players += delta
	g.mu.Unlock()
}

// middleware handles SSH sessions and runs the game.
func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "figs needs a terminal. Connect with: ssh -t user@host")
			return
		}

		logger := g.logger.With("user", sess.User())
		logger.Info("player connected",
			"remote", sess.RemoteAddr().String(),
			"term", pty.Term,
			"width", pty.Window.Width,
			"height", pty.Window.Height,
		)

		size := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				size.update(win.Width, win.Height)
			}
		}()

		g.track(1)
		err := loop.Run(sess.Context(), bufio.NewReader(sess), sess, loop.Options{
			Tuning:       g.tuning,
			Board:        g.board,
			Flags:        g.flags,
			Logger:       logger,
			TermSizeFunc: size.getSize,
			Styles:       bubbletea.MakeRenderer(sess),
			Seed:         flagSeed,
			Player:       sess.User(),
		})
		g.track(-1)
		if err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("player left")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
