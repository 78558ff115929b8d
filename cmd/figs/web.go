package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tomz197/figs-in-space/internal/config"
	"github.com/tomz197/figs-in-space/internal/leaderboard"
)

const defaultWebPort = "8080"

var flagSSHDisplayHost string

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(indexHTML))

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the landing page and the scores feed",
	Long: `Start an HTTP server with a landing page that explains how to connect,
and a JSON feed of the high scores at /scores.

The landing page reads autoTest, debug and inputLog from its query string and
shows the matching 'figs play' command, e.g. /?autoTest=1&debug=true.

The port comes from $FIGS_WEB_PORT (default 8080).`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagSSHDisplayHost, "ssh-host", "localhost", "Host name shown in the ssh command")
}

func runWeb(cmd *cobra.Command, _ []string) error {
	a, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	board, closeBoard, err := a.openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBoard()

	logger := a.logger.WithPrefix("web")
	srv := &http.Server{
		Addr: net.JoinHostPort("", config.GetEnv(config.EnvWebPort, defaultWebPort)),
		Handler: newWebHandler(board, logger, landing{
			SSHHost: flagSSHDisplayHost,
			SSHPort: config.GetEnv(config.EnvPort, defaultPort),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	serveErr := make(chan error, 1)
	logger.Info("starting web server", "address", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// landing is the data behind index.html.
type landing struct {
	SSHHost string
	SSHPort string
	Command string
	Query   string
	Scores  []leaderboard.Entry
}

func newWebHandler(board *leaderboard.Board, logger *log.Logger, base landing) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		flags, err := config.ParseQuery(r.URL.RawQuery)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		page := base
		page.Command = strings.Join(append([]string{"figs", "play"}, flags.Args()...), " ")
		page.Query = flags.Query()
		page.Scores = scored(board.Scores())

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, page); err != nil {
			logger.Error("render landing page", "err", err)
		}
	})

	mux.HandleFunc("GET /scores", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(scored(board.Scores())); err != nil {
			logger.Error("encode scores", "err", err)
		}
	})

	return mux
}

// scored drops the placeholder entries.
func scored(entries []leaderboard.Entry) []leaderboard.Entry {
	out := make([]leaderboard.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Score > 0 {
			out = append(out, e)
		}
	}
	return out
}
