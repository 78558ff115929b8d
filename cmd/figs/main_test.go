package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/figs-in-space/internal/debuglog"
	"github.com/tomz197/figs-in-space/internal/leaderboard"
	"github.com/tomz197/figs-in-space/internal/storage"
)

func newBoard(t *testing.T, scores ...int) *leaderboard.Board {
	t.Helper()
	ctx := context.Background()
	b, err := leaderboard.New(ctx, storage.NewMemoryKV())
	require.NoError(t, err)
	for i, s := range scores {
		_, err := b.AddScore(ctx, s, string(rune('A'+i)))
		require.NoError(t, err)
	}
	return b
}

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	w, h, err := s.getSize()
	require.NoError(t, err)
	assert.Equal(t, []int{80, 24}, []int{w, h})

	s.update(120, 40)
	w, h, _ = s.getSize()
	assert.Equal(t, []int{120, 40}, []int{w, h})
}

func TestRenderScores(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	assert.Contains(t, renderScores(r, newBoard(t).Scores()), "No scores recorded yet")

	out := renderScores(r, newBoard(t, 300, 1200).Scores())
	assert.Contains(t, out, "HIGH SCORES")
	assert.Contains(t, out, "1200")
	assert.Contains(t, out, "300")
	assert.NotContains(t, out, leaderboard.PlaceholderName)
	assert.Less(t, strings.Index(out, "1200"), strings.Index(out, "300"), "highest first")
}

func TestWebLanding(t *testing.T) {
	h := newWebHandler(newBoard(t, 900), log.New(io.Discard), landing{SSHHost: "figs.example", SSHPort: "2222"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?autoTest=1&debug=yes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ssh -t -p 2222 figs.example")
	assert.Contains(t, body, "figs play --autotest --debug")
	assert.Contains(t, body, "900")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "<pre>figs play</pre>")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebScoresFeed(t *testing.T) {
	h := newWebHandler(newBoard(t, 50, 70), log.New(io.Discard), landing{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scores", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []leaderboard.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []leaderboard.Entry{{Name: "B", Score: 70}, {Name: "A", Score: 50}}, got)
}

func TestExportRecording(t *testing.T) {
	rec := debuglog.New(debuglog.Options{Enabled: true})
	rec.SetSession("abc")
	dir := t.TempDir()

	path := filepath.Join(dir, "run.json")
	require.NoError(t, exportRecording(rec, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sessionId": "abc"`)

	require.NoError(t, exportRecording(rec, filepath.Join(dir, "run.msgpack")))

	err = exportRecording(rec, filepath.Join(dir, "run.txt"))
	assert.ErrorIs(t, err, debuglog.ErrUnknownFormat)
}

func TestResolveHostKey(t *testing.T) {
	dir := t.TempDir()
	path, err := resolveHostKey(filepath.Join(dir, "keys", "host_key"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "keys", "host_key"), path)
	assert.DirExists(t, filepath.Join(dir, "keys"))
}
