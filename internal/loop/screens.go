package loop

import (
	"strings"
	"unicode"

	"github.com/tomz197/figs-in-space/internal/game"
	"github.com/tomz197/figs-in-space/internal/input"
	"github.com/tomz197/figs-in-space/internal/leaderboard"
)

// toTitle abandons whatever is running and restarts the attract cycle.
func (h *Host) toTitle() {
	h.session.Stop()
	h.closeOverlay()
	stopTimer(&h.resultTimer)
	h.highlight = nil
	h.notice = ""
	h.setScreen(ScreenTitle)
	h.scheduleAttract()
}

func (h *Host) setScreen(s Screen) {
	if s != h.screen {
		h.logger.Debug("screen", "from", h.screen, "to", s)
	}
	h.screen = s
}

func (h *Host) scheduleAttract() {
	stopTimer(&h.attractTimer)
	h.attractTimer = h.queue.Schedule(h.now+h.t.Host.AttractInterval, h.nextAttract)
}

// nextAttract moves the attract cycle on: title, demo, high scores, title.
func (h *Host) nextAttract() {
	h.attractTimer = nil
	switch h.screen {
	case ScreenTitle:
		h.session.StartSession(game.ModeDemo, h.now)
		h.setScreen(ScreenDemo)
	case ScreenDemo:
		h.session.Stop()
		h.setScreen(ScreenLeaderboard)
	case ScreenLeaderboard:
		h.setScreen(ScreenTitle)
	default:
		return
	}
	h.scheduleAttract()
}

func (h *Host) updateTitle(in input.Frame) {
	switch {
	case in.Quit || in.Escape:
		h.running = false
	case in.Enter || in.Pressed.Has(input.KeyFire):
		h.startGame(in)
	}
}

func (h *Host) updateDemo(in input.Frame) {
	if in.AnyKey {
		h.toTitle()
	}
}

func (h *Host) updateLeaderboard(in input.Frame) {
	if in.AnyKey {
		h.toTitle()
	}
}

// onResult receives the end of a session from the simulation.
func (h *Host) onResult(res game.Result) {
	if res.Mode == game.ModeDemo {
		if h.screen == ScreenDemo {
			h.toTitle()
		}
		return
	}
	if h.screen != ScreenPlaying {
		return
	}

	h.closeOverlay()
	h.result = res
	h.highScore = h.board.IsHighScore(res.Score)
	h.name = h.name[:0]
	for _, r := range strings.ToUpper(h.player) {
		h.typeRune(r)
	}
	h.setScreen(ScreenGameOver)

	wait := h.t.Host.ResultDuration
	next := h.showScores
	if h.highScore {
		wait = h.t.Host.NameTimeout
		next = h.saveScore
	}
	stopTimer(&h.resultTimer)
	h.resultTimer = h.queue.Schedule(h.now+wait, func() {
		h.resultTimer = nil
		next()
	})
	h.logger.Info("game over", "session", res.SessionID, "score", res.Score, "level", res.Level, "highScore", h.highScore)
}

func (h *Host) updateGameOver(in input.Frame) {
	if !h.highScore {
		if in.Enter || in.Escape {
			h.showScores()
		}
		return
	}
	if in.Backspace && len(h.name) > 0 {
		h.name = h.name[:len(h.name)-1]
	}
	for _, r := range in.Typed {
		h.typeRune(r)
	}
	if in.Enter {
		h.saveScore()
	}
}

// typeRune appends a letter, digit or space to the pending name.
func (h *Host) typeRune(r rune) {
	if len(h.name) >= h.t.Host.MaxNameLength {
		return
	}
	if r == ' ' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		h.name = append(h.name, unicode.ToUpper(r))
	}
}

// saveScore stores the pending name. A failed write is shown, not fatal.
func (h *Host) saveScore() {
	stopTimer(&h.resultTimer)
	entry, err := h.board.AddScore(h.ctx, h.result.Score, string(h.name))
	if err != nil {
		h.logger.Error("save score", "err", err)
		h.notice = "score could not be saved"
	} else {
		h.logger.Info("score saved", "name", entry.Name, "score", entry.Score)
	}
	h.highlight = &entry
	h.showScores()
}

func (h *Host) showScores() {
	stopTimer(&h.resultTimer)
	h.session.Stop()
	h.setScreen(ScreenLeaderboard)
	h.scheduleAttract()
}

// scoreRows returns the scored entries, placeholders left out.
func (h *Host) scoreRows() []leaderboard.Entry {
	var rows []leaderboard.Entry
	for _, e := range h.board.Scores() {
		if e.Score > 0 {
			rows = append(rows, e)
		}
	}
	return rows
}
