package loop

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/figs-in-space/internal/draw"
)

var helpLines = []string{
	"A / LEFT     rotate left",
	"D / RIGHT    rotate right",
	"W / UP       thrust",
	"S / DOWN     reverse thrust",
	"SPACE        fire",
	"H            this help",
	"Q            quit",
}

// Draw renders the current screen. The terminal is cleared when the screen changes.
func (h *Host) Draw() error {
	if h.firstDraw || h.drawn != h.screen {
		draw.ClearScreen(h.cw)
		h.canvas.ForceRedraw()
		h.firstDraw = false
		h.drawn = h.screen
	}

	h.canvas.Clear()
	switch h.screen {
	case ScreenDemo, ScreenPlaying, ScreenGameOver:
		h.sprites = h.session.Sprites(h.sprites[:0])
		h.renderer.Draw(h.canvas, h.sprites)
	}
	h.canvas.Render(h.cw)
	h.canvas.RenderBorder(h.cw)

	switch h.screen {
	case ScreenTitle:
		h.drawTitle()
	case ScreenDemo:
		h.drawDemo()
	case ScreenLeaderboard:
		h.drawLeaderboard()
	case ScreenPlaying:
		h.drawPlaying()
	case ScreenGameOver:
		h.drawGameOver()
	}

	return h.cw.Flush()
}

// blink alternates every period of host time.
func (h *Host) blink(period time.Duration) bool {
	return (h.now/period)%2 == 0
}

func (h *Host) drawTitle() {
	th := h.theme
	prompt := ""
	if h.blink(500 * time.Millisecond) {
		prompt = th.Accent.Render("PRESS SPACE TO START")
	}
	block := lipgloss.JoinVertical(lipgloss.Center,
		th.Title.Render(draw.Banner("FIGS IN SPACE")),
		"",
		prompt,
		"",
		th.Dim.Render("Q to leave"),
	)
	th.DrawCentered(h.cw, h.canvas, block, 0)
}

func (h *Host) drawDemo() {
	th := h.theme
	if h.blink(500 * time.Millisecond) {
		th.DrawCentered(h.cw, h.canvas, th.Accent.Render("INSERT COIN"), 0)
	}
	bottom := th.Title.Render("FIGS IN SPACE") + th.Dim.Render("  demo  press any key")
	th.DrawCentered(h.cw, h.canvas, bottom, h.canvas.TerminalHeight())
}

func (h *Host) drawLeaderboard() {
	th := h.theme
	rows := h.scoreRows()
	lines := make([]string, 0, len(rows)+3)
	if len(rows) == 0 {
		lines = append(lines, th.Dim.Render("no scores yet"))
	}
	for i, e := range rows {
		line := fmt.Sprintf("%2d. %-*s %8d", i+1, h.t.Host.MaxNameLength, e.Name, e.Score)
		if h.highlight != nil && *h.highlight == e {
			lines = append(lines, th.Accent.Render(line))
		} else {
			lines = append(lines, th.Value.Render(line))
		}
	}
	if h.notice != "" {
		lines = append(lines, "", th.Warn.Render(h.notice))
	}
	lines = append(lines, "", th.Dim.Render("press any key"))
	th.DrawCentered(h.cw, h.canvas, th.Panel("HIGH SCORES", lines...), 0)
}

func (h *Host) drawPlaying() {
	th := h.theme
	s := h.session
	th.DrawHUD(h.cw, h.canvas, draw.HUD{
		Score:      s.Score(),
		Lives:      s.Lives(),
		Level:      s.Level(),
		Multiplier: s.Multiplier(),
	})

	switch h.overlay {
	case OverlayHelp:
		lines := make([]string, 0, len(helpLines)+2)
		for _, l := range helpLines {
			lines = append(lines, th.Value.Render(l))
		}
		if h.helpTimer == nil {
			lines = append(lines, "", th.Dim.Render("press any key to play"))
		}
		th.DrawCentered(h.cw, h.canvas, th.Panel("CONTROLS", lines...), 0)
	case OverlayQuit:
		th.DrawCentered(h.cw, h.canvas, th.Panel("QUIT GAME?",
			th.Value.Render("Q      leave to title"),
			th.Value.Render("other  keep playing"),
		), 0)
	}
}

func (h *Host) drawGameOver() {
	th := h.theme
	lines := []string{
		th.Value.Render(fmt.Sprintf("SCORE %d   LEVEL %d", h.result.Score, h.result.Level)),
		"",
	}
	if h.highScore {
		cursor := " "
		if h.blink(300 * time.Millisecond) {
			cursor = "_"
		}
		field := fmt.Sprintf("%-*s", h.t.Host.MaxNameLength+1, string(h.name)+cursor)
		lines = append(lines,
			th.Accent.Render("NEW HIGH SCORE! ENTER YOUR NAME"),
			th.Value.Render(field),
			"",
			th.Dim.Render("enter saves"),
		)
	} else {
		lines = append(lines, th.Dim.Render("press enter"))
	}
	block := lipgloss.JoinVertical(lipgloss.Center,
		th.Warn.Render(draw.Banner("GAME OVER")),
		"",
		th.Panel("", lines...),
	)
	th.DrawCentered(h.cw, h.canvas, block, 0)
}
