package draw

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the text styles for the HUD and menus. Styles are bound to a
// renderer so each connection gets its own colour profile.
type Theme struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Accent lipgloss.Style
	Dim    lipgloss.Style
	Warn   lipgloss.Style
	Box    lipgloss.Style
}

// NewTheme builds the default theme for r. A nil renderer uses lipgloss' default.
func NewTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Title:  r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Label:  r.NewStyle().Foreground(lipgloss.Color("245")),
		Value:  r.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		Accent: r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Dim:    r.NewStyle().Foreground(lipgloss.Color("240")),
		Warn:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("135")).
			Padding(0, 2),
	}
}

// HUD is the status shown over a running session.
type HUD struct {
	Score      int
	Lives      int
	Level      int
	Multiplier float64
}

// DrawHUD writes the status line along the top of the canvas. Fixed-width
// fields keep shrinking values from leaving stale digits behind.
func (t Theme) DrawHUD(cw *ChunkWriter, c *Canvas, h HUD) {
	width := c.TerminalWidth()

	score := t.Label.Render("SCORE ") + t.Value.Render(fmt.Sprintf("%-8d", h.Score))
	t.writeText(cw, c, 2, 1, score)

	level := t.Label.Render("LEVEL ") + t.Value.Render(fmt.Sprintf("%-3d", h.Level)) +
		t.Label.Render(" x") + t.Accent.Render(fmt.Sprintf("%-5.2f", h.Multiplier))
	t.writeText(cw, c, (width-lipgloss.Width(level))/2+1, 1, level)

	lives := t.Label.Render("LIVES ") + t.Value.Render(fmt.Sprintf("%-3d", h.Lives))
	t.writeText(cw, c, width-lipgloss.Width(lives), 1, lives)
}

// DrawCentered writes a multi-line block centred on the canvas, with its
// middle line at centerRow. A centerRow of 0 centres vertically.
func (t Theme) DrawCentered(cw *ChunkWriter, c *Canvas, block string, centerRow int) {
	lines := strings.Split(block, "\n")
	if centerRow <= 0 {
		centerRow = c.TerminalHeight()/2 + 1
	}
	top := centerRow - len(lines)/2
	blockWidth := lipgloss.Width(block)
	col := (c.TerminalWidth()-blockWidth)/2 + 1
	for i, line := range lines {
		t.writeText(cw, c, col, top+i, line)
	}
}

// Panel frames lines in the theme's box, under title when it is not empty.
func (t Theme) Panel(title string, lines ...string) string {
	if title != "" {
		lines = append([]string{t.Accent.Render(title), ""}, lines...)
	}
	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// writeText places styled text, skipping rows outside the canvas, and marks
// the covered cells for repaint.
func (t Theme) writeText(cw *ChunkWriter, c *Canvas, col, row int, s string) {
	if row < 1 || row > c.TerminalHeight() {
		return
	}
	col = max(col, 1)
	cw.WriteAt(col, row, s)
	c.MarkTextDirty(col, row, lipgloss.Width(s))
}

// Banner renders text in a small block font. Unknown runes are skipped.
func Banner(text string) string {
	rows := make([]strings.Builder, bannerHeight)
	for _, r := range strings.ToUpper(text) {
		glyph, ok := bannerFont[r]
		if !ok {
			continue
		}
		width := 0
		for _, line := range glyph {
			width = max(width, len(line))
		}
		for i := range bannerHeight {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(strings.Repeat(" ", width-len(glyph[i])))
		}
	}
	out := make([]string, bannerHeight)
	for i := range rows {
		out[i] = strings.TrimRight(rows[i].String(), " ")
	}
	return strings.Join(out, "\n")
}

const bannerHeight = 4

var bannerFont = map[rune][bannerHeight]string{
	' ': {"  ", "  ", "  ", "  "},
	'A': {"   _   ", "  /_\\  ", " / _ \\ ", "/_/ \\_\\"},
	'C': {"  ___ ", " / __|", "| (__ ", " \\___|"},
	'E': {" ___ ", "| __|", "| _| ", "|___|"},
	'F': {" ___ ", "| __|", "| _| ", "|_|  "},
	'G': {"  ___ ", " / __|", "| (_ |", " \\___|"},
	'I': {" ___ ", "|_ _|", " | | ", "|___|"},
	'M': {" __  __ ", "|  \\/  |", "| |\\/| |", "|_|  |_|"},
	'N': {" _  _ ", "| \\| |", "| .` |", "|_|\\_|"},
	'O': {"  ___  ", " / _ \\ ", "| (_) |", " \\___/ "},
	'P': {" ___ ", "| _ \\", "|  _/", "|_|  "},
	'R': {" ___ ", "| _ \\", "|   /", "|_|_\\"},
	'S': {" ___ ", "/ __|", "\\__ \\", "|___/"},
	'V': {"__   __", "\\ \\ / /", " \\ V / ", "  \\_/  "},
}
