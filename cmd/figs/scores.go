package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tomz197/figs-in-space/internal/draw"
	"github.com/tomz197/figs-in-space/internal/leaderboard"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score list",
	Long: `Display the top scores stored in the scores database.

Examples:
  figs scores
  figs scores --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func runScores(cmd *cobra.Command, _ []string) error {
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

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderScores(lipgloss.NewRenderer(out), board.Scores()))
	return nil
}

// renderScores formats the scored entries as a table.
func renderScores(r *lipgloss.Renderer, entries []leaderboard.Entry) string {
	th := draw.NewTheme(r)

	var rows [][]string
	for i, e := range scored(entries) {
		rows = append(rows, []string{strconv.Itoa(i + 1), e.Name, strconv.Itoa(e.Score)})
	}
	if len(rows) == 0 {
		return th.Dim.Render("No scores recorded yet. Run 'figs play' to set the first one!")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("135"))).
		Headers("#", "NAME", "SCORE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				s = th.Label
			case row == 0:
				s = th.Accent
			default:
				s = th.Value
			}
			s = s.Padding(0, 1)
			if col == 2 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	return lipgloss.JoinVertical(lipgloss.Left, th.Title.Render("HIGH SCORES"), t.Render())
}
