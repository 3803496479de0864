package stats

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/obaydah/miftah/internal/leaderboard"
	"github.com/obaydah/miftah/internal/model"
)

const fallbackWidth = 80

// TerminalWidth returns the stdout width, or a fixed fallback when stdout is
// not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// RenderSummary prints the aggregate summary for games.
func RenderSummary(w io.Writer, games []model.GameAggregate) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games recorded yet.")
		return err
	}
	s := Summarize(games)
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", s.Games),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAcc),
		fmt.Sprintf("Completed: %d  Timed out: %d", s.Complete, s.Timeout),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints WPM and accuracy sparklines sized to totalWidth.
func RenderTrend(w io.Writer, games []model.GameAggregate, window, totalWidth int) error {
	if len(games) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}
	labelWidth := len("Accuracy ")
	plotWidth := totalWidth - labelWidth
	if plotWidth < 10 {
		plotWidth = 10
	}
	wpm := Resample(MovingAverage(WPMSeries(games), window), plotWidth)
	acc := Resample(MovingAverage(AccuracySeries(games), window), plotWidth)

	if _, err := fmt.Fprintln(w, "Trend (oldest to newest)"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-*s%s\n", labelWidth, "WPM", Sparkline(wpm)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-*s%s\n", labelWidth, "Accuracy", Sparkline(acc)); err != nil {
		return err
	}
	return nil
}

// RenderHistory prints a table of games, newest last.
func RenderHistory(w io.Writer, games []model.GameAggregate) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games recorded yet.")
		return err
	}
	headers := []string{"Date", "Lang", "WPM", "Accuracy", "Duration", "End"}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			g.EndedAt.Local().Format("2006-01-02 15:04"),
			g.Lang,
			fmt.Sprintf("%d", g.WPM),
			fmt.Sprintf("%d%%", g.Accuracy),
			(time.Duration(g.DurationMs) * time.Millisecond).Round(time.Second).String(),
			g.Cause,
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTop prints the remote leaderboard standings.
func RenderTop(w io.Writer, entries []leaderboard.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Leaderboard is empty.")
		return err
	}
	headers := []string{"#", "Player", "WPM", "Accuracy"}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.Name,
			fmt.Sprintf("%d", e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := runewidth.StringWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
