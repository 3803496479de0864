// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/obaydah/miftah/internal/engine"
)

type styledCluster struct {
	s       string
	width   int
	isSpace bool
}

func buildStyledClusters(rendered []engine.RenderedCluster) []styledCluster {
	out := make([]styledCluster, 0, len(rendered))
	for _, rc := range rendered {
		style := pendingStyle
		switch rc.Status {
		case engine.StatusCorrect:
			style = correctStyle
		case engine.StatusIncorrect:
			style = incorrectStyle
		}
		if rc.Cursor {
			style = style.Underline(true)
		}
		out = append(out, styledCluster{
			s:       style.Render(rc.Raw),
			width:   runewidth.StringWidth(rc.Raw),
			isSpace: rc.Raw == " ",
		})
	}
	return out
}

func renderStyledClusters(clusters []styledCluster) string {
	var b strings.Builder
	for _, item := range clusters {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledClusters(clusters []styledCluster, width int) string {
	if width <= 0 {
		return renderStyledClusters(clusters)
	}
	var out strings.Builder
	line := make([]styledCluster, 0, len(clusters))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(clusters); {
		item := clusters[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledClusters(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledCluster{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledClusters(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledClusters(line))
	return out.String()
}

func lineWidthOf(line []styledCluster) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledCluster) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
