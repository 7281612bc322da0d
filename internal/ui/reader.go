package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomepress/lectern/internal/doc"
	"github.com/tomepress/lectern/internal/ebook"
	"github.com/tomepress/lectern/internal/ui/styles"
)

// compose wraps every segment at the current width, rebuilds the section
// index and virtual layout, and restores or re-anchors the scroll
// position. Called once after loading and again on every resize.
func (a *App) compose() error {
	textWidth := a.sess.Cfg.MaxTextWidth
	if textWidth > a.width-4 {
		textWidth = a.width - 4
	}
	if textWidth < 20 {
		textWidth = 20
	}

	a.lines = a.lines[:0]
	parts := make([]doc.Part, 0, len(a.segments))
	for _, seg := range a.segments {
		var segLines []string
		switch seg.Type {
		case ebook.SegmentImage:
			label := seg.Content
			if label == "" {
				label = seg.ResourceID
			}
			segLines = []string{"", fmt.Sprintf("[image: %s]", label), ""}
		default:
			segLines = wrapText(seg.Content, textWidth)
		}
		parts = append(parts, doc.Part{ID: seg.ID, Title: seg.Title, Length: len(segLines)})
		a.lines = append(a.lines, segLines...)
	}

	sections, err := doc.BuildIndex(parts)
	if err != nil {
		return err
	}
	a.layout = doc.BuildLayout(sections)
	a.nav = doc.NewResolver(a.layout, a.toc, a.eb)

	// The one-time position restore happens here, before the next frame
	// is drawn, so there is no visible scroll jump. Resizes keep the
	// progress fraction and re-anchor.
	if cmd, ok := a.track.Activate(a.maxScroll()); ok {
		a.lineOffset = cmd.Y
	} else {
		a.lineOffset = a.track.Rebase(a.maxScroll()).Y
	}
	return nil
}

// wrapText wraps paragraphs to fit maxWidth columns, preserving blank
// lines.
func wrapText(content string, maxWidth int) []string {
	var lines []string
	for _, paragraph := range strings.Split(content, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var current strings.Builder
		for _, word := range words {
			// Words wider than the column are hard-split so nothing
			// overflows.
			if r := []rune(word); len(r) > maxWidth {
				if current.Len() > 0 {
					lines = append(lines, current.String())
					current.Reset()
				}
				for len(r) > maxWidth {
					lines = append(lines, string(r[:maxWidth]))
					r = r[maxWidth:]
				}
				current.WriteString(string(r))
				continue
			}
			switch {
			case current.Len() == 0:
				current.WriteString(word)
			case current.Len()+1+len(word) <= maxWidth:
				current.WriteString(" ")
				current.WriteString(word)
			default:
				lines = append(lines, current.String())
				current.Reset()
				current.WriteString(word)
			}
		}
		if current.Len() > 0 {
			lines = append(lines, current.String())
		}
	}
	return lines
}

func (a *App) scroll(delta int) {
	a.setScroll(a.lineOffset + delta)
}

// setScroll clamps and applies a new scroll position and feeds it to the
// position tracker.
func (a *App) setScroll(y int) {
	if y < 0 {
		y = 0
	}
	if max := a.maxScroll(); y > max {
		y = max
	}
	a.lineOffset = y
	a.track.OnScroll(y)
}

func (a *App) visibleLines() int {
	lines := a.height - 3 // header, blank, footer
	if lines < 1 {
		lines = 1
	}
	return lines
}

func (a *App) maxScroll() int {
	max := len(a.lines) - a.visibleLines()
	if max < 0 {
		max = 0
	}
	return max
}

func (a *App) renderReader() string {
	var b strings.Builder
	b.WriteString(a.renderHeader() + "\n")

	visible := a.visibleLines()
	end := a.lineOffset + visible
	if end > len(a.lines) {
		end = len(a.lines)
	}
	for i := a.lineOffset; i < end; i++ {
		b.WriteString(styles.Content.Render(a.lines[i]) + "\n")
	}
	// Pin the footer to the bottom on short documents.
	for i := end - a.lineOffset; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.alert != "" {
		b.WriteString(styles.Alert.Render(a.alert))
	} else {
		b.WriteString(a.renderFooter())
	}
	return b.String()
}

// renderHeader shows the title, the active chapter and overall progress.
func (a *App) renderHeader() string {
	maxTitleWidth := a.width / 3
	if maxTitleWidth < 10 {
		maxTitleWidth = 10
	}
	left := styles.Header.Render(" " + styles.TruncateText(a.meta.Title, maxTitleWidth) + " ")

	if id, ok := a.nav.CurrentTocContext(a.lineOffset); ok {
		left += styles.Help.Render(" " + styles.TruncateText(a.tocLabel(id), 30) + " ")
	}

	progress := a.track.Progress()
	right := renderProgressBar(10, progress) +
		styles.Progress.Render(fmt.Sprintf(" %d%%", int(math.Round(progress*100))))

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

// tocLabel returns the label of the TOC entry targeting the given section.
func (a *App) tocLabel(sectionID string) string {
	for _, e := range a.toc {
		if e.TargetID == sectionID {
			return e.Label
		}
	}
	return sectionID
}

func (a *App) renderFooter() string {
	help := []string{
		styles.HelpKey.Render("j/k") + styles.Help.Render(" scroll"),
		styles.HelpKey.Render("t") + styles.Help.Render(" toc"),
		styles.HelpKey.Render("m") + styles.Help.Render(" metadata"),
		styles.HelpKey.Render("o") + styles.Help.Render(" image"),
		styles.HelpKey.Render("?") + styles.Help.Render(" help"),
		styles.HelpKey.Render("q") + styles.Help.Render(" quit"),
	}
	return styles.FooterBar.Width(a.width).Render(strings.Join(help, "  "))
}

// renderProgressBar renders a bar using Unicode block characters. width is
// the total character width, progress is 0.0-1.0.
func renderProgressBar(width int, progress float64) string {
	if width < 3 {
		width = 3
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	const (
		empty    = "░"
		filled   = "█"
		partials = "▏▎▍▌▋▊▉" // 1/8 to 7/8 filled
	)

	filledWidth := progress * float64(width)
	fullBlocks := int(filledWidth)
	remainder := filledWidth - float64(fullBlocks)

	var bar strings.Builder
	for i := 0; i < fullBlocks && i < width; i++ {
		bar.WriteString(filled)
	}
	if fullBlocks < width && remainder > 0 {
		if idx := int(remainder * 8); idx > 0 {
			runes := []rune(partials)
			if idx > 7 {
				idx = 7
			}
			bar.WriteRune(runes[idx-1])
			fullBlocks++
		}
	}
	for i := fullBlocks; i < width; i++ {
		bar.WriteString(empty)
	}
	return bar.String()
}
