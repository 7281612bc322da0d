package ui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tomepress/lectern/internal/doc"
	"github.com/tomepress/lectern/internal/ebook"
	"github.com/tomepress/lectern/internal/ui/styles"
)

// ExternalResourceError reports a failure opening a resource with an
// external program. Recoverable; shown as an alert.
type ExternalResourceError struct {
	Resource string
	Err      error
}

func (e *ExternalResourceError) Error() string {
	return fmt.Sprintf("error opening %s: %v", e.Resource, e.Err)
}

func (e *ExternalResourceError) Unwrap() error { return e.Err }

// openTOC shows the table of contents with the current chapter
// pre-selected.
func (a *App) openTOC() {
	if len(a.toc) == 0 {
		a.alert = "No content navigation for this ebook."
		return
	}
	a.showTOC = true
	a.tocCursor = 0
	if id, ok := a.nav.CurrentTocContext(a.lineOffset); ok {
		for i, e := range a.toc {
			if e.TargetID == id {
				a.tocCursor = i
				break
			}
		}
	}
}

func (a *App) updateTOC(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Escape), key.Matches(msg, a.keys.Quit), key.Matches(msg, a.keys.TOC):
		a.showTOC = false
	case key.Matches(msg, a.keys.Down):
		if a.tocCursor < len(a.toc)-1 {
			a.tocCursor++
		}
	case key.Matches(msg, a.keys.Up):
		if a.tocCursor > 0 {
			a.tocCursor--
		}
	case key.Matches(msg, a.keys.Home):
		a.tocCursor = 0
	case key.Matches(msg, a.keys.End):
		a.tocCursor = len(a.toc) - 1
	case key.Matches(msg, a.keys.Enter):
		a.showTOC = false
		a.followTocEntry(a.toc[a.tocCursor])
	}
	return a, nil
}

// followTocEntry scrolls to the entry's section. A stale target is a
// dismissible notice, never fatal.
func (a *App) followTocEntry(entry ebook.TocEntry) {
	y, err := a.nav.ResolveToc(entry)
	if err != nil {
		var unresolved *doc.UnresolvedTargetError
		if errors.As(err, &unresolved) {
			a.alert = fmt.Sprintf("Cannot navigate to %q: target is missing.", entry.Label)
		} else {
			a.alert = err.Error()
		}
		a.sess.Log.Warn("follow toc entry", zap.Error(err))
		return
	}
	a.setScroll(y)
}

func (a *App) renderTOC() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Table of Contents") + "\n\n")

	maxVisible := a.height - 8
	if maxVisible < 1 {
		maxVisible = 1
	}
	offset := 0
	if a.tocCursor >= maxVisible {
		offset = a.tocCursor - maxVisible + 1
	}

	currentID, hasCurrent := a.nav.CurrentTocContext(a.lineOffset)
	end := offset + maxVisible
	if end > len(a.toc) {
		end = len(a.toc)
	}
	for i := offset; i < end; i++ {
		entry := a.toc[i]
		line := strings.Repeat("  ", entry.Level) + styles.TruncateText(entry.Label, a.width-12)
		switch {
		case i == a.tocCursor:
			b.WriteString(styles.ListItemSelected.Render("▸ "+line) + "\n")
		case hasCurrent && entry.TargetID == currentID:
			b.WriteString(styles.ListItem.Render("  "+line+" (current)") + "\n")
		default:
			b.WriteString(styles.ListItem.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + styles.Help.Render("j/k navigate • enter go • esc close"))
	return a.centerDialog(b.String(), 60)
}

func (a *App) renderMetadata() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Metadata") + "\n\n")
	for _, row := range [][2]string{
		{"Title", a.meta.Title},
		{"Author", a.meta.Creator},
		{"Publisher", a.meta.Publisher},
		{"Language", a.meta.Language},
		{"Path", a.eb.Path()},
	} {
		if row[1] == "" {
			continue
		}
		b.WriteString(styles.HelpKey.Render(fmt.Sprintf("%-10s", row[0])) +
			styles.ListItem.Render(styles.TruncateText(row[1], a.width-18)) + "\n")
	}
	b.WriteString("\n" + styles.Help.Render("esc close"))
	return a.centerDialog(b.String(), 64)
}

func (a *App) renderHelp() string {
	bindings := []key.Binding{
		a.keys.Down, a.keys.Up, a.keys.PageDown, a.keys.PageUp,
		a.keys.Home, a.keys.End, a.keys.TOC, a.keys.Metadata,
		a.keys.OpenImage, a.keys.Help, a.keys.Quit,
	}
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Keyboard Shortcuts") + "\n\n")
	for _, bind := range bindings {
		h := bind.Help()
		b.WriteString(styles.HelpKey.Render(fmt.Sprintf("%-10s", h.Key)) +
			styles.Help.Render(h.Desc) + "\n")
	}
	return a.centerDialog(b.String(), 40)
}

func (a *App) centerDialog(content string, width int) string {
	if width > a.width-4 {
		width = a.width - 4
	}
	dialog := styles.Dialog.Width(width).Render(content)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog)
}

// openNearestImage resolves the image segment closest to the current
// position and hands it to the system opener in the background.
func (a *App) openNearestImage() tea.Cmd {
	seg, ok := a.nearestImageSegment()
	if !ok {
		a.alert = "No images in this ebook."
		return nil
	}
	target, err := a.nav.ResolveLink(doc.ImageResource{ResourceID: seg.ResourceID})
	if err != nil {
		a.alert = (&ExternalResourceError{Resource: seg.ResourceID, Err: err}).Error()
		a.sess.Log.Warn("resolve image link", zap.Error(err))
		return nil
	}
	dir, err := a.eb.TempDir()
	if err != nil {
		a.alert = (&ExternalResourceError{Resource: seg.ResourceID, Err: err}).Error()
		return nil
	}
	return openExternal(seg.ResourceID, dir, target.External)
}

// nearestImageSegment searches forward from the section at the current
// scroll position, then backward.
func (a *App) nearestImageSegment() (ebook.Segment, bool) {
	currentID, _ := a.layout.Locate(a.lineOffset)
	start := 0
	for i, seg := range a.segments {
		if seg.ID == currentID {
			start = i
			break
		}
	}
	for i := start; i < len(a.segments); i++ {
		if a.segments[i].Type == ebook.SegmentImage {
			return a.segments[i], true
		}
	}
	for i := start - 1; i >= 0; i-- {
		if a.segments[i].Type == ebook.SegmentImage {
			return a.segments[i], true
		}
	}
	return ebook.Segment{}, false
}

// openExternal writes the resource into the scratch dir and launches
// xdg-open. Runs as a background command; the result comes back as a
// message.
func openExternal(resource, dir string, h *doc.ExternalResourceHandle) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, h.Filename)
		if err := os.WriteFile(path, h.Data, 0o600); err != nil {
			return imageOpenedMsg{err: &ExternalResourceError{Resource: resource, Err: err}}
		}
		if out, err := exec.Command("xdg-open", path).CombinedOutput(); err != nil {
			if msg := strings.TrimSpace(string(out)); msg != "" {
				err = fmt.Errorf("%s: %w", msg, err)
			}
			return imageOpenedMsg{err: &ExternalResourceError{Resource: resource, Err: err}}
		}
		return imageOpenedMsg{}
	}
}
