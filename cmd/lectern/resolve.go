package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomepress/lectern/internal/history"
	"github.com/tomepress/lectern/internal/ui/styles"
)

// resolveEbookPath turns the positional arguments into an ebook path: an
// explicit path, a 1-based index into the reading history (most recent
// first), or a fuzzy pattern matched against the history. With no
// arguments the most recently read file is resumed.
func resolveEbookPath(store *history.Store, args []string) (string, error) {
	if len(args) == 0 {
		if store == nil {
			return "", errors.New("no ebook given and no reading history available")
		}
		rec, err := store.MostRecent()
		if err != nil {
			return "", err
		}
		if rec == nil {
			return "", errors.New("found no last read ebook, pass a file path")
		}
		return rec.Filepath, nil
	}

	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			if store == nil {
				return "", errors.New("no reading history available")
			}
			rec, err := store.Nth(n)
			if err != nil {
				return "", err
			}
			if rec == nil {
				return "", fmt.Errorf("#%d not found in reading history", n)
			}
			return rec.Filepath, nil
		}
		if fi, err := os.Stat(args[0]); err == nil && fi.Mode().IsRegular() {
			// History records are keyed by absolute path so the same book
			// resolves to one row regardless of the working directory.
			return filepath.Abs(args[0])
		}
	}

	pattern := strings.Join(args, " ")
	if store == nil {
		return "", fmt.Errorf("no such file: %s", pattern)
	}
	rec, err := store.FindBestMatch(pattern)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("found no ebook matching %q in reading history", pattern)
	}
	return rec.Filepath, nil
}

// printHistory writes the reading history as a table, most recent first.
func printHistory(store *history.Store, storeErr error) error {
	if store == nil {
		return storeErr
	}
	recs, err := store.ListAll()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("Reading history is empty.")
		return nil
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
	fmt.Println(header.Render(fmt.Sprintf("%3s  %-20s  %8s  %-32s  %-20s  %s",
		"#", "Last Read", "Progress", "Title", "Author", "Path")))
	for i, rec := range recs {
		fmt.Printf("%3d  %-20s  %7.1f%%  %-32s  %-20s  %s\n",
			i+1,
			rec.LastRead.Format("Jan 02, 2006 3:04 PM"),
			rec.Progress*100,
			styles.TruncateText(rec.Title, 32),
			styles.TruncateText(rec.Author, 20),
			rec.Filepath)
	}
	return nil
}
