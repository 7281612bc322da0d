package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomepress/lectern/internal/history"
)

func seededStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	base := time.Unix(1700000000, 0)
	for _, rec := range []history.Record{
		{Filepath: "/books/dune.md", Title: "Dune", Author: "Frank Herbert", LastRead: base.Add(2 * time.Hour), Progress: 0.5},
		{Filepath: "/books/hobbit.md", Title: "The Hobbit", Author: "J.R.R. Tolkien", LastRead: base.Add(time.Hour), Progress: 0.9},
		{Filepath: "/books/messiah.md", Title: "Dune Messiah", Author: "Frank Herbert", LastRead: base, Progress: 0.1},
	} {
		require.NoError(t, s.Save(rec))
	}
	return s
}

func TestResolveEbookPath(t *testing.T) {
	s := seededStore(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{"no args resumes last read", nil, "/books/dune.md", ""},
		{"index 1 is most recent", []string{"1"}, "/books/dune.md", ""},
		{"index 3 is oldest", []string{"3"}, "/books/messiah.md", ""},
		{"index past the end", []string{"4"}, "", "#4 not found"},
		{"single word pattern", []string{"hobbit"}, "/books/hobbit.md", ""},
		{"multi word pattern", []string{"dune", "messiah"}, "/books/messiah.md", ""},
		{"pattern tie-break is most recent", []string{"herbert"}, "/books/dune.md", ""},
		{"unmatched pattern", []string{"neuromancer"}, "", "found no ebook matching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveEbookPath(s, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEbookPathExistingFile(t *testing.T) {
	s := seededStore(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "local.md")
	require.NoError(t, os.WriteFile(path, []byte("# Local\n"), 0o600))

	got, err := resolveEbookPath(s, []string{path})
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.True(t, filepath.IsAbs(got))
}

// A numeric argument means a history index even when a file of that name
// exists; paths like "1" must be given as "./1".
func TestResolveEbookPathNumericPrecedence(t *testing.T) {
	s := seededStore(t)

	got, err := resolveEbookPath(s, []string{"2"})
	require.NoError(t, err)
	assert.Equal(t, "/books/hobbit.md", got)
}

func TestResolveEbookPathEmptyHistory(t *testing.T) {
	s, err := history.Open(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = resolveEbookPath(s, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no last read ebook")
}

func TestResolveEbookPathWithoutStore(t *testing.T) {
	_, err := resolveEbookPath(nil, nil)
	assert.Error(t, err)

	_, err = resolveEbookPath(nil, []string{"1"})
	assert.Error(t, err)

	_, err = resolveEbookPath(nil, []string{"no", "such", "book"})
	assert.Error(t, err)
}
