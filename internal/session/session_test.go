package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tomepress/lectern/internal/config"
	"github.com/tomepress/lectern/internal/ebook"
	"github.com/tomepress/lectern/internal/history"
)

type fakeEbook struct {
	ebook.Ebook
	meta    ebook.Metadata
	cleaned bool
}

func (f *fakeEbook) Meta() ebook.Metadata { return f.meta }
func (f *fakeEbook) Cleanup() error       { f.cleaned = true; return nil }

func TestFinishPersistsRecord(t *testing.T) {
	// Finish closes the store, so persist to a file and reopen to inspect
	// what was written.
	path := t.TempDir() + "/history.db"
	store, err := history.Open(path, nil)
	require.NoError(t, err)
	rec, err := store.GetOrCreate("/books/dune.md")
	require.NoError(t, err)

	sess := New(&config.Config{}, zap.NewNop(), store, rec)
	eb := &fakeEbook{meta: ebook.Metadata{Title: "Dune", Creator: "Frank Herbert"}}
	require.NoError(t, sess.Finish(eb, 0.42))
	assert.True(t, eb.cleaned)

	store, err = history.Open(path, nil)
	require.NoError(t, err)
	defer store.Close()
	all, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Dune", all[0].Title)
	assert.Equal(t, "Frank Herbert", all[0].Author)
	assert.Equal(t, 0.42, all[0].Progress)
}

func TestFinishWithoutStore(t *testing.T) {
	sess := New(&config.Config{}, zap.NewNop(), nil, history.Record{Filepath: "/books/x.md"})
	eb := &fakeEbook{meta: ebook.Metadata{Title: "X"}}

	require.NoError(t, sess.Finish(eb, 0.3))
	assert.Equal(t, 0.3, sess.Record.Progress)
	assert.Equal(t, "X", sess.Record.Title)
}

func TestFinishWithoutEbook(t *testing.T) {
	sess := New(&config.Config{}, zap.NewNop(), nil, history.Record{})
	require.NoError(t, sess.Finish(nil, 0))
}
