package ebook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// epubHead is the start of an OCF container: zip local-file header
// followed by the uncompressed "mimetype" entry.
func epubHead() []byte {
	head := make([]byte, 64)
	copy(head, []byte{0x50, 0x4B, 0x03, 0x04})
	copy(head[30:], "mimetypeapplication/epub+zip")
	return head
}

func zipHead() []byte {
	head := make([]byte, 64)
	copy(head, []byte{0x50, 0x4B, 0x03, 0x04})
	return head
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want Format
	}{
		{"markdown extension", "book.md", []byte("# Title\n"), FormatText},
		{"txt extension", "book.txt", []byte("plain\n"), FormatText},
		{"epub magic wins over extension", "book.bin", epubHead(), FormatEPUB},
		{"bare zip with epub extension", "book.epub", zipHead(), FormatEPUB},
		{"azw3 extension", "book.azw3", []byte("BOOKMOBI"), FormatAZW},
		{"mobi extension", "book.mobi", []byte("BOOKMOBI"), FormatAZW},
		{"unknown extension", "book.xyz", []byte("?"), FormatUnknown},
		{"empty file with md extension", "book.md", nil, FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(writeFile(t, tt.file, tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatMissingFile(t *testing.T) {
	_, err := DetectFormat(filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		eb, err := Open(writeFile(t, "book.md", []byte("# Title\n\ntext\n")))
		require.NoError(t, err)
		assert.Equal(t, "Title", eb.Meta().Title)
	})

	t.Run("epub is recognized but unsupported", func(t *testing.T) {
		_, err := Open(writeFile(t, "book.epub", epubHead()))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Open(writeFile(t, "book.xyz", []byte("?")))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "text", FormatText.String())
	assert.Equal(t, "epub", FormatEPUB.String())
	assert.Equal(t, "azw", FormatAZW.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
