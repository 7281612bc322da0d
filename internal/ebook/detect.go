package ebook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// Format is a recognized ebook container format.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatEPUB
	FormatAZW
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatEPUB:
		return "epub"
	case FormatAZW:
		return "azw"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat is returned for formats the reader recognizes but
// has no in-tree backend for.
var ErrUnsupportedFormat = errors.New("unsupported ebook format")

// DetectFormat sniffs the file's magic bytes first and falls back to its
// extension.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, err
	}
	head = head[:n]

	ext := strings.ToLower(filepath.Ext(path))
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		switch kind.Extension {
		case "epub":
			return FormatEPUB, nil
		case "zip":
			// OCF containers without the uncompressed mimetype entry sniff
			// as plain zip.
			if ext == ".epub" || ext == ".epub3" {
				return FormatEPUB, nil
			}
		}
	}

	switch ext {
	case ".epub", ".epub3":
		return FormatEPUB, nil
	case ".azw", ".azw3", ".mobi":
		return FormatAZW, nil
	case ".md", ".markdown", ".txt", ".text":
		return FormatText, nil
	}
	return FormatUnknown, nil
}

// Open detects the format of path and constructs the matching backend.
func Open(path string) (Ebook, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, fmt.Errorf("detect format of %s: %w", path, err)
	}
	switch format {
	case FormatText:
		return OpenMarkdown(path)
	case FormatEPUB, FormatAZW:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
