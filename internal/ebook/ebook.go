// Package ebook defines the parsing-backend contract the reader consumes
// and the in-tree backends implementing it.
package ebook

// Metadata describes an ebook as reported by its backend.
type Metadata struct {
	Title     string `yaml:"title"`
	Creator   string `yaml:"author"`
	Publisher string `yaml:"publisher,omitempty"`
	Language  string `yaml:"language,omitempty"`
}

// TocEntry is one navigable table-of-contents entry, in document order.
type TocEntry struct {
	Label    string
	TargetID string
	Level    int
}

// SegmentType discriminates parsed segment kinds.
type SegmentType int

const (
	SegmentBody SegmentType = iota
	SegmentImage
)

// Segment is one block of parsed content, in spine order. ID is stable and
// unique, derived from the source document structure. ResourceID is set
// for image segments only.
type Segment struct {
	ID         string
	Title      string
	Type       SegmentType
	Content    string
	ResourceID string
}

// Ebook is the parsing backend. Implementations own a temp directory for
// extracted resources until Cleanup.
type Ebook interface {
	Meta() Metadata
	TOC() []TocEntry
	Path() string
	Segments() []Segment

	// ImageBytes returns the filename and raw bytes of an embedded image
	// resource.
	ImageBytes(resourceID string) (filename string, data []byte, err error)

	// TempDir returns a scratch directory for handing resources to
	// external programs, created on first use.
	TempDir() (string, error)

	Cleanup() error
}
