package ebook

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	imageRe   = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)\s]+)\)\s*$`)
)

// Markdown reads a plain-text or Markdown book from a single file.
// Headings split the document into sections and become the table of
// contents; image references become image segments. An optional YAML
// front-matter block supplies metadata.
type Markdown struct {
	path     string
	meta     Metadata
	segments []Segment
	toc      []TocEntry
	tempDir  string
}

// OpenMarkdown parses the file at path.
func OpenMarkdown(path string) (*Markdown, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m := &Markdown{path: path}
	body, err := m.stripFrontMatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("front matter of %s: %w", path, err)
	}
	m.parse(body)
	if m.meta.Title == "" {
		m.meta.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

func (m *Markdown) Meta() Metadata      { return m.meta }
func (m *Markdown) TOC() []TocEntry     { return m.toc }
func (m *Markdown) Path() string        { return m.path }
func (m *Markdown) Segments() []Segment { return m.segments }

func (m *Markdown) ImageBytes(resourceID string) (string, []byte, error) {
	p := resourceID
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(m.path), resourceID)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", nil, fmt.Errorf("read image %s: %w", resourceID, err)
	}
	return filepath.Base(p), data, nil
}

func (m *Markdown) TempDir() (string, error) {
	if m.tempDir == "" {
		dir, err := os.MkdirTemp("", "lectern-")
		if err != nil {
			return "", err
		}
		m.tempDir = dir
	}
	return m.tempDir, nil
}

func (m *Markdown) Cleanup() error {
	if m.tempDir == "" {
		return nil
	}
	return os.RemoveAll(m.tempDir)
}

// stripFrontMatter parses a leading "---" delimited YAML block into the
// metadata and returns the remaining document.
func (m *Markdown) stripFrontMatter(content string) (string, error) {
	rest, found := strings.CutPrefix(content, "---\n")
	if !found {
		return content, nil
	}
	block, body, found := strings.Cut(rest, "\n---")
	if !found {
		return content, nil
	}
	if err := yaml.Unmarshal([]byte(block), &m.meta); err != nil {
		return "", err
	}
	return strings.TrimPrefix(body, "\n"), nil
}

type segmentBuilder struct {
	id    string
	title string
	lines []string
}

func (m *Markdown) parse(body string) {
	counts := make(map[string]int)
	uniqueID := func(base string) string {
		if base == "" {
			base = "section"
		}
		counts[base]++
		if counts[base] == 1 {
			return base
		}
		return fmt.Sprintf("%s-%d", base, counts[base])
	}

	cur := &segmentBuilder{id: uniqueID("preface")}
	flush := func() {
		if len(cur.lines) == 0 {
			return
		}
		if cur.title == "" && strings.TrimSpace(strings.Join(cur.lines, "")) == "" {
			return
		}
		m.segments = append(m.segments, Segment{
			ID:      cur.id,
			Title:   cur.title,
			Type:    SegmentBody,
			Content: strings.Join(cur.lines, "\n"),
		})
	}

	for _, line := range strings.Split(body, "\n") {
		if h := headingRe.FindStringSubmatch(line); h != nil {
			flush()
			title := h[2]
			id := uniqueID(slug.Make(title))
			m.toc = append(m.toc, TocEntry{Label: title, TargetID: id, Level: len(h[1]) - 1})
			if m.meta.Title == "" && len(h[1]) == 1 {
				m.meta.Title = title
			}
			cur = &segmentBuilder{id: id, title: title, lines: []string{line}}
			continue
		}
		if img := imageRe.FindStringSubmatch(line); img != nil {
			flush()
			alt, src := img[1], img[2]
			base := slug.Make(alt)
			if base == "" {
				base = slug.Make(filepath.Base(src))
			}
			m.segments = append(m.segments, Segment{
				ID:         uniqueID("img-" + base),
				Title:      cur.title,
				Type:       SegmentImage,
				Content:    alt,
				ResourceID: src,
			})
			// Text after an image continues the same chapter under a
			// derived id.
			cur = &segmentBuilder{id: uniqueID(cur.id + "-text"), title: cur.title}
			continue
		}
		cur.lines = append(cur.lines, line)
	}
	flush()
}
