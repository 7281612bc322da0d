// Package doc maps an ebook's ordered sections into a single virtual
// scroll space and resolves navigation targets back into it.
package doc

import "fmt"

// Part is one document part as reported by the ebook backend, with its
// rendered height in rows.
type Part struct {
	ID     string
	Title  string
	Length int
}

// Section is one addressable unit of document content with a stable
// identifier. Sections are created once per document load and never
// mutated afterwards.
type Section struct {
	ID      string
	Ordinal int
	Title   string
	Length  int
}

// MalformedDocumentError reports backend data the reader cannot build a
// layout from. Fatal at load time.
type MalformedDocumentError struct {
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return "malformed document: " + e.Reason
}

// BuildIndex flattens the backend's ordered parts into sections,
// preserving source order exactly. It fails when the backend reports no
// parts, a part without an identifier, or duplicate identifiers.
func BuildIndex(parts []Part) ([]Section, error) {
	if len(parts) == 0 {
		return nil, &MalformedDocumentError{Reason: "document has no sections"}
	}
	seen := make(map[string]struct{}, len(parts))
	sections := make([]Section, 0, len(parts))
	for i, p := range parts {
		if p.ID == "" {
			return nil, &MalformedDocumentError{Reason: fmt.Sprintf("section %d has no identifier", i)}
		}
		if _, dup := seen[p.ID]; dup {
			return nil, &MalformedDocumentError{Reason: fmt.Sprintf("duplicate section id %q", p.ID)}
		}
		seen[p.ID] = struct{}{}
		sections = append(sections, Section{
			ID:      p.ID,
			Ordinal: i,
			Title:   p.Title,
			Length:  p.Length,
		})
	}
	return sections, nil
}
