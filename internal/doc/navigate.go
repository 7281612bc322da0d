package doc

import (
	"fmt"

	"github.com/tomepress/lectern/internal/ebook"
)

// Link is an activatable in-document link: either an anchor inside the
// virtual scroll space or an embedded image resource.
type Link interface {
	link()
}

// InternalAnchor points at an offset within a section.
type InternalAnchor struct {
	SectionID string
	Offset    int
}

// ImageResource points at an embedded image by its resource id.
type ImageResource struct {
	ResourceID string
}

func (InternalAnchor) link() {}
func (ImageResource) link()  {}

// ExternalResourceHandle carries the raw bytes of a resource that is
// opened outside the reader rather than scrolled to.
type ExternalResourceHandle struct {
	Filename string
	Data     []byte
}

// LinkTarget is the result of resolving a Link. External is non-nil for
// image resources; otherwise ScrollY holds the destination coordinate.
type LinkTarget struct {
	ScrollY  int
	External *ExternalResourceHandle
}

// UnresolvedTargetError reports a stale or corrupt navigation target whose
// section is absent from the current layout. Recoverable: the session
// continues after surfacing it.
type UnresolvedTargetError struct {
	TargetID string
}

func (e *UnresolvedTargetError) Error() string {
	return fmt.Sprintf("navigation target %q not found in document", e.TargetID)
}

// ImageSource is the slice of the ebook backend the resolver needs to
// materialize image links.
type ImageSource interface {
	ImageBytes(resourceID string) (filename string, data []byte, err error)
}

// Resolver answers where table-of-contents entries and in-document links
// point within a layout.
type Resolver struct {
	layout *LayoutMap
	toc    []ebook.TocEntry
	images ImageSource
}

func NewResolver(layout *LayoutMap, toc []ebook.TocEntry, images ImageSource) *Resolver {
	return &Resolver{layout: layout, toc: toc, images: images}
}

// ResolveToc returns the scroll coordinate of the entry's target section
// start.
func (r *Resolver) ResolveToc(entry ebook.TocEntry) (int, error) {
	region, ok := r.layout.RegionOf(entry.TargetID)
	if !ok {
		return 0, &UnresolvedTargetError{TargetID: entry.TargetID}
	}
	return region.YStart, nil
}

// CurrentTocContext returns the target section id of the last TOC entry
// whose region starts at or before scrollY, i.e. the chapter the reader is
// currently in. ok is false when no entry precedes the position.
func (r *Resolver) CurrentTocContext(scrollY int) (sectionID string, ok bool) {
	for _, entry := range r.toc {
		region, found := r.layout.RegionOf(entry.TargetID)
		if !found {
			// Stale entry; skip rather than fail, the TOC stays usable.
			continue
		}
		if region.YStart > scrollY {
			break
		}
		sectionID, ok = entry.TargetID, true
	}
	return sectionID, ok
}

// ResolveLink resolves an activated link. Anchors yield a scroll
// coordinate with section+offset precision; image resources are fetched
// from the backend and returned as an external handle.
func (r *Resolver) ResolveLink(link Link) (LinkTarget, error) {
	switch l := link.(type) {
	case InternalAnchor:
		region, ok := r.layout.RegionOf(l.SectionID)
		if !ok {
			return LinkTarget{}, &UnresolvedTargetError{TargetID: l.SectionID}
		}
		y := region.YStart + l.Offset
		if y >= region.YEnd {
			y = region.YEnd - 1
		}
		if y < region.YStart {
			y = region.YStart
		}
		return LinkTarget{ScrollY: y}, nil
	case ImageResource:
		filename, data, err := r.images.ImageBytes(l.ResourceID)
		if err != nil {
			return LinkTarget{}, fmt.Errorf("image resource %q: %w", l.ResourceID, err)
		}
		return LinkTarget{External: &ExternalResourceHandle{Filename: filename, Data: data}}, nil
	default:
		return LinkTarget{}, fmt.Errorf("unknown link type %T", link)
	}
}
