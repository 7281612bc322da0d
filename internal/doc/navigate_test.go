package doc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomepress/lectern/internal/ebook"
)

type stubImages struct {
	filename string
	data     []byte
	err      error
	asked    string
}

func (s *stubImages) ImageBytes(resourceID string) (string, []byte, error) {
	s.asked = resourceID
	return s.filename, s.data, s.err
}

func newTestResolver(t *testing.T, images ImageSource) *Resolver {
	t.Helper()
	layout := BuildLayout(mustIndex(t, 100, 50, 200))
	toc := []ebook.TocEntry{
		{Label: "One", TargetID: "section_0"},
		{Label: "Two", TargetID: "section_1"},
		{Label: "Gone", TargetID: "section_9"},
		{Label: "Three", TargetID: "section_2"},
	}
	return NewResolver(layout, toc, images)
}

func TestResolveToc(t *testing.T) {
	r := newTestResolver(t, nil)

	y, err := r.ResolveToc(ebook.TocEntry{TargetID: "section_2"})
	require.NoError(t, err)
	assert.Equal(t, 150, y)

	y, err = r.ResolveToc(ebook.TocEntry{TargetID: "section_0"})
	require.NoError(t, err)
	assert.Zero(t, y)
}

func TestResolveTocUnknownTarget(t *testing.T) {
	r := newTestResolver(t, nil)

	_, err := r.ResolveToc(ebook.TocEntry{Label: "Stale", TargetID: "section_9"})
	var unresolved *UnresolvedTargetError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "section_9", unresolved.TargetID)
}

func TestCurrentTocContext(t *testing.T) {
	r := newTestResolver(t, nil)

	tests := []struct {
		name    string
		scrollY int
		wantID  string
		wantOK  bool
	}{
		{"at document start", 0, "section_0", true},
		{"inside second chapter", 120, "section_1", true},
		{"exactly at chapter start", 150, "section_2", true},
		{"deep in last chapter", 349, "section_2", true},
		{"before any chapter", -1, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := r.CurrentTocContext(tt.scrollY)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

// Stale TOC entries are skipped without ending the scan; entries after
// them still resolve.
func TestCurrentTocContextSkipsStaleEntries(t *testing.T) {
	r := newTestResolver(t, nil)

	id, ok := r.CurrentTocContext(200)
	require.True(t, ok)
	assert.Equal(t, "section_2", id)
}

func TestResolveLinkAnchor(t *testing.T) {
	r := newTestResolver(t, nil)

	tests := []struct {
		name  string
		link  InternalAnchor
		wantY int
	}{
		{"offset within section", InternalAnchor{SectionID: "section_1", Offset: 20}, 120},
		{"zero offset lands on section start", InternalAnchor{SectionID: "section_2", Offset: 0}, 150},
		{"offset past section end clamps inside", InternalAnchor{SectionID: "section_1", Offset: 99}, 149},
		{"negative offset clamps to section start", InternalAnchor{SectionID: "section_1", Offset: -3}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := r.ResolveLink(tt.link)
			require.NoError(t, err)
			assert.Nil(t, target.External)
			assert.Equal(t, tt.wantY, target.ScrollY)
		})
	}
}

func TestResolveLinkAnchorUnknownSection(t *testing.T) {
	r := newTestResolver(t, nil)

	_, err := r.ResolveLink(InternalAnchor{SectionID: "nowhere", Offset: 5})
	var unresolved *UnresolvedTargetError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "nowhere", unresolved.TargetID)
}

func TestResolveLinkImage(t *testing.T) {
	images := &stubImages{filename: "cover.png", data: []byte{0x89, 'P', 'N', 'G'}}
	r := newTestResolver(t, images)

	target, err := r.ResolveLink(ImageResource{ResourceID: "img-cover"})
	require.NoError(t, err)
	require.NotNil(t, target.External)
	assert.Equal(t, "img-cover", images.asked)
	assert.Equal(t, "cover.png", target.External.Filename)
	assert.Equal(t, images.data, target.External.Data)
}

func TestResolveLinkImageError(t *testing.T) {
	backendErr := errors.New("no such resource")
	r := newTestResolver(t, &stubImages{err: backendErr})

	_, err := r.ResolveLink(ImageResource{ResourceID: "img-missing"})
	require.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), "img-missing")
}
