package doc

import "sort"

// VirtualRegion is the half-open vertical interval [YStart, YEnd) a
// section occupies in the unified scroll space. Regions are contiguous,
// non-overlapping and ordered by section ordinal.
type VirtualRegion struct {
	SectionID string
	YStart    int
	YEnd      int
}

// LayoutMap converts between (section id, offset) pairs and a single
// scalar scroll coordinate. It is a pure function of the section lengths;
// rebuilding from the same sections yields an identical map.
type LayoutMap struct {
	regions []VirtualRegion
	byID    map[string]int
	total   int
}

// BuildLayout assigns every section a contiguous region by running a
// cumulative sum of lengths in ordinal order.
func BuildLayout(sections []Section) *LayoutMap {
	regions := make([]VirtualRegion, len(sections))
	byID := make(map[string]int, len(sections))
	y := 0
	for i, s := range sections {
		regions[i] = VirtualRegion{SectionID: s.ID, YStart: y, YEnd: y + s.Length}
		byID[s.ID] = i
		y += s.Length
	}
	return &LayoutMap{regions: regions, byID: byID, total: y}
}

// TotalHeight is the sum of all section lengths.
func (m *LayoutMap) TotalHeight() int { return m.total }

// Regions returns the ordered regions.
func (m *LayoutMap) Regions() []VirtualRegion { return m.regions }

// Locate maps a scroll coordinate to the section containing it and the
// offset within that section. Out-of-range coordinates clamp to the first
// or last valid position instead of failing.
func (m *LayoutMap) Locate(scrollY int) (sectionID string, offset int) {
	if len(m.regions) == 0 || m.total == 0 {
		return "", 0
	}
	if scrollY < 0 {
		scrollY = 0
	}
	if scrollY >= m.total {
		scrollY = m.total - 1
	}
	i := sort.Search(len(m.regions), func(i int) bool {
		return m.regions[i].YEnd > scrollY
	})
	r := m.regions[i]
	return r.SectionID, scrollY - r.YStart
}

// RegionOf returns the region a section occupies. ok is false when the
// section id is not part of the layout.
func (m *LayoutMap) RegionOf(sectionID string) (VirtualRegion, bool) {
	i, ok := m.byID[sectionID]
	if !ok {
		return VirtualRegion{}, false
	}
	return m.regions[i], true
}
