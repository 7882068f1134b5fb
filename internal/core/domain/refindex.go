package domain

// ReferenceIndex groups legacy child keys under their legacy parent key.
// It is built once per run and read-only afterwards. Rows with a missing
// parent or child key are counted and dropped, never merged into a wrong
// group.
type ReferenceIndex struct {
	children map[string][]string
	dropped  int
}

// NewReferenceIndex returns an empty index.
func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{children: make(map[string][]string)}
}

// Add appends a child key under a parent key, creating the group on
// first sight. Rows missing either key are counted as dropped.
func (ix *ReferenceIndex) Add(parentKey, childKey string) {
	if parentKey == "" || childKey == "" {
		ix.dropped++
		return
	}
	ix.children[parentKey] = append(ix.children[parentKey], childKey)
}

// Children returns the ordered child keys for a parent, or nil.
func (ix *ReferenceIndex) Children(parentKey string) []string {
	return ix.children[parentKey]
}

// HasChildren reports whether the parent has at least one child.
func (ix *ReferenceIndex) HasChildren(parentKey string) bool {
	return len(ix.children[parentKey]) > 0
}

// PopulatedCount returns how many parents have at least one child,
// used for pre-run statistics.
func (ix *ReferenceIndex) PopulatedCount() int {
	return len(ix.children)
}

// Dropped returns how many malformed relation rows were skipped.
func (ix *ReferenceIndex) Dropped() int {
	return ix.dropped
}
