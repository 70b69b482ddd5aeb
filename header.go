package tabular

import (
	"fmt"
	"slices"
)

// Header is one cell of a header group. It stands for a leaf column, a group
// column, or (Placeholder) an empty cell above a column that is nested less
// deeply than its siblings.
type Header struct {
	ID string
	// ColumnID is the column the header represents. Placeholders carry the id
	// of the column they sit above.
	ColumnID    string
	Label       string
	Placeholder bool
	// Span is the number of leaf columns covered by the header.
	Span int
	// Headers are the headers directly below this one.
	Headers []*Header

	parentID   string
	originalID string
}

// HeaderGroup is one row of a multi-level header.
type HeaderGroup struct {
	Headers []*Header
}

// Span returns the total span of the group's headers.
func (g *HeaderGroup) Span() int {
	n := 0
	for _, h := range g.Headers {
		n += h.Span
	}
	return n
}

// buildHeaderGroups builds header rows bottom-up from the leaf columns and
// returns them outermost first. Adjacent headers sharing a parent merge into
// one parent header; a header without a parent, when its neighbours have
// one, gets a placeholder so every group spans all leaves.
func buildHeaderGroups(leaves []*Column, byID map[string]*Column) []*HeaderGroup {
	frontier := make([]*Header, 0, len(leaves))
	for _, col := range leaves {
		frontier = append(frontier, &Header{
			ID:       col.ID,
			ColumnID: col.ID,
			Label:    col.Header,
			Span:     1,
			parentID: col.ParentID,
		})
	}

	var groups []*HeaderGroup
	for len(frontier) > 0 {
		groups = append(groups, &HeaderGroup{Headers: frontier})
		if !slices.ContainsFunc(frontier, func(h *Header) bool { return h.parentID != "" }) {
			break
		}

		var parents []*Header
		seen := make(map[string]int)
		for _, h := range frontier {
			originalID := h.parentID
			if originalID == "" {
				originalID = h.ID + "_placeholder"
			}
			var last *Header
			if n := len(parents); n > 0 {
				last = parents[n-1]
			}
			if last == nil || last.originalID != originalID {
				last = parentHeader(h, originalID, seen[originalID], byID)
				seen[originalID]++
				parents = append(parents, last)
			}
			last.Headers = append(last.Headers, h)
			last.Span += h.Span
		}
		frontier = parents
	}

	slices.Reverse(groups)
	return groups
}

func parentHeader(child *Header, originalID string, n int, byID map[string]*Column) *Header {
	if child.parentID == "" {
		return &Header{
			ID:          fmt.Sprintf("%s_%d", originalID, n),
			ColumnID:    child.ColumnID,
			Placeholder: true,
			originalID:  originalID,
		}
	}
	col := byID[child.parentID]
	return &Header{
		ID:         fmt.Sprintf("%s_%d", col.ID, n),
		ColumnID:   col.ID,
		Label:      col.Header,
		parentID:   col.ParentID,
		originalID: originalID,
	}
}
