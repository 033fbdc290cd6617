// Package cluster implements the grapheme-cluster model: the unit of
// display on the cell grid. A GraphemeCluster is an immutable blob of
// UTF-8 text representing exactly one extended grapheme cluster, with a
// display width in terminal columns (0 for combining marks, 1 for most
// characters, 2 or more for wide East-Asian characters and similar).
//
// Segmentation and width measurement are delegated to external
// libraries rather than implemented here — this package is the
// "external grapheme segmentation and width oracle" collaborator named
// by the rendering core's Non-goals: boundary-finding comes from
// github.com/rivo/uniseg, display width from github.com/mattn/go-runewidth.
package cluster

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// GraphemeCluster is an immutable, opaque unit of display: one extended
// grapheme cluster plus its precomputed display width.
type GraphemeCluster struct {
	text  string
	width int
}

// Empty is the zero-width placeholder cluster used for continuation
// cells (the cells to the right of a wide cluster's anchor).
var Empty = GraphemeCluster{text: "", width: 0}

// Space is the width-1 blank cluster used to fill cleared cells and pad
// right-edge tiling gaps.
var Space = GraphemeCluster{text: " ", width: 1}

// New wraps a single grapheme cluster's text with its measured width.
// Callers that already know a string is exactly one cluster (e.g. the
// writing engine's per-cluster loop) use this directly; callers with
// arbitrary text should use Parse or Segment.
func New(text string) GraphemeCluster {
	return GraphemeCluster{text: text, width: runewidth.StringWidth(text)}
}

// Parse converts a string into a single GraphemeCluster, failing if the
// string is empty or contains more than one extended grapheme cluster.
// Mirrors the reference implementation's ParseError: "Caller supplied
// zero or multiple clusters."
func Parse(s string) (GraphemeCluster, error) {
	if s == "" {
		return GraphemeCluster{}, fmt.Errorf("cluster: empty string is not a grapheme cluster")
	}
	gr := uniseg.NewGraphemes(s)
	if !gr.Next() {
		return GraphemeCluster{}, fmt.Errorf("cluster: %q contains no grapheme cluster", s)
	}
	first := gr.Str()
	if gr.Next() {
		return GraphemeCluster{}, fmt.Errorf("cluster: %q contains more than one grapheme cluster", s)
	}
	return New(first), nil
}

// Segment splits text into its constituent grapheme clusters in order.
// This is the entry point the cursor/writing engine uses to turn raw
// input text into the cluster stream described in spec.md §4.3.
func Segment(text string) []GraphemeCluster {
	if text == "" {
		return nil
	}
	clusters := make([]GraphemeCluster, 0, len(text))
	state := -1
	remaining := text
	for len(remaining) > 0 {
		var segment string
		segment, remaining, _, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		clusters = append(clusters, New(segment))
	}
	return clusters
}

// String returns the cluster's UTF-8 text.
func (g GraphemeCluster) String() string { return g.text }

// Width returns the cluster's display width in terminal columns: 0, 1,
// or more.
func (g GraphemeCluster) Width() int { return g.width }

// IsEmpty reports whether g is the zero-width continuation placeholder.
func (g GraphemeCluster) IsEmpty() bool { return g.width == 0 && g.text == "" }

// IsZeroWidth reports whether g has display width 0 (a combining mark
// that must be merged into the preceding cluster rather than occupy its
// own cell).
func (g GraphemeCluster) IsZeroWidth() bool { return g.width == 0 && g.text != "" }

// MergeWith appends other's text onto g, producing the single logical
// cluster that results from merging a combining mark into its base.
// Used by the writing engine when the next input cluster has width 0.
func (g GraphemeCluster) MergeWith(other GraphemeCluster) GraphemeCluster {
	return GraphemeCluster{text: g.text + other.text, width: g.width}
}

// Equal reports structural equality between two clusters.
func (g GraphemeCluster) Equal(other GraphemeCluster) bool {
	return g.text == other.text && g.width == other.width
}
