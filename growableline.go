package unsegen

import (
	"github.com/kungfusheep/unsegen-go/cluster"
	"github.com/kungfusheep/unsegen-go/coord"
)

// GrowableLine is a minimal single-row CursorTarget whose storage grows
// on demand instead of clipping at a fixed allocated width. It stands
// in for the widget layer's scrollback line storage (a pty-backed
// terminal keeps one of these per history line): Width reports how far
// the line has actually grown, while SoftWidth is the fixed column at
// which a Cursor wraps or clips, independent of how much backing
// storage exists. A Window's Width and SoftWidth always coincide;
// GrowableLine is the case where they don't, which is why CursorTarget
// carries both rather than just one.
type GrowableLine struct {
	cells     []Cell
	softWidth coord.Width
	style     Style
}

// NewGrowableLine returns an empty line that wraps/clips at softWidth.
func NewGrowableLine(softWidth coord.Width) *GrowableLine {
	return &GrowableLine{softWidth: softWidth, style: DefaultStyle()}
}

// Width reports how many columns have been allocated so far.
func (l *GrowableLine) Width() coord.Width { return coord.Width(len(l.cells)) }

// Height is always 1: GrowableLine models a single scrollback line.
func (l *GrowableLine) Height() coord.Height { return coord.Height(1) }

// SoftWidth is the fixed wrap/clip boundary a Cursor writing into this
// line respects, independent of Width.
func (l *GrowableLine) SoftWidth() coord.Width { return l.softWidth }

// DefaultStyle returns the style used to pad newly grown cells.
func (l *GrowableLine) DefaultStyle() Style { return l.style }

// SetDefaultStyle changes the style used to pad newly grown cells.
func (l *GrowableLine) SetDefaultStyle(s Style) { l.style = s }

// Cell returns a pointer to column x, growing the backing slice with
// space cells as needed. Only row 0 exists.
func (l *GrowableLine) Cell(x, y int) (*Cell, bool) {
	if y != 0 || x < 0 {
		return nil, false
	}
	for len(l.cells) <= x {
		l.cells = append(l.cells, Cell{Cluster: cluster.Space, Style: l.style})
	}
	return &l.cells[x], true
}

// Cells returns the line's current content, one cell per allocated
// column.
func (l *GrowableLine) Cells() []Cell { return l.cells }
