package unsegen

import (
	"fmt"
	"sync"

	"github.com/kungfusheep/unsegen-go/cluster"
	"github.com/kungfusheep/unsegen-go/coord"
)

// Cell is one grid position: a grapheme cluster paired with its style.
// A cell holding cluster.Empty is a continuation slot owned by the
// wide cluster immediately to its left on the same row, unless it has
// since been overwritten directly (see Cursor.writeGraphemeClusterUnchecked).
type Cell struct {
	Cluster cluster.GraphemeCluster
	Style   Style
}

// EmptyCell is the zero-width continuation cell.
var EmptyCell = Cell{Cluster: cluster.Empty}

// NewCell wraps a text/style pair expected to be exactly one grapheme
// cluster.
func NewCell(text string, style Style) Cell {
	return Cell{Cluster: cluster.New(text), Style: style}
}

// Equal reports structural equality between two cells.
func (c Cell) Equal(other Cell) bool {
	return c.Cluster.Equal(other.Cluster) && c.Style.Equal(other.Style)
}

// rect is an axis-aligned rectangle in buffer-local coordinates, used
// by the region tracker to detect overlapping windows.
type rect struct {
	x, y, w, h int
}

func (r rect) overlaps(o rect) bool {
	return r.x < o.x+o.w && o.x < r.x+r.w && r.y < o.y+o.h && o.y < r.y+r.h
}

// ErrOverlappingWindow is returned when a caller attempts to derive a
// subwindow or split whose rectangle overlaps a still-live sibling
// window over the same buffer — the non-aliasing invariant required of
// sub-windows. Go has no borrow checker to enforce this statically, so
// it is enforced here by an explicit region tracker instead (option (a)
// of the design notes: a region-tree held by the backing buffer).
type ErrOverlappingWindow struct {
	Requested rect
	Live      rect
}

func (e *ErrOverlappingWindow) Error() string {
	return fmt.Sprintf("unsegen: window rect %+v overlaps live window %+v", e.Requested, e.Live)
}

// regionTracker records the rectangles of currently-live windows over a
// single Buffer so that derived windows (via Subwindow/SplitH/SplitV)
// can be refused when they would alias an existing one.
type regionTracker struct {
	mu   sync.Mutex
	live []rect
}

func (t *regionTracker) acquire(r rect) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, live := range t.live {
		if r.overlaps(live) {
			return &ErrOverlappingWindow{Requested: r, Live: live}
		}
	}
	t.live = append(t.live, r)
	return nil
}

func (t *regionTracker) release(r rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, live := range t.live {
		if live == r {
			t.live = append(t.live[:i], t.live[i+1:]...)
			return
		}
	}
}

// Buffer is the owned cell-grid backing store: a row-major width×height
// matrix of cells plus a default style, dirty-row tracking feeding the
// diff-and-present pipeline, and the region tracker that enforces
// Window non-aliasing.
type Buffer struct {
	cells         []Cell
	width, height int
	defaultStyle  Style

	dirtyRows []bool
	dirtyMaxY int
	allDirty  bool

	regions regionTracker
}

// NewBuffer allocates a width×height buffer filled with space cells in
// the default style.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{
		width:        width,
		height:       height,
		defaultStyle: DefaultStyle(),
		dirtyRows:    make([]bool, height),
	}
	b.cells = make([]Cell, width*height)
	b.fillCells(cluster.Space, b.defaultStyle)
	b.MarkAllDirty()
	return b
}

func (b *Buffer) fillCells(g cluster.GraphemeCluster, style Style) {
	cell := Cell{Cluster: g, Style: style}
	for i := range b.cells {
		b.cells[i] = cell
	}
}

// Width returns the buffer's column extent.
func (b *Buffer) Width() coord.Width { return coord.Width(b.width) }

// Height returns the buffer's row extent.
func (b *Buffer) Height() coord.Height { return coord.Height(b.height) }

// SoftWidth makes Buffer satisfy CursorTarget directly, for code that
// writes straight into the root buffer rather than deriving a Window
// first. It always equals Width, same as Window.SoftWidth.
func (b *Buffer) SoftWidth() coord.Width { return b.Width() }

// DefaultStyle returns the buffer's default style, consulted by Fill
// and Clear and by any cursor composing its active style against it.
func (b *Buffer) DefaultStyle() Style { return b.defaultStyle }

// SetDefaultStyle changes the style used by future Fill/Clear calls. It
// does not repaint existing cells: changing a window's default style
// only affects future drawing.
func (b *Buffer) SetDefaultStyle(s Style) { b.defaultStyle = s }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int { return y*b.width + x }

// Cell returns a pointer to the cell at (x, y), or (nil, false) if out
// of bounds.
func (b *Buffer) Cell(x, y int) (*Cell, bool) {
	if !b.inBounds(x, y) {
		return nil, false
	}
	return &b.cells[b.index(x, y)], true
}

func (b *Buffer) markDirty(y int) {
	if y < 0 || y >= len(b.dirtyRows) {
		return
	}
	b.dirtyRows[y] = true
	if y > b.dirtyMaxY {
		b.dirtyMaxY = y
	}
}

// RowDirty reports whether row y has been modified since the last
// ClearDirty.
func (b *Buffer) RowDirty(y int) bool {
	if b.allDirty {
		return true
	}
	if y < 0 || y >= len(b.dirtyRows) {
		return false
	}
	return b.dirtyRows[y]
}

// MarkAllDirty forces every row to be treated as dirty, e.g. after a
// resize or a forced full redraw.
func (b *Buffer) MarkAllDirty() {
	b.allDirty = true
	b.dirtyMaxY = b.height - 1
}

// ClearDirty resets all dirty-row tracking after a frame has been
// presented.
func (b *Buffer) ClearDirty() {
	b.allDirty = false
	for i := range b.dirtyRows {
		b.dirtyRows[i] = false
	}
	b.dirtyMaxY = 0
}

// Clear overwrites every cell with a space in the default style.
func (b *Buffer) Clear() {
	b.fillCells(cluster.Space, b.defaultStyle)
	b.MarkAllDirty()
}

// Resize reallocates the buffer to new dimensions, preserving overlap
// with the previous content top-left aligned. Both the new and old
// extents are wholly re-marked dirty, so the next present() repaints
// the full screen.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	newCells := make([]Cell, width*height)
	space := Cell{Cluster: cluster.Space, Style: b.defaultStyle}
	for i := range newCells {
		newCells[i] = space
	}
	minW, minH := width, height
	if b.width < minW {
		minW = b.width
	}
	if b.height < minH {
		minH = b.height
	}
	for y := 0; y < minH; y++ {
		copy(newCells[y*width:y*width+minW], b.cells[y*b.width:y*b.width+minW])
	}
	b.cells = newCells
	b.width = width
	b.height = height
	b.dirtyRows = make([]bool, height)
	b.MarkAllDirty()
}

// Window returns a Window over the buffer's full extent.
func (b *Buffer) Window() (*Window, error) {
	return b.Subwindow(0, 0, b.width, b.height)
}

// Subwindow carves a non-owning view over the rectangle
// [x, x+w) x [y, y+h) of the buffer. It fails with *ErrOverlappingWindow
// if the rectangle aliases a still-live sibling window, or a plain
// error if the rectangle falls outside the buffer.
func (b *Buffer) Subwindow(x, y, w, h int) (*Window, error) {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > b.width || y+h > b.height {
		return nil, fmt.Errorf("unsegen: subwindow (%d,%d,%d,%d) out of bounds for %dx%d buffer", x, y, w, h, b.width, b.height)
	}
	r := rect{x: x, y: y, w: w, h: h}
	if err := b.regions.acquire(r); err != nil {
		return nil, err
	}
	return &Window{buf: b, rect: r, defaultStyle: b.defaultStyle}, nil
}

// Window is a borrowed, mutable axis-aligned rectangular view over a
// Buffer. It does not own cells: it witnesses exclusive access to its
// rectangle, enforced by the buffer's region tracker, for as long as it
// remains live (until Release is called, or it is consumed by
// Subwindow, SplitH or SplitV). Two windows derived from the same buffer are disjoint for
// as long as both are live.
type Window struct {
	buf          *Buffer
	rect         rect
	defaultStyle Style
	released     bool
}

// Width returns the window's column extent.
func (w *Window) Width() coord.Width { return coord.Width(w.rect.w) }

// Height returns the window's row extent.
func (w *Window) Height() coord.Height { return coord.Height(w.rect.h) }

// SoftWidth is the wrap/fill width consulted by a Cursor writing into
// this window. For a Window it always equals Width: unlike a growable
// line buffer, a window's wrap boundary never differs from its hard
// clipping boundary.
func (w *Window) SoftWidth() coord.Width { return w.Width() }

// DefaultStyle returns the window's default style.
func (w *Window) DefaultStyle() Style { return w.defaultStyle }

// SetDefaultStyle changes the style consulted by future Fill/Clear
// calls and by cursors composing their active style against this
// window. Existing cells are untouched.
func (w *Window) SetDefaultStyle(s Style) { w.defaultStyle = s }

// ModifyDefaultStyle applies a StyleModifier to the window's current
// default style.
func (w *Window) ModifyDefaultStyle(m StyleModifier) { w.defaultStyle = m.Apply(w.defaultStyle) }

// Cell returns a pointer to the cell at window-local (x, y), or
// (nil, false) if out of the window's bounds.
func (w *Window) Cell(x, y int) (*Cell, bool) {
	if x < 0 || x >= w.rect.w || y < 0 || y >= w.rect.h {
		return nil, false
	}
	return w.buf.Cell(w.rect.x+x, w.rect.y+y)
}

func (w *Window) setRaw(x, y int, c Cell) {
	if cp, ok := w.Cell(x, y); ok {
		*cp = c
		w.buf.markDirty(w.rect.y + y)
	}
}

// Subwindow carves a sub-rectangle of this window's own rectangle,
// consuming w the same way SplitH/SplitV do: the margin left outside
// the carved rectangle is simply untracked afterward, not handed back,
// so draw whatever border or padding you need into w before calling
// this. Coordinates are relative to the window's own origin.
func (w *Window) Subwindow(x, y, subW, subH int) (*Window, error) {
	if x < 0 || y < 0 || subW < 0 || subH < 0 || x+subW > w.rect.w || y+subH > w.rect.h {
		return nil, fmt.Errorf("unsegen: subwindow (%d,%d,%d,%d) out of bounds for %dx%d window", x, y, subW, subH, w.rect.w, w.rect.h)
	}
	w.buf.regions.release(w.rect)
	w.released = true
	return w.buf.Subwindow(w.rect.x+x, w.rect.y+y, subW, subH)
}

// SplitH splits the window at column `col`, consuming w and returning
// two adjacent windows (left, right) that together cover exactly the
// original rectangle with no overlap; widths sum to the parent width.
// The split column belongs to the right half. Fails if col is outside
// [0, width].
func (w *Window) SplitH(col int) (left, right *Window, err error) {
	if col < 0 || col > w.rect.w {
		return nil, nil, fmt.Errorf("unsegen: split column %d out of bounds for width %d", col, w.rect.w)
	}
	w.buf.regions.release(w.rect)
	w.released = true
	left, err = w.buf.Subwindow(w.rect.x, w.rect.y, col, w.rect.h)
	if err != nil {
		return nil, nil, err
	}
	right, err = w.buf.Subwindow(w.rect.x+col, w.rect.y, w.rect.w-col, w.rect.h)
	if err != nil {
		left.Release()
		return nil, nil, err
	}
	left.defaultStyle = w.defaultStyle
	right.defaultStyle = w.defaultStyle
	return left, right, nil
}

// SplitV splits the window at row `row`, consuming w and returning two
// adjacent windows (top, bottom) covering the original rectangle with
// no overlap; heights sum to the parent height. The split row belongs
// to the bottom half.
func (w *Window) SplitV(row int) (top, bottom *Window, err error) {
	if row < 0 || row > w.rect.h {
		return nil, nil, fmt.Errorf("unsegen: split row %d out of bounds for height %d", row, w.rect.h)
	}
	w.buf.regions.release(w.rect)
	w.released = true
	top, err = w.buf.Subwindow(w.rect.x, w.rect.y, w.rect.w, row)
	if err != nil {
		return nil, nil, err
	}
	bottom, err = w.buf.Subwindow(w.rect.x, w.rect.y+row, w.rect.w, w.rect.h-row)
	if err != nil {
		top.Release()
		return nil, nil, err
	}
	top.defaultStyle = w.defaultStyle
	bottom.defaultStyle = w.defaultStyle
	return top, bottom, nil
}

// Release relinquishes the window's claim on its rectangle, allowing a
// future Subwindow/Split to reuse the space. Windows are scoped to a
// single frame: a caller deriving windows from Buffer.Window() each
// frame must release every leaf window once done drawing, or the next
// frame's Buffer.Window() call fails with ErrOverlappingWindow against
// its own still-live predecessor. Calling Release twice is a no-op.
func (w *Window) Release() {
	if w.released {
		return
	}
	w.released = true
	w.buf.regions.release(w.rect)
}

// Fill overwrites every cell in the window with copies of g tiled
// according to its display width: g is placed only at columns that are
// multiples of g.Width(), trailing columns that don't fit a whole copy
// are padded with spaces, and the cells between tile anchors become
// continuation cells. After Fill the grid invariant (every wide cluster
// is immediately followed by its own continuation cells) holds
// everywhere in the window.
func (w *Window) Fill(g cluster.GraphemeCluster) {
	gw := g.Width()
	if gw < 1 {
		gw = 1
	}
	rightBorder := w.rect.w - (w.rect.w % gw)
	style := w.defaultStyle
	for y := 0; y < w.rect.h; y++ {
		for x := 0; x < w.rect.w; x++ {
			switch {
			case x >= rightBorder:
				w.setRaw(x, y, Cell{Cluster: cluster.Space, Style: style})
			case x%gw == 0:
				w.setRaw(x, y, Cell{Cluster: g, Style: style})
			default:
				w.setRaw(x, y, Cell{Cluster: cluster.Empty, Style: style})
			}
		}
	}
}

// Clear is Fill(Space).
func (w *Window) Clear() { w.Fill(cluster.Space) }

// BorderStyle names the glyphs needed to draw a rectangular border,
// plus the T-junctions and cross used to merge adjoining borders into
// continuous lines instead of overlapping corners.
type BorderStyle struct {
	Horizontal, Vertical                       rune
	TopLeft, TopRight, BottomLeft, BottomRight rune
	TeeDown, TeeUp, TeeRight, TeeLeft, Cross   rune
}

// BorderSingle is a single-line box-drawing border.
var BorderSingle = BorderStyle{
	Horizontal: '─', Vertical: '│',
	TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘',
	TeeDown: '┬', TeeUp: '┴', TeeRight: '├', TeeLeft: '┤', Cross: '┼',
}

// BorderRounded is a single-line border with rounded corners.
var BorderRounded = BorderStyle{
	Horizontal: '─', Vertical: '│',
	TopLeft: '╭', TopRight: '╮', BottomLeft: '╰', BottomRight: '╯',
	TeeDown: '┬', TeeUp: '┴', TeeRight: '├', TeeLeft: '┤', Cross: '┼',
}

// BorderDouble is a double-line box-drawing border.
var BorderDouble = BorderStyle{
	Horizontal: '═', Vertical: '║',
	TopLeft: '╔', TopRight: '╗', BottomLeft: '╚', BottomRight: '╝',
	TeeDown: '╦', TeeUp: '╩', TeeRight: '╠', TeeLeft: '╣', Cross: '╬',
}

// borderEdges maps a box-drawing glyph to its edge bitmask: 1=up,
// 2=right, 4=down, 8=left.
var borderEdges = map[rune]uint8{
	'─': 2 | 8, '│': 1 | 4,
	'┌': 2 | 4, '┐': 4 | 8, '└': 1 | 2, '┘': 1 | 8,
	'┬': 2 | 4 | 8, '┴': 1 | 2 | 8, '├': 1 | 2 | 4, '┤': 1 | 4 | 8, '┼': 1 | 2 | 4 | 8,
	'╭': 2 | 4, '╮': 4 | 8, '╰': 1 | 2, '╯': 1 | 8,
	'═': 2 | 8, '║': 1 | 4,
	'╔': 2 | 4, '╗': 4 | 8, '╚': 1 | 2, '╝': 1 | 8,
	'╦': 2 | 4 | 8, '╩': 1 | 2 | 8, '╠': 1 | 2 | 4, '╣': 1 | 4 | 8, '╬': 1 | 2 | 4 | 8,
}

var edgesToSingle = buildEdgeTable("─│┌┐└┘┬┴├┤┼")
var edgesToDouble = buildEdgeTable("═║╔╗╚╝╦╩╠╣╬")

func buildEdgeTable(glyphs string) [16]rune {
	var table [16]rune
	for _, g := range glyphs {
		if bits, ok := borderEdges[g]; ok {
			table[bits] = g
		}
	}
	return table
}

// mergeBorders decides what glyph results from drawing `next` over a
// cell that already carries `existing`. Two known box-drawing glyphs
// have their edges combined: the result comes from the double-line
// family when either glyph is a straight double line (═ or ║), and
// from the single-line family otherwise. If either glyph is not a known
// box-drawing glyph, or the chosen family has no glyph for the combined
// edges, next simply replaces the existing glyph.
func mergeBorders(existing, next rune) rune {
	existingBits, existOK := borderEdges[existing]
	nextBits, nextOK := borderEdges[next]
	if !existOK || !nextOK {
		return next
	}
	merged := existingBits | nextBits
	table := edgesToSingle
	if next == '═' || next == '║' || existing == '═' || existing == '║' {
		table = edgesToDouble
	}
	if g := table[merged]; g != 0 {
		return g
	}
	return next
}

// DrawBorder draws a rectangular border of the given style around the
// window's full rectangle, merging junctions with whatever border glyph
// is already there so two adjoining panels share a clean T-junction
// instead of overlapping corners. This and Fill/Clear are the only
// grid-drawing primitives this package provides; panel titles or nested
// content belong to a widget layer above Window.
func (w *Window) DrawBorder(style BorderStyle, cellStyle Style) {
	width, height := w.rect.w, w.rect.h
	if width < 2 || height < 2 {
		return
	}
	putGlyph := func(x, y int, r rune) {
		cp, ok := w.Cell(x, y)
		if !ok {
			return
		}
		existing := rune(0)
		if runes := []rune(cp.Cluster.String()); len(runes) == 1 {
			existing = runes[0]
		}
		merged := r
		if existing != 0 {
			merged = mergeBorders(existing, r)
		}
		w.setRaw(x, y, Cell{Cluster: cluster.New(string(merged)), Style: cellStyle})
	}
	putGlyph(0, 0, style.TopLeft)
	putGlyph(width-1, 0, style.TopRight)
	putGlyph(0, height-1, style.BottomLeft)
	putGlyph(width-1, height-1, style.BottomRight)
	for x := 1; x < width-1; x++ {
		putGlyph(x, 0, style.Horizontal)
		putGlyph(x, height-1, style.Horizontal)
	}
	for y := 1; y < height-1; y++ {
		putGlyph(0, y, style.Vertical)
		putGlyph(width-1, y, style.Vertical)
	}
}
