package unsegen

import (
	"strings"

	"github.com/kungfusheep/unsegen-go/cluster"
	"github.com/kungfusheep/unsegen-go/coord"
)

// WrappingMode controls what Cursor.write does when a line runs past
// the target's width: Wrap continues on the following row, NoWrap
// silently drops anything past the edge.
type WrappingMode uint8

const (
	NoWrap WrappingMode = iota
	Wrap
)

// CursorTarget is anything a Cursor can write into: a rectangular grid
// of cells with a default style. *Window, *Buffer, and *GrowableLine all
// implement it; adapters are free to supply their own (e.g. a growable
// line buffer whose SoftWidth differs from Width).
type CursorTarget interface {
	Width() coord.Width
	Height() coord.Height
	// SoftWidth is the width used for wrapping/fill decisions; it
	// defaults to Width for most targets but may differ for targets
	// that grow horizontally without a hard clip boundary.
	SoftWidth() coord.Width
	Cell(x, y int) (*Cell, bool)
	DefaultStyle() Style
}

// CursorState is the Cursor's value-type state, separable from the
// target it is currently writing into so it can be saved, restored, or
// threaded through a sequence of different targets.
type CursorState struct {
	WrappingMode    WrappingMode
	StyleModifier   StyleModifier
	X               coord.ColIndex
	Y               coord.RowIndex
	LineStartColumn coord.ColIndex
	TabColumnWidth  coord.Width
}

// DefaultCursorState returns the zero-value starting state: no
// wrapping, no style delta, positioned at the origin, 4-column tabs.
func DefaultCursorState() CursorState {
	return CursorState{
		WrappingMode:   NoWrap,
		TabColumnWidth: coord.Width(4),
	}
}

// Cursor is a stateful writer over a CursorTarget: it tracks a write
// position, an active style delta, a wrapping mode, and a tab width,
// and exposes write/move/clear operations that keep the underlying
// grid's wide-cluster invariant intact.
type Cursor struct {
	target CursorTarget
	state  CursorState
}

// NewCursor returns a cursor over target with the default state.
func NewCursor(target CursorTarget) *Cursor {
	return NewCursorWithState(target, DefaultCursorState())
}

// NewCursorWithState returns a cursor over target starting from an
// already-populated state (e.g. one recovered from a prior Cursor via
// State).
func NewCursorWithState(target CursorTarget, state CursorState) *Cursor {
	return &Cursor{target: target, state: state}
}

// State returns a copy of the cursor's current state.
func (c *Cursor) State() CursorState { return c.state }

// SetPosition moves the cursor to (x, y) without touching any cells.
func (c *Cursor) SetPosition(x coord.ColIndex, y coord.RowIndex) {
	c.state.X = x
	c.state.Y = y
}

// SetPositionX moves the cursor's column only.
func (c *Cursor) SetPositionX(x coord.ColIndex) { c.state.X = x }

// SetPositionY moves the cursor's row only.
func (c *Cursor) SetPositionY(y coord.RowIndex) { c.state.Y = y }

// Position is the builder form of SetPosition.
func (c *Cursor) Position(x coord.ColIndex, y coord.RowIndex) *Cursor {
	c.SetPosition(x, y)
	return c
}

// GetPosition returns the cursor's current column and row.
func (c *Cursor) GetPosition() (coord.ColIndex, coord.RowIndex) { return c.state.X, c.state.Y }

// PosX returns the cursor's current column.
func (c *Cursor) PosX() coord.ColIndex { return c.state.X }

// PosY returns the cursor's current row.
func (c *Cursor) PosY() coord.RowIndex { return c.state.Y }

// MoveBy shifts the cursor's position by (dx, dy).
func (c *Cursor) MoveBy(dx coord.ColDiff, dy coord.RowDiff) {
	c.state.X = c.state.X.Add(dx)
	c.state.Y = c.state.Y.Add(dy)
}

// MoveToX sets the cursor's column.
func (c *Cursor) MoveToX(x coord.ColIndex) { c.state.X = x }

// MoveToY sets the cursor's row.
func (c *Cursor) MoveToY(y coord.RowIndex) { c.state.Y = y }

// MoveLeft steps the cursor one column left, skipping over the
// zero-width continuation cells of a wide cluster so it always lands
// on a cell boundary. In Wrap mode, moving left off the start of a row
// continues at the right edge of the row above.
func (c *Cursor) MoveLeft() {
	for {
		if c.state.WrappingMode == Wrap && c.state.X <= 0 {
			c.MoveBy(0, -1)
			rightmost := c.target.SoftWidth().FromOrigin().Sub(1)
			c.MoveToX(rightmost)
		} else {
			c.state.X = c.state.X.Sub(1)
		}
		if c.state.Y < 0 {
			break
		}
		cell, ok := c.currentCell()
		if !ok || cell.Cluster.Width() > 0 {
			break
		}
	}
}

// MoveRight steps the cursor one column right, skipping over
// continuation cells. In Wrap mode, moving right past the target's
// width continues at the start of the row below.
func (c *Cursor) MoveRight() {
	for {
		if c.state.WrappingMode == Wrap && c.state.X > c.target.Width().FromOrigin() {
			c.WrapLine()
		} else {
			c.state.X = c.state.X.Add(1)
		}
		if c.state.Y >= c.target.Height().FromOrigin() {
			break
		}
		cell, ok := c.currentCell()
		if !ok || cell.Cluster.Width() > 0 {
			break
		}
	}
}

// SetWrappingMode changes how write() behaves at the target's edge.
func (c *Cursor) SetWrappingMode(wm WrappingMode) { c.state.WrappingMode = wm }

// WrappingModeOpt is the builder form of SetWrappingMode.
func (c *Cursor) WrappingModeOpt(wm WrappingMode) *Cursor {
	c.SetWrappingMode(wm)
	return c
}

// SetLineStartColumn sets the column carriage returns and line wraps
// return to.
func (c *Cursor) SetLineStartColumn(col coord.ColIndex) { c.state.LineStartColumn = col }

// MoveLineStartColumn shifts the line-start column by d.
func (c *Cursor) MoveLineStartColumn(d coord.ColDiff) {
	c.state.LineStartColumn = c.state.LineStartColumn.Add(d)
}

// LineStartColumnOpt is the builder form of SetLineStartColumn.
func (c *Cursor) LineStartColumnOpt(col coord.ColIndex) *Cursor {
	c.SetLineStartColumn(col)
	return c
}

// SetStyleModifier replaces the cursor's active style delta outright.
func (c *Cursor) SetStyleModifier(m StyleModifier) { c.state.StyleModifier = m }

// ApplyStyleModifier composes m on top of the cursor's current delta.
func (c *Cursor) ApplyStyleModifier(m StyleModifier) {
	c.state.StyleModifier = m.OnTopOf(c.state.StyleModifier)
}

// SetTabColumnWidth sets the tab stop width used by write() when it
// encounters a '\t'.
func (c *Cursor) SetTabColumnWidth(w coord.Width) { c.state.TabColumnWidth = w }

// Backspace moves left one cell, overwrites it with a space carrying
// that cell's existing style (the active style if there is no cell at
// that position), and moves left again — matching a terminal's
// destructive backspace.
func (c *Cursor) Backspace() {
	c.MoveLeft()
	style := c.activeStyle()
	if cell, ok := c.currentCell(); ok {
		style = cell.Style
	}
	c.writeCluster(cluster.Space, style)
	c.MoveLeft()
}

func (c *Cursor) clearLineInRange(start, end coord.ColIndex) {
	style := c.activeStyle()
	savedX := c.state.X
	for x := start; x < end; x = x.Add(1) {
		c.MoveToX(x)
		c.writeCluster(cluster.Space, style)
	}
	c.state.X = savedX
}

// ClearLineLeft blanks every cell from the line start up to and
// including the cursor's current column.
func (c *Cursor) ClearLineLeft() {
	c.clearLineInRange(0, c.state.X.Add(1))
}

// ClearLineRight blanks every cell from the cursor's current column to
// the end of the line.
func (c *Cursor) ClearLineRight() {
	c.clearLineInRange(c.state.X, c.target.SoftWidth().FromOrigin())
}

// ClearLine blanks the cursor's entire current line.
func (c *Cursor) ClearLine() {
	c.clearLineInRange(0, c.target.SoftWidth().FromOrigin())
}

// FillAndWrapLine pads the remainder of the current line with spaces
// out to the next tab-style line boundary, then wraps.
func (c *Cursor) FillAndWrapLine() {
	if c.target.Height() == 0 {
		return
	}
	w := c.target.SoftWidth().FromOrigin()
	for c.state.X <= 0 || c.state.X.Raw()%w.Raw() != 0 {
		c.Write(" ")
	}
	c.WrapLine()
}

// WrapLine advances to the next row and returns to the line-start
// column.
func (c *Cursor) WrapLine() {
	c.state.Y = c.state.Y.Add(1)
	c.CarriageReturn()
}

// CarriageReturn returns the cursor to its line-start column without
// changing row.
func (c *Cursor) CarriageReturn() { c.state.X = c.state.LineStartColumn }

func (c *Cursor) activeStyle() Style {
	return c.state.StyleModifier.Apply(c.target.DefaultStyle())
}

// NumExpectedWraps estimates how many line wraps writing line would
// trigger from the cursor's current column, given the current
// wrapping mode. Used by callers sizing a target before writing to it.
func (c *Cursor) NumExpectedWraps(line string) int {
	if c.state.WrappingMode != Wrap {
		return 0
	}
	numClusters := len(cluster.Segment(line))
	virtualX := c.state.X.Raw() + int32(numClusters)
	w := c.target.SoftWidth().Raw()
	if w == 0 {
		return 0
	}
	wraps := int(virtualX / w)
	if wraps < 0 {
		return 0
	}
	return wraps
}

func createTabCluster(width coord.Width) cluster.GraphemeCluster {
	return cluster.New(strings.Repeat(" ", int(width.Raw())))
}

func (c *Cursor) currentCellMut() (*Cell, bool) {
	if c.state.X < 0 || c.state.Y < 0 {
		return nil, false
	}
	return c.target.Cell(int(c.state.X.Raw()), int(c.state.Y.Raw()))
}

// currentCell is an alias for currentCellMut: in Go, Cell already
// returns a pointer usable for both reads and writes, so there is no
// separate immutable accessor as in the reference implementation.
func (c *Cursor) currentCell() (*Cell, bool) { return c.currentCellMut() }

// writeGraphemeClusterUnchecked places g directly into the cell at the
// cursor's current position, without any bounds/wrap/space checks
// (callers must already know the cell is in bounds). If the
// overwritten cell was the anchor or a continuation of a wide cluster,
// the rest of that cluster's footprint (other than the just-written
// cell) is blanked to keep the grid invariant intact.
func (c *Cursor) writeGraphemeClusterUnchecked(g cluster.GraphemeCluster, style Style) {
	targetX := c.state.X
	y := c.state.Y
	cell, ok := c.currentCellMut()
	if !ok {
		return
	}
	oldWidth := cell.Cluster.Width()
	oldStyle := cell.Style
	cell.Cluster = g
	cell.Style = style

	if oldWidth == 1 {
		return
	}
	// Walk left to find the anchor of the cluster being overwritten.
	currentX := targetX
	currentWidth := oldWidth
	for currentWidth == 0 {
		currentX = currentX.Sub(1)
		cp, ok := c.target.Cell(int(currentX.Raw()), int(y.Raw()))
		if !ok {
			// The anchor lies outside the target: blank only the
			// visible continuation cells of its footprint.
			for x := currentX.Add(1); ; x = x.Add(1) {
				cp, ok := c.target.Cell(int(x.Raw()), int(y.Raw()))
				if !ok || (x != targetX && !cp.Cluster.IsEmpty()) {
					return
				}
				if x != targetX {
					cp.Cluster = cluster.Space
					cp.Style = oldStyle
				}
			}
		}
		currentWidth = cp.Cluster.Width()
	}
	startX := currentX
	for i := 0; i < currentWidth; i++ {
		x := startX.Add(coord.ColDiff(i))
		if x == targetX {
			continue
		}
		if cp, ok := c.target.Cell(int(x.Raw()), int(y.Raw())); ok {
			cp.Cluster = cluster.Space
			cp.Style = oldStyle
		}
	}
}

// writeCluster is the core single-cluster write step used by both
// write() and writeln(): it handles wrap-on-overflow, clips or drops
// clusters that can never fit, merges zero-width combining marks into
// the cell behind them, and fans a wide cluster's continuation cells
// out after the anchor. It returns false when the cluster does not fit
// in the rest of the line (after wrapping, in Wrap mode) and true
// otherwise, including when the cursor's row lies outside the target
// so that nothing is drawn.
func (c *Cursor) writeCluster(g cluster.GraphemeCluster, style Style) bool {
	clusterWidth := g.Width()
	spaceInLine := c.remainingSpaceInLine()
	if int(spaceInLine.Raw()) < clusterWidth {
		for i := int32(0); i < spaceInLine.Raw(); i++ {
			c.writeGraphemeClusterUnchecked(cluster.Space, style)
			c.state.X = c.state.X.Add(1)
		}
		if c.state.WrappingMode == Wrap {
			c.WrapLine()
			if int(c.remainingSpaceInLine().Raw()) < clusterWidth {
				return false
			}
		} else {
			return false
		}
	}

	if _, ok := c.currentCell(); ok {
		if clusterWidth == 0 {
			if cell, ok := c.currentCellMut(); ok {
				cell.Cluster = cell.Cluster.MergeWith(g)
			}
			return true
		}
		c.writeGraphemeClusterUnchecked(g, style)
	}
	c.state.X = c.state.X.Add(1)
	if clusterWidth > 1 && c.target.Height().Contains(c.state.Y) {
		for i := 1; i < clusterWidth; i++ {
			if _, ok := c.currentCell(); ok {
				c.writeGraphemeClusterUnchecked(cluster.Empty, style)
			}
			c.state.X = c.state.X.Add(1)
		}
	}
	return true
}

func (c *Cursor) remainingSpaceInLine() coord.Width {
	x := c.state.X
	w := c.target.SoftWidth().FromOrigin()
	if w < x {
		return 0
	}
	return coord.NewWidthClamped(w.Diff(x).Raw())
}

// WritePreformatted writes a sequence of already-styled cells verbatim,
// stopping early if a cluster cannot be placed. Every cluster's width
// must sum to exactly len(cells) (one slot per column, continuation
// cells included) — this is the fast path for blitting pre-rendered
// content, skipping write()'s newline/tab/wrap-text scanning.
func (c *Cursor) WritePreformatted(cells []Cell) {
	if c.target.SoftWidth() == 0 || c.target.Height() == 0 {
		return
	}
	for _, cell := range cells {
		if !c.writeCluster(cell.Cluster, cell.Style) {
			break
		}
	}
}

// Write writes text into the target starting at the cursor's current
// position, advancing the cursor as it goes. Newlines wrap
// unconditionally (regardless of WrappingMode); carriage returns return
// to the line-start column; tabs expand to the next tab stop as a
// single wide pseudo-cluster; every other character is segmented into
// grapheme clusters and written one at a time via writeCluster.
func (c *Cursor) Write(text string) {
	if c.target.SoftWidth() == 0 || c.target.Height() == 0 {
		return
	}
	style := c.activeStyle()

	lines := strings.Split(text, "\n")
	for lineIdx, line := range lines {
		for _, g := range cluster.Segment(line) {
			switch g.String() {
			case "\t":
				tw := c.state.TabColumnWidth.FromOrigin()
				x := c.state.X
				width := coord.NewWidthClamped(tw.Raw() - x.Mod(tw).Raw())
				g = createTabCluster(width)
			case "\r":
				c.CarriageReturn()
				continue
			}
			if !c.writeCluster(g, style) {
				break
			}
		}
		if lineIdx < len(lines)-1 {
			c.WrapLine()
		}
	}
}

// Writeln writes text then wraps to the next line.
func (c *Cursor) Writeln(text string) {
	c.Write(text)
	c.WrapLine()
}

// Save captures the cursor's current state fields named by the
// returned CursorRestorer's chained selectors, for restoration via
// Restore. This replaces the reference implementation's Drop-based
// CursorRestorer: callers use `defer cursor.Save()....Restore()`
// instead of relying on scope exit.
func (c *Cursor) Save() *CursorRestorer {
	return &CursorRestorer{cursor: c}
}

// CursorRestorer captures a subset of a Cursor's state to be restored
// later. Build it by chaining the selector methods on the value
// returned from Cursor.Save, then call Restore (typically via defer)
// to put the captured fields back.
type CursorRestorer struct {
	cursor *Cursor

	saveStyleModifier   bool
	styleModifier       StyleModifier
	saveLineStartColumn bool
	lineStartColumn     coord.ColIndex
	savePosX            bool
	posX                coord.ColIndex
	savePosY            bool
	posY                coord.RowIndex
}

// StyleModifier captures the cursor's current style modifier.
func (r *CursorRestorer) StyleModifier() *CursorRestorer {
	r.saveStyleModifier = true
	r.styleModifier = r.cursor.state.StyleModifier
	return r
}

// LineStartColumn captures the cursor's current line-start column.
func (r *CursorRestorer) LineStartColumn() *CursorRestorer {
	r.saveLineStartColumn = true
	r.lineStartColumn = r.cursor.state.LineStartColumn
	return r
}

// PosX captures the cursor's current column.
func (r *CursorRestorer) PosX() *CursorRestorer {
	r.savePosX = true
	r.posX = r.cursor.state.X
	return r
}

// PosY captures the cursor's current row.
func (r *CursorRestorer) PosY() *CursorRestorer {
	r.savePosY = true
	r.posY = r.cursor.state.Y
	return r
}

// Restore writes every captured field back into the cursor. Intended
// to be deferred immediately after the chain of selectors:
//
//	defer cursor.Save().PosX().PosY().Restore()
func (r *CursorRestorer) Restore() {
	if r.saveStyleModifier {
		r.cursor.state.StyleModifier = r.styleModifier
	}
	if r.saveLineStartColumn {
		r.cursor.state.LineStartColumn = r.lineStartColumn
	}
	if r.savePosX {
		r.cursor.state.X = r.posX
	}
	if r.savePosY {
		r.cursor.state.Y = r.posY
	}
}
