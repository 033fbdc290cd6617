// Package coord provides dimension-tagged integer coordinates for the
// terminal cell grid: column and row indices, their signed differences,
// and their non-negative extents. Keeping column and row as distinct Go
// types makes mixing them (adding a row offset to a column index, say)
// a compile error instead of an off-by-one bug discovered at runtime.
package coord

import "fmt"

// ColIndex is a signed column coordinate. Negative values denote
// positions to the left of the grid's origin.
type ColIndex int32

// RowIndex is a signed row coordinate. Negative values denote positions
// above the grid's origin.
type RowIndex int32

// ColDiff is a signed difference between two ColIndex values, or a
// column-axis displacement vector.
type ColDiff int32

// RowDiff is a signed difference between two RowIndex values, or a
// row-axis displacement vector.
type RowDiff int32

// Width is a non-negative column extent.
type Width int32

// Height is a non-negative row extent.
type Height int32

// Col constructs a ColIndex. Any int32 value is valid.
func Col(v int32) ColIndex { return ColIndex(v) }

// Row constructs a RowIndex. Any int32 value is valid.
func Row(v int32) RowIndex { return RowIndex(v) }

// Raw returns the underlying int32 value.
func (c ColIndex) Raw() int32 { return int32(c) }

// Raw returns the underlying int32 value.
func (r RowIndex) Raw() int32 { return int32(r) }

// Raw returns the underlying int32 value.
func (d ColDiff) Raw() int32 { return int32(d) }

// Raw returns the underlying int32 value.
func (d RowDiff) Raw() int32 { return int32(d) }

// Raw returns the underlying int32 value.
func (w Width) Raw() int32 { return int32(w) }

// Raw returns the underlying int32 value.
func (h Height) Raw() int32 { return int32(h) }

// DiffToOrigin converts an index into the diff from the grid origin (0)
// to that index. Semantically distinct from Raw even though the
// underlying value is identical.
func (c ColIndex) DiffToOrigin() ColDiff { return ColDiff(c) }

// DiffToOrigin converts an index into the diff from the grid origin (0)
// to that index.
func (r RowIndex) DiffToOrigin() RowDiff { return RowDiff(r) }

// FromOrigin converts a diff from the origin back into an index.
func (d ColDiff) FromOrigin() ColIndex { return ColIndex(d) }

// FromOrigin converts a diff from the origin back into an index.
func (d RowDiff) FromOrigin() RowIndex { return RowIndex(d) }

// PositiveOrZero clamps a possibly-negative index into [0, +inf).
func (c ColIndex) PositiveOrZero() ColIndex {
	if c < 0 {
		return 0
	}
	return c
}

// PositiveOrZero clamps a possibly-negative index into [0, +inf).
func (r RowIndex) PositiveOrZero() RowIndex {
	if r < 0 {
		return 0
	}
	return r
}

// Add returns c shifted by d.
func (c ColIndex) Add(d ColDiff) ColIndex { return ColIndex(int32(c) + int32(d)) }

// Sub returns c shifted backwards by d.
func (c ColIndex) Sub(d ColDiff) ColIndex { return ColIndex(int32(c) - int32(d)) }

// Diff returns the signed displacement from other to c (c - other).
func (c ColIndex) Diff(other ColIndex) ColDiff { return ColDiff(int32(c) - int32(other)) }

// Add returns r shifted by d.
func (r RowIndex) Add(d RowDiff) RowIndex { return RowIndex(int32(r) + int32(d)) }

// Sub returns r shifted backwards by d.
func (r RowIndex) Sub(d RowDiff) RowIndex { return RowIndex(int32(r) - int32(d)) }

// Diff returns the signed displacement from other to r (r - other).
func (r RowIndex) Diff(other RowIndex) RowDiff { return RowDiff(int32(r) - int32(other)) }

// Mod returns c modulo m, following Go's truncating % semantics (the
// result carries the sign of c, matching the reference implementation's
// use of Rust's %).
func (c ColIndex) Mod(m ColIndex) ColIndex { return ColIndex(int32(c) % int32(m)) }

// NewWidth constructs a Width, failing if v is negative.
func NewWidth(v int32) (Width, error) {
	if v < 0 {
		return 0, fmt.Errorf("coord: negative width %d", v)
	}
	return Width(v), nil
}

// NewWidthClamped constructs a Width from v, clamping negative values to
// zero instead of failing. Mirrors PositiveAxisDiff::new_unchecked from
// the reference implementation: callers must already know v cannot be
// negative in practice.
func NewWidthClamped(v int32) Width {
	if v < 0 {
		return 0
	}
	return Width(v)
}

// NewHeight constructs a Height, failing if v is negative.
func NewHeight(v int32) (Height, error) {
	if v < 0 {
		return 0, fmt.Errorf("coord: negative height %d", v)
	}
	return Height(v), nil
}

// NewHeightClamped constructs a Height from v, clamping negative values
// to zero.
func NewHeightClamped(v int32) Height {
	if v < 0 {
		return 0
	}
	return Height(v)
}

// FromOrigin returns the index at exactly this many columns from the
// origin.
func (w Width) FromOrigin() ColIndex { return ColIndex(w) }

// FromOrigin returns the index at exactly this many rows from the
// origin.
func (h Height) FromOrigin() RowIndex { return RowIndex(h) }

// Contains reports whether i lies in the half-open range [0, w).
func (w Width) Contains(i ColIndex) bool { return 0 <= i && int32(i) < int32(w) }

// Contains reports whether i lies in the half-open range [0, h).
func (h Height) Contains(i RowIndex) bool { return 0 <= i && int32(i) < int32(h) }

// Add returns w+other.
func (w Width) Add(other Width) Width { return w + other }

// Sub returns the signed diff w-other (may be negative, hence ColDiff
// rather than Width).
func (w Width) Sub(other Width) ColDiff { return ColDiff(int32(w) - int32(other)) }

// ToSigned converts w into a signed ColDiff of the same magnitude.
func (w Width) ToSigned() ColDiff { return ColDiff(w) }

// Add returns h+other.
func (h Height) Add(other Height) Height { return h + other }

// Sub returns the signed diff h-other.
func (h Height) Sub(other Height) RowDiff { return RowDiff(int32(h) - int32(other)) }

// ToSigned converts h into a signed RowDiff of the same magnitude.
func (h Height) ToSigned() RowDiff { return RowDiff(h) }
