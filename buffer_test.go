package unsegen

import (
	"testing"

	"github.com/kungfusheep/unsegen-go/cluster"
)

func TestBufferNewFillsSpaces(t *testing.T) {
	buf := NewBuffer(80, 24)
	if buf.Width() != 80 || buf.Height() != 24 {
		t.Fatalf("expected 80x24, got %dx%d", buf.Width(), buf.Height())
	}
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			cp, ok := buf.Cell(x, y)
			if !ok || cp.Cluster.String() != " " {
				t.Fatalf("expected space at (%d,%d)", x, y)
			}
		}
	}
}

func TestBufferCellBounds(t *testing.T) {
	buf := NewBuffer(10, 10)
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{9, 9, true},
		{-1, 0, false},
		{0, -1, false},
		{10, 0, false},
		{0, 10, false},
	}
	for _, c := range cases {
		_, ok := buf.Cell(c.x, c.y)
		if ok != c.want {
			t.Errorf("Cell(%d,%d) ok = %v, want %v", c.x, c.y, ok, c.want)
		}
	}
}

func TestWindowFillTilesByWidth(t *testing.T) {
	buf := NewBuffer(10, 3)
	win, err := buf.Window()
	if err != nil {
		t.Fatalf("Window(): %v", err)
	}
	win.Fill(cluster.New("沐"))
	for y := 0; y < 3; y++ {
		for x := 0; x < 10; x += 2 {
			cp, _ := buf.Cell(x, y)
			if cp.Cluster.Width() != 2 {
				t.Errorf("(%d,%d): expected wide anchor, got width %d", x, y, cp.Cluster.Width())
			}
			cont, _ := buf.Cell(x+1, y)
			if !cont.Cluster.IsEmpty() {
				t.Errorf("(%d,%d): expected continuation cell", x+1, y)
			}
		}
	}
}

func TestWindowFillPadsRemainder(t *testing.T) {
	buf := NewBuffer(5, 1)
	win, _ := buf.Window()
	win.Fill(cluster.New("沐"))
	last, _ := buf.Cell(4, 0)
	if last.Cluster.String() != " " {
		t.Errorf("expected trailing column padded with space, got %q", last.Cluster.String())
	}
}

func TestSubwindowRejectsOverlap(t *testing.T) {
	buf := NewBuffer(10, 10)
	first, err := buf.Subwindow(0, 0, 5, 5)
	if err != nil {
		t.Fatalf("first Subwindow: %v", err)
	}
	_, err = buf.Subwindow(2, 2, 5, 5)
	if err == nil {
		t.Fatal("expected overlapping subwindow to be rejected")
	}
	first.Release()
	_, err = buf.Subwindow(2, 2, 5, 5)
	if err != nil {
		t.Errorf("expected subwindow to succeed after release, got %v", err)
	}
}

func TestSplitHCoversWithoutOverlap(t *testing.T) {
	buf := NewBuffer(10, 4)
	root, err := buf.Window()
	if err != nil {
		t.Fatalf("Window(): %v", err)
	}
	left, right, err := root.SplitH(4)
	if err != nil {
		t.Fatalf("SplitH: %v", err)
	}
	if left.Width() != 4 || right.Width() != 6 {
		t.Errorf("got widths %d/%d, want 4/6", left.Width(), right.Width())
	}
	left.Fill(cluster.Space)
	right.Fill(cluster.New("#"))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			cp, _ := buf.Cell(x, y)
			if cp.Cluster.String() != " " {
				t.Errorf("left half (%d,%d) = %q, want space", x, y, cp.Cluster.String())
			}
		}
		for x := 4; x < 10; x++ {
			cp, _ := buf.Cell(x, y)
			if cp.Cluster.String() != "#" {
				t.Errorf("right half (%d,%d) = %q, want #", x, y, cp.Cluster.String())
			}
		}
	}
}

func TestSplitVCoversWithoutOverlap(t *testing.T) {
	buf := NewBuffer(4, 10)
	root, _ := buf.Window()
	top, bottom, err := root.SplitV(3)
	if err != nil {
		t.Fatalf("SplitV: %v", err)
	}
	if top.Height() != 3 || bottom.Height() != 7 {
		t.Errorf("got heights %d/%d, want 3/7", top.Height(), bottom.Height())
	}
}

func TestDrawBorderCorners(t *testing.T) {
	buf := NewBuffer(20, 10)
	win, _ := buf.Subwindow(0, 0, 5, 3)
	win.DrawBorder(BorderSingle, DefaultStyle())

	cases := []struct {
		x, y int
		want rune
	}{
		{0, 0, '┌'}, {4, 0, '┐'}, {0, 2, '└'}, {4, 2, '┘'},
	}
	for _, c := range cases {
		cp, _ := buf.Cell(c.x, c.y)
		got := []rune(cp.Cluster.String())[0]
		if got != c.want {
			t.Errorf("(%d,%d) = %q, want %q", c.x, c.y, got, c.want)
		}
	}
	for x := 1; x < 4; x++ {
		cp, _ := buf.Cell(x, 0)
		if got := []rune(cp.Cluster.String())[0]; got != '─' {
			t.Errorf("(%d,0) = %q, want ─", x, got)
		}
	}
}

func TestMergeBordersJoinsIntoTee(t *testing.T) {
	cases := []struct {
		existing, next, want rune
	}{
		{'─', '│', '┼'},  // a horizontal run crossed by a vertical becomes a cross
		{'┌', '─', '┬'},  // a horizontal drawn through a top-left corner becomes a down-tee
		{'─', '═', '═'},  // mixed families merge into the double-line family; both are horizontal
	}
	for _, c := range cases {
		if got := mergeBorders(c.existing, c.next); got != c.want {
			t.Errorf("mergeBorders(%q, %q) = %q, want %q", c.existing, c.next, got, c.want)
		}
	}
}

func mustWindow(t *testing.T, buf *Buffer) *Window {
	t.Helper()
	w, err := buf.Window()
	if err != nil {
		t.Fatalf("Window(): %v", err)
	}
	return w
}

func TestBufferResizePreservesOverlap(t *testing.T) {
	buf := NewBuffer(10, 10)
	win, _ := buf.Window()
	win.Fill(cluster.New("x"))
	buf.Resize(20, 5)
	if buf.Width() != 20 || buf.Height() != 5 {
		t.Fatalf("expected 20x5, got %dx%d", buf.Width(), buf.Height())
	}
	cp, _ := buf.Cell(0, 0)
	if cp.Cluster.String() != "x" {
		t.Error("expected overlapping content preserved across resize")
	}
}

func TestBufferClearDirtyTracking(t *testing.T) {
	buf := NewBuffer(5, 5)
	buf.ClearDirty()
	if buf.RowDirty(0) {
		t.Error("expected row 0 clean after ClearDirty")
	}
	win, _ := buf.Window()
	win.Fill(cluster.Space)
	if !buf.RowDirty(0) {
		t.Error("expected row 0 dirty after Fill")
	}
}

func BenchmarkWindowFill(b *testing.B) {
	buf := NewBuffer(200, 50)
	win, _ := buf.Window()
	g := cluster.New("x")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		win.Fill(g)
	}
}
