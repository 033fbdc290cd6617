package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	unsegen "github.com/kungfusheep/unsegen-go"
	"github.com/kungfusheep/unsegen-go/cluster"
)

func newTestTerminal(w, h int) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	term := &Terminal{
		width:     w,
		height:    h,
		front:     unsegen.NewBuffer(w, h),
		back:      unsegen.NewBuffer(w, h),
		writer:    &out,
		lastStyle: unsegen.DefaultStyle(),
		done:      make(chan struct{}),
	}
	return term, &out
}

func TestPresentSkipsCleanRows(t *testing.T) {
	term, out := newTestTerminal(10, 3)
	term.front.ClearDirty()
	term.back.ClearDirty()

	stats := term.Present()
	if stats.DirtyRows != 0 || stats.ChangedCells != 0 {
		t.Fatalf("expected no-op present on clean buffers, got %+v", stats)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output written, got %q", out.String())
	}
}

func TestPresentWritesOnlyChangedCells(t *testing.T) {
	term, out := newTestTerminal(5, 1)
	term.front.ClearDirty()
	term.back.ClearDirty()

	win, err := term.back.Subwindow(1, 0, 2, 1)
	if err != nil {
		t.Fatalf("Subwindow: %v", err)
	}
	win.Fill(cluster.New("x"))

	stats := term.Present()
	if stats.ChangedCells != 2 {
		t.Errorf("ChangedCells = %d, want 2", stats.ChangedCells)
	}
	if !strings.Contains(out.String(), "xx") {
		t.Errorf("expected output to contain the two changed cells, got %q", out.String())
	}

	// front now mirrors back; writing the same content again and
	// presenting a second time should produce no further changes.
	out.Reset()
	term.back.ClearDirty()
	win.Release()
	win2, _ := term.back.Subwindow(1, 0, 2, 1)
	win2.Fill(cluster.New("x"))
	stats2 := term.Present()
	if stats2.ChangedCells != 0 {
		t.Errorf("expected idempotent second present, got %d changed cells", stats2.ChangedCells)
	}
}

func TestPresentEmitsResetAfterChanges(t *testing.T) {
	term, out := newTestTerminal(3, 1)
	term.front.ClearDirty()
	term.back.ClearDirty()

	win, _ := term.back.Window()
	win.Fill(cluster.New("y"))

	term.Present()
	if !strings.HasSuffix(out.String(), ansi.ResetStyle) {
		t.Errorf("expected trailing SGR reset (%q), got %q", ansi.ResetStyle, out.String())
	}
}

func TestPresentPositionsCursorOnce(t *testing.T) {
	term, out := newTestTerminal(5, 1)
	term.front.ClearDirty()
	term.back.ClearDirty()

	win, _ := term.back.Subwindow(0, 0, 3, 1)
	win.Fill(cluster.New("z"))

	term.Present()
	if n := strings.Count(out.String(), "H"); n != 1 {
		t.Errorf("expected exactly one cursor-position escape for a contiguous run, got %d in %q", n, out.String())
	}
}

func TestPresentPanicsOnUnmergedZeroWidthCluster(t *testing.T) {
	term, _ := newTestTerminal(3, 1)

	win, _ := term.back.Window()
	cp, _ := win.Cell(0, 0)
	cp.Cluster = cluster.New("́") // combining acute accent, zero width
	term.back.MarkAllDirty()
	term.front.ClearDirty()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on unmerged zero-width cluster")
		}
	}()
	term.Present()
}

func TestBeginFrameClearsDrawBuffer(t *testing.T) {
	term, _ := newTestTerminal(3, 1)

	win, _ := term.back.Window()
	cp, _ := win.Cell(0, 0)
	cp.Cluster = cluster.New("X")
	win.Release()

	root, err := term.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	cleared, ok := root.Cell(0, 0)
	if !ok {
		t.Fatal("expected root window to cover (0,0)")
	}
	if cleared.Cluster.String() != " " {
		t.Errorf("got cell %q after BeginFrame, want cleared space", cleared.Cluster.String())
	}
}

func TestPoolSwapAlternatesBuffers(t *testing.T) {
	p := NewPool(4, 2)
	defer p.Stop()

	a := p.Current()
	b := p.Swap()
	if a == b {
		t.Fatal("expected Swap to return a different buffer")
	}
	c := p.Swap()
	if c != a {
		t.Fatal("expected Swap to alternate back to the original buffer")
	}
}

func TestPoolResizeAppliesToBothBuffers(t *testing.T) {
	p := NewPool(4, 2)
	defer p.Stop()

	p.Resize(8, 6)
	if p.buffers[0].Width() != 8 || p.buffers[1].Width() != 8 {
		t.Errorf("expected both buffers resized to width 8")
	}
}
