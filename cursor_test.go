package unsegen

import (
	"strings"
	"testing"

	"github.com/kungfusheep/unsegen-go/cluster"
	"github.com/kungfusheep/unsegen-go/coord"
)

// render concatenates each row's cell text (continuation cells are
// empty strings, so a wide cluster's footprint collapses back to its
// single glyph) and joins rows with "|", giving a compact one-line
// picture of the whole grid for assertions.
func render(buf *Buffer) string {
	var rows []string
	for y := 0; y < int(buf.Height()); y++ {
		var sb strings.Builder
		for x := 0; x < int(buf.Width()); x++ {
			cp, _ := buf.Cell(x, y)
			sb.WriteString(cp.Cluster.String())
		}
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "|")
}

func testCursor(t *testing.T, width, height int, want string, setup func(*Cursor), action func(*Cursor)) {
	t.Helper()
	buf := NewBuffer(width, height)
	win, err := buf.Window()
	if err != nil {
		t.Fatalf("Window(): %v", err)
	}
	win.Fill(cluster.New("_"))
	cur := NewCursor(win)
	setup(cur)
	action(cur)
	if got := render(buf); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCursorSimple(t *testing.T) {
	noop := func(*Cursor) {}
	testCursor(t, 5, 1, "_____", noop, func(c *Cursor) { c.Write("") })
	testCursor(t, 5, 1, "t____", noop, func(c *Cursor) { c.Write("t") })
	testCursor(t, 5, 1, "te___", noop, func(c *Cursor) { c.Write("te") })
	testCursor(t, 5, 1, "tes__", noop, func(c *Cursor) { c.Write("tes") })
	testCursor(t, 5, 1, "test_", noop, func(c *Cursor) { c.Write("test") })
	testCursor(t, 5, 1, "testy", noop, func(c *Cursor) { c.Write("testy") })
}

func TestCursorNoWrap(t *testing.T) {
	noop := func(*Cursor) {}
	testCursor(t, 2, 2, "__|__", noop, func(c *Cursor) { c.Write("") })
	testCursor(t, 2, 2, "t_|__", noop, func(c *Cursor) { c.Write("t") })
	testCursor(t, 2, 2, "te|__", noop, func(c *Cursor) { c.Write("te") })
	testCursor(t, 2, 2, "te|__", noop, func(c *Cursor) { c.Write("tes") })
	testCursor(t, 2, 2, "te|__", noop, func(c *Cursor) { c.Write("test") })
	testCursor(t, 2, 2, "te|__", noop, func(c *Cursor) { c.Write("testy") })
}

func TestCursorWrap(t *testing.T) {
	wrap := func(c *Cursor) { c.SetWrappingMode(Wrap) }
	testCursor(t, 2, 2, "__|__", wrap, func(c *Cursor) { c.Write("") })
	testCursor(t, 2, 2, "t_|__", wrap, func(c *Cursor) { c.Write("t") })
	testCursor(t, 2, 2, "te|__", wrap, func(c *Cursor) { c.Write("te") })
	testCursor(t, 2, 2, "te|s_", wrap, func(c *Cursor) { c.Write("tes") })
	testCursor(t, 2, 2, "te|st", wrap, func(c *Cursor) { c.Write("test") })
	testCursor(t, 2, 2, "te|st", wrap, func(c *Cursor) { c.Write("testy") })
}

func TestCursorTabs(t *testing.T) {
	tabWidth2 := func(c *Cursor) { c.SetTabColumnWidth(coord.Width(2)) }
	testCursor(t, 5, 1, "  x__", tabWidth2, func(c *Cursor) { c.Write("\tx") })
	testCursor(t, 5, 1, "x x__", tabWidth2, func(c *Cursor) { c.Write("x\tx") })
	testCursor(t, 5, 1, "xx  x", tabWidth2, func(c *Cursor) { c.Write("xx\tx") })
	testCursor(t, 5, 1, "xxx x", tabWidth2, func(c *Cursor) { c.Write("xxx\tx") })
	testCursor(t, 5, 1, "    x", tabWidth2, func(c *Cursor) { c.Write("\t\tx") })
	testCursor(t, 5, 1, "     ", tabWidth2, func(c *Cursor) { c.Write("\t\t\tx") })
}

func TestCursorWideCluster(t *testing.T) {
	noop := func(*Cursor) {}
	testCursor(t, 5, 1, "沐___", noop, func(c *Cursor) { c.Write("沐") })
	testCursor(t, 5, 1, "沐沐_", noop, func(c *Cursor) { c.Write("沐沐") })
	testCursor(t, 5, 1, "沐沐 ", noop, func(c *Cursor) { c.Write("沐沐沐") })

	wrap := func(c *Cursor) { c.SetWrappingMode(Wrap) }
	testCursor(t, 3, 2, "沐_|___", wrap, func(c *Cursor) { c.Write("沐") })
	testCursor(t, 3, 2, "沐 |沐_", wrap, func(c *Cursor) { c.Write("沐沐") })
	testCursor(t, 3, 2, "沐 |沐 ", wrap, func(c *Cursor) { c.Write("沐沐沐") })
}

func TestCursorWideClusterOverwrite(t *testing.T) {
	noop := func(*Cursor) {}
	testCursor(t, 5, 1, "X ___", noop, func(c *Cursor) {
		c.Write("沐")
		c.SetPosition(coord.Col(0), coord.Row(0))
		c.Write("X")
	})
	testCursor(t, 5, 1, " X___", noop, func(c *Cursor) {
		c.Write("沐")
		c.SetPosition(coord.Col(1), coord.Row(0))
		c.Write("X")
	})
	testCursor(t, 5, 1, "XYZ _", noop, func(c *Cursor) {
		c.Write("沐沐")
		c.SetPosition(coord.Col(0), coord.Row(0))
		c.Write("XYZ")
	})
	testCursor(t, 5, 1, " XYZ_", noop, func(c *Cursor) {
		c.Write("沐沐")
		c.SetPosition(coord.Col(1), coord.Row(0))
		c.Write("XYZ")
	})
	testCursor(t, 5, 1, "沐XYZ", noop, func(c *Cursor) {
		c.Write("沐沐沐")
		c.SetPosition(coord.Col(2), coord.Row(0))
		c.Write("XYZ")
	})
}

func TestCursorTabsOverwrite(t *testing.T) {
	tabWidth4 := func(c *Cursor) { c.SetTabColumnWidth(coord.Width(4)) }
	testCursor(t, 5, 1, "X   _", tabWidth4, func(c *Cursor) {
		c.Write("\t")
		c.SetPosition(coord.Col(0), coord.Row(0))
		c.Write("X")
	})
	testCursor(t, 5, 1, " X  _", tabWidth4, func(c *Cursor) {
		c.Write("\t")
		c.SetPosition(coord.Col(1), coord.Row(0))
		c.Write("X")
	})
	testCursor(t, 5, 1, "  X _", tabWidth4, func(c *Cursor) {
		c.Write("\t")
		c.SetPosition(coord.Col(2), coord.Row(0))
		c.Write("X")
	})
	testCursor(t, 5, 1, "   X_", tabWidth4, func(c *Cursor) {
		c.Write("\t")
		c.SetPosition(coord.Col(3), coord.Row(0))
		c.Write("X")
	})
}

func TestCursorRestorerRestoresCapturedFields(t *testing.T) {
	buf := NewBuffer(5, 5)
	win, _ := buf.Window()
	cur := NewCursor(win)
	cur.SetPosition(coord.Col(2), coord.Row(3))

	func() {
		defer cur.Save().PosX().PosY().Restore()
		cur.SetPosition(coord.Col(0), coord.Row(0))
		cur.Write("hi")
	}()

	x, y := cur.GetPosition()
	if x != coord.Col(2) || y != coord.Row(3) {
		t.Errorf("position after restore = (%v,%v), want (2,3)", x, y)
	}
}

func TestCursorBackspace(t *testing.T) {
	buf := NewBuffer(5, 1)
	win, _ := buf.Window()
	win.Fill(cluster.New("_"))
	cur := NewCursor(win)
	cur.Write("ab")
	cur.Backspace()
	if got := render(buf); got != "a ___" {
		t.Errorf("got %q, want %q", got, "a ___")
	}
}
