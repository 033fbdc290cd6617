// Package terminal owns the terminal device: raw-mode setup/teardown,
// SIGWINCH-driven resize, SIGTSTP/SIGCONT cooperation, and the
// diff-and-present pipeline that turns a Buffer's dirty rows into a
// minimal ANSI byte stream. Everything above this package (Window,
// Cursor) is agnostic to where its cells end up; Terminal is the one
// place that talks to an actual tty.
package terminal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	unsegen "github.com/kungfusheep/unsegen-go"
)

// The x/ansi package has no named constant for the alternate-screen
// mode (CSI ?1049h/l) at the version pinned in go.mod, so these stay
// raw sequences the way kungfusheep-glyph/screen.go writes them;
// cursor visibility and screen erase do have named constants and use
// those instead (ansi.HideCursor, ansi.ShowCursor, ansi.EraseEntireScreen).
const (
	enterAltScreen = "\x1b[?1049h"
	exitAltScreen  = "\x1b[?1049l"
)

// Size is a terminal's dimensions in columns and rows.
type Size struct {
	Width  int
	Height int
}

// Terminal owns the front/back buffer pair, the tty file descriptor,
// and the raw-mode state needed to restore it on exit. It is built on
// kungfusheep-glyph/screen.go's Screen: same diff-then-write Flush
// algorithm, same mutex-guarded resize handling, generalized from
// rune cells to unsegen.Cell (grapheme cluster + style).
type Terminal struct {
	front, back *unsegen.Buffer
	writer      io.Writer
	fd          int

	width, height int

	rawState *term.State

	resizeChan chan Size
	sigChan    chan os.Signal
	done       chan struct{}

	lastStyle unsegen.Style
	buf       bytes.Buffer

	mu  sync.Mutex
	log *logrus.Entry
}

// Open creates a Terminal bound to os.Stdout/os.Stdin's fd, puts it
// into raw mode, and switches to the alternate screen. Call Close to
// restore the original terminal state.
func Open() (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	width, height, err := getSize(fd)
	if err != nil {
		width, height = 80, 24
	}

	t := &Terminal{
		front:      unsegen.NewBuffer(width, height),
		back:       unsegen.NewBuffer(width, height),
		writer:     os.Stdout,
		fd:         fd,
		width:      width,
		height:     height,
		resizeChan: make(chan Size, 1),
		sigChan:    make(chan os.Signal, 1),
		done:       make(chan struct{}),
		lastStyle:  unsegen.DefaultStyle(),
		log:        logrus.WithField("component", "terminal"),
	}

	if err := t.enterRawMode(); err != nil {
		return nil, err
	}
	return t, nil
}

func getSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// Size returns the current terminal dimensions.
func (t *Terminal) Size() Size { return Size{Width: t.width, Height: t.height} }

// Back returns the back buffer: draw into it, then call Present.
func (t *Terminal) Back() *unsegen.Buffer { return t.back }

// BeginFrame starts a new frame: if the terminal's extents have changed
// since the last frame, both buffers are resized and cleared (matching
// handleResize's resize path); otherwise only the draw buffer is
// cleared, so stale glyphs from a longer previous frame never survive
// into a shorter one. It returns a root window over the (now clear)
// draw buffer, ready to be drawn into and passed to Present.
func (t *Terminal) BeginFrame() (*unsegen.Window, error) {
	t.mu.Lock()
	width, height, err := getSize(t.fd)
	if err == nil && (width != t.width || height != t.height) {
		t.width, t.height = width, height
		t.front.Resize(width, height)
		t.back.Resize(width, height)
		t.front.Clear()
		t.back.Clear()
	} else {
		t.back.Clear()
	}
	t.mu.Unlock()

	return t.back.Window()
}

// ResizeChan delivers a Size every time SIGWINCH reports a change.
// Callers that want to react to resizes (re-splitting windows, say)
// read from this channel; Terminal has already resized both buffers
// by the time a value is sent.
func (t *Terminal) ResizeChan() <-chan Size { return t.resizeChan }

func (t *Terminal) enterRawMode() error {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("terminal: enter raw mode: %w", err)
	}
	t.rawState = state

	signal.Notify(t.sigChan, syscall.SIGWINCH, syscall.SIGTSTP)
	go t.handleSignals()

	t.writeString(enterAltScreen)
	t.writeString(ansi.HideCursor)
	return nil
}

// restoreTerminal leaves the alternate screen, shows the cursor, and
// restores the original termios. Both Close and the SIGTSTP handler
// route through this single function so teardown behaves identically
// whether the process is exiting or merely suspending.
func (t *Terminal) restoreTerminal() {
	t.writeString(ansi.ShowCursor)
	t.writeString(exitAltScreen)

	if t.rawState != nil {
		if err := term.Restore(t.fd, t.rawState); err != nil {
			t.log.WithError(err).Warn("restore termios failed")
		}
	}
}

// Close restores the terminal to its original state. Safe to call
// more than once; best-effort beyond the first call.
func (t *Terminal) Close() {
	select {
	case <-t.done:
		return
	default:
		close(t.done)
	}
	signal.Stop(t.sigChan)
	t.restoreTerminal()
}

// handleSignals is the one goroutine that runs concurrently with frame
// construction; it only ever touches t's buffers/fd under t.mu, so
// drawing code elsewhere remains single-threaded as the rest of the
// package assumes. SIGWINCH reacts to a size change; SIGTSTP cooperates
// with the shell's job control the way original_source/unsegen_signals
// expects a terminal layer to: restore the tty, re-raise SIGTSTP
// against the whole process group so the shell actually stops the
// process, then re-arm on resume.
func (t *Terminal) handleSignals() {
	for {
		select {
		case <-t.done:
			return
		case sig := <-t.sigChan:
			switch sig {
			case syscall.SIGWINCH:
				t.handleResize()
			case syscall.SIGTSTP:
				t.handleSigtstp()
			}
		}
	}
}

func (t *Terminal) handleResize() {
	width, height, err := getSize(t.fd)
	if err != nil {
		return
	}
	if width == t.width && height == t.height {
		return
	}
	t.mu.Lock()
	t.width, t.height = width, height
	t.front.Resize(width, height)
	t.back.Resize(width, height)
	t.front.Clear()
	t.back.Clear()
	t.writeString(ansi.EraseEntireScreen)
	t.mu.Unlock()

	select {
	case t.resizeChan <- Size{Width: width, Height: height}:
	default:
	}
}

func (t *Terminal) handleSigtstp() {
	t.mu.Lock()
	t.restoreTerminal()
	t.mu.Unlock()

	// Drop our own SIGTSTP handler, re-raise it against the process
	// group so the shell's job control actually suspends us, then
	// block here until SIGCONT wakes the re-raised signal back up.
	signal.Reset(syscall.SIGTSTP)
	_ = syscall.Kill(0, syscall.SIGTSTP)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := term.MakeRaw(t.fd); err != nil {
		t.log.WithError(err).Warn("re-enter raw mode after SIGCONT failed")
	}
	t.writeString(enterAltScreen)
	t.writeString(ansi.HideCursor)
	t.front.MarkAllDirty()
	signal.Notify(t.sigChan, syscall.SIGWINCH, syscall.SIGTSTP)
}

func (t *Terminal) writeString(s string) { io.WriteString(t.writer, s) }

// PresentStats reports how much of the last Present call actually had
// to touch the wire, for callers that want to log or benchmark it.
type PresentStats struct {
	DirtyRows    int
	ChangedCells int
}

// Present diffs the back buffer against the front buffer cell by cell,
// writes only what changed as a minimal ANSI byte stream, then swaps
// front to match back and clears back's dirty tracking. Grounded on
// kungfusheep-glyph/screen.go's Screen.Flush: dirty-row fast path,
// cursor-position tracking so consecutive changed cells on a row don't
// re-emit a position escape, and a style-change-only SGR emission
// (InvalidPresentedCluster panics instead of writing malformed output,
// matching spec.md's "fail loudly" error policy for this path).
func (t *Terminal) Present() PresentStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf.Reset()
	cursorX, cursorY := -1, -1
	stats := PresentStats{}

	for y := 0; y < t.height; y++ {
		if !t.back.RowDirty(y) {
			continue
		}
		stats.DirtyRows++

		for x := 0; x < t.width; x++ {
			backCell, ok := t.back.Cell(x, y)
			if !ok {
				continue
			}
			frontCell, _ := t.front.Cell(x, y)
			if backCell.Equal(*frontCell) {
				continue
			}

			if backCell.Cluster.IsEmpty() {
				// continuation cell of a wide cluster drawn two cells
				// to the left; nothing to emit on its own.
				*frontCell = *backCell
				continue
			}
			if backCell.Cluster.IsZeroWidth() {
				panic(fmt.Sprintf("terminal: InvalidPresentedCluster: zero-width cluster %q reached present() unmerged at (%d,%d)", backCell.Cluster.String(), x, y))
			}

			if cursorX != x || cursorY != y {
				t.writeCursorPosition(x, y)
			}
			t.writeCell(backCell.Style, backCell.Cluster.String())
			*frontCell = *backCell
			stats.ChangedCells++
			cursorX = x + backCell.Cluster.Width()
			cursorY = y
		}
	}

	if stats.ChangedCells > 0 {
		t.buf.WriteString(ansi.ResetStyle)
		t.lastStyle = unsegen.DefaultStyle()
	}

	if t.buf.Len() > 0 {
		t.writer.Write(t.buf.Bytes())
	}
	t.back.ClearDirty()
	return stats
}

func (t *Terminal) writeCursorPosition(x, y int) {
	t.buf.WriteString(ansi.SetCursorPosition(x+1, y+1))
}

func (t *Terminal) writeCell(style unsegen.Style, text string) {
	if !style.Equal(t.lastStyle) {
		t.writeStyle(style)
		t.lastStyle = style
	}
	t.buf.WriteString(text)
}

// writeStyle always emits a global reset before fg/bg/attributes, per
// spec.md §6's mandated byte stream (and matching the teacher's own
// writeStyle, which never emits a bare "turn off" SGR).
func (t *Terminal) writeStyle(style unsegen.Style) {
	t.buf.WriteString("\x1b[0")
	if style.Attr.Has(unsegen.AttrBold) {
		t.buf.WriteString(";1")
	}
	if style.Attr.Has(unsegen.AttrDim) {
		t.buf.WriteString(";2")
	}
	if style.Attr.Has(unsegen.AttrItalic) {
		t.buf.WriteString(";3")
	}
	if style.Attr.Has(unsegen.AttrUnderline) {
		t.buf.WriteString(";4")
	}
	if style.Attr.Has(unsegen.AttrBlink) {
		t.buf.WriteString(";5")
	}
	if style.Attr.Has(unsegen.AttrInverse) {
		t.buf.WriteString(";7")
	}
	if style.Attr.Has(unsegen.AttrStrikethrough) {
		t.buf.WriteString(";9")
	}
	t.writeColor(style.FG, true)
	t.writeColor(style.BG, false)
	t.buf.WriteString("m")
}

func (t *Terminal) writeColor(c unsegen.Color, fg bool) {
	switch c.Mode {
	case unsegen.ColorDefault:
		if fg {
			t.buf.WriteString(";39")
		} else {
			t.buf.WriteString(";49")
		}
	case unsegen.Color16:
		base := 30
		if !fg {
			base = 40
		}
		if c.Index >= 8 {
			fmt.Fprintf(&t.buf, ";%d", base+60+int(c.Index)-8)
		} else {
			fmt.Fprintf(&t.buf, ";%d", base+int(c.Index))
		}
	case unsegen.Color256:
		if fg {
			t.buf.WriteString(";38;5;")
		} else {
			t.buf.WriteString(";48;5;")
		}
		fmt.Fprintf(&t.buf, "%d", c.Index)
	case unsegen.ColorRGB:
		if fg {
			t.buf.WriteString(";38;2;")
		} else {
			t.buf.WriteString(";48;2;")
		}
		fmt.Fprintf(&t.buf, "%d;%d;%d", c.R, c.G, c.B)
	}
}
