// Command demo is a minimal end-to-end exercise of the rendering core:
// it splits the terminal into panes with Window.SplitH, writes wrapped
// and wide-cluster text through a Cursor, draws a border, and presents
// each frame through terminal.Terminal. It does not extend the core
// contract, only drives it.
//
// Input decoding is delegated to bubbletea, an explicit external
// collaborator (spec §1): bubbletea owns stdin and key decoding, but
// its own renderer is pointed at io.Discard rather than the real tty,
// since terminal.Terminal already owns raw mode, the alternate screen,
// and presenting. Model.View always returns "", so bubbletea never
// has anything of its own to diff against the screen.
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	unsegen "github.com/kungfusheep/unsegen-go"
	"github.com/kungfusheep/unsegen-go/terminal"
)

func main() {
	var borderName string

	root := &cobra.Command{
		Use:   "demo",
		Short: "Exercise the unsegen-go rendering core in an alternate screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := borderStyle(borderName)
			if err != nil {
				return err
			}
			return run(style)
		},
	}
	root.Flags().StringVar(&borderName, "border", "rounded", "border style: single, rounded, double")

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("demo exited with error")
		os.Exit(1)
	}
}

func borderStyle(name string) (unsegen.BorderStyle, error) {
	switch name {
	case "single":
		return unsegen.BorderSingle, nil
	case "rounded":
		return unsegen.BorderRounded, nil
	case "double":
		return unsegen.BorderDouble, nil
	default:
		return unsegen.BorderStyle{}, fmt.Errorf("unknown border style %q", name)
	}
}

type model struct {
	term   *terminal.Terminal
	border unsegen.BorderStyle
	frame  int
}

// resizeMsg wraps a terminal.Size for delivery through bubbletea's
// single-threaded Update loop, so a SIGWINCH handled on the terminal
// package's own goroutine never races the model's drawing here.
type resizeMsg terminal.Size

// waitForResize returns a command that blocks on the terminal's resize
// channel and reports the next size as a tea.Msg, the same
// channel-listening pattern bubbletea's own Tick/cursor.Blink commands
// use.
func waitForResize(ch <-chan terminal.Size) tea.Cmd {
	return func() tea.Msg {
		size, ok := <-ch
		if !ok {
			return nil
		}
		return resizeMsg(size)
	}
}

func (m *model) Init() tea.Cmd { return waitForResize(m.term.ResizeChan()) }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case resizeMsg:
		m.render()
		return m, waitForResize(m.term.ResizeChan())
	}
	m.frame++
	m.render()
	return m, nil
}

func (m *model) View() string { return "" }

// render draws one frame into the back buffer and presents it. It is
// called from Update rather than View, since View's return value is
// discarded (see the package doc comment).
func (m *model) render() {
	root, err := m.term.BeginFrame()
	if err != nil {
		return
	}

	left, right, err := root.SplitH(int(root.Width().Raw()) / 2)
	if err != nil {
		return
	}

	left.DrawBorder(m.border, unsegen.DefaultStyle())
	right.DrawBorder(m.border, unsegen.DefaultStyle())

	leftInner, err := left.Subwindow(1, 1, int(left.Width().Raw())-2, int(left.Height().Raw())-2)
	if err == nil {
		cur := unsegen.NewCursor(leftInner)
		cur.SetWrappingMode(unsegen.Wrap)
		cur.Writeln("unsegen-go renders grapheme clusters, not bytes:")
		cur.Writeln("combining marks merge, and wide clusters like 沐浴 occupy two columns each.")
		leftInner.Release()
	}

	rightInner, err := right.Subwindow(1, 1, int(right.Width().Raw())-2, int(right.Height().Raw())-2)
	if err == nil {
		cur := unsegen.NewCursor(rightInner)
		cur.Writeln(fmt.Sprintf("frame %d", m.frame))
		cur.Writeln("press q to quit")
		rightInner.Release()
	}

	m.term.Present()
}

func run(border unsegen.BorderStyle) error {
	t, err := terminal.Open()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer t.Close()

	m := &model{term: t, border: border}
	m.render()

	p := tea.NewProgram(m,
		tea.WithInput(os.Stdin),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	)

	_, err = p.Run()
	return err
}
