package ui

import (
	"context"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg replaces the painted frame.
type frameMsg string

// bridge is the bubbletea model behind Terminal. It forwards input to the
// event loop and paints the last frame it was sent; all state lives in the
// app package.
type bridge struct {
	input chan<- tea.Msg
	stop  <-chan struct{}
	frame string
}

func (b bridge) Init() tea.Cmd { return nil }

func (b bridge) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case frameMsg:
		b.frame = string(m)
	case tea.KeyMsg, tea.WindowSizeMsg:
		select {
		case b.input <- m:
		case <-b.stop:
		}
	}
	return b, nil
}

func (b bridge) View() string { return b.frame }

// Terminal owns the screen for the lifetime of the program: raw mode and
// the alternate screen are entered on open and restored by Close or Kill.
// It is the input Source of the event loop and paints frames on request.
type Terminal struct {
	prog  *tea.Program
	input chan tea.Msg
	stop  chan struct{}
	done  chan struct{}
	err   error

	stopOnce sync.Once
}

// OpenTerminal starts the program. opts are applied after the alternate
// screen option.
func OpenTerminal(opts ...tea.ProgramOption) *Terminal {
	t := &Terminal{
		input: make(chan tea.Msg),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	m := bridge{input: t.input, stop: t.stop, frame: "Loading..."}
	t.prog = tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	go func() {
		defer close(t.done)
		_, t.err = t.prog.Run()
	}()
	return t
}

// Next implements event.Source. It reports io.EOF once the program has
// stopped cleanly.
func (t *Terminal) Next(ctx context.Context) (tea.Msg, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg := <-t.input:
		return msg, nil
	case <-t.done:
		if t.err != nil {
			return nil, t.err
		}
		return nil, io.EOF
	}
}

// Paint replaces the frame on screen.
func (t *Terminal) Paint(frame string) {
	t.prog.Send(frameMsg(frame))
}

func (t *Terminal) release() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Close restores the terminal and waits for the program to exit.
func (t *Terminal) Close() error {
	t.release()
	t.prog.Quit()
	<-t.done
	return t.err
}

// Kill restores the terminal without a final paint. Use it on panics.
func (t *Terminal) Kill() {
	t.release()
	t.prog.Kill()
	<-t.done
}
