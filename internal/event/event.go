// Package event merges terminal input, a fixed-interval ticker and the
// results of background work into one ordered, unbounded queue that a
// single consumer drains.
package event

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTick is the ticker period used when none is configured.
const DefaultTick = 100 * time.Millisecond

// Event is anything the main loop consumes.
type Event interface{ event() }

// Input carries one raw terminal message (key press, resize).
type Input struct{ Msg tea.Msg }

// Tick is emitted by the ticker.
type Tick struct{ At time.Time }

// Outcome carries the result of background work.
type Outcome struct{ Msg any }

// Closed reports that the input source ended. Err is nil on a clean end.
type Closed struct{ Err error }

// Panicked reports a panic raised by work started with Go.
type Panicked struct {
	Value any
	Stack []byte
}

func (Input) event()    {}
func (Tick) event()     {}
func (Outcome) event()  {}
func (Closed) event()   {}
func (Panicked) event() {}

// Source produces raw input. Next blocks until a message is available, the
// source ends (io.EOF) or ctx is done.
type Source interface {
	Next(ctx context.Context) (tea.Msg, error)
}

// ChanSource adapts a channel to Source. Closing the channel ends input.
type ChanSource <-chan tea.Msg

func (c ChanSource) Next(ctx context.Context) (tea.Msg, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-c:
		if !ok {
			return nil, io.EOF
		}
		return msg, nil
	}
}
