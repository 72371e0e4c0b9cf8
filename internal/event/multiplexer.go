package event

import (
	"context"
	"errors"
	"io"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Multiplexer owns the producers and the queue between them and the
// consumer.
type Multiplexer struct {
	in     chan Event
	out    chan Event
	ctx    context.Context
	cancel context.CancelFunc
	work   context.Context
	group  *errgroup.Group

	closeOnce sync.Once
	closeErr  error
}

// Start launches the input producer, the ticker (unless tick <= 0) and the
// queue pump. Cancelling ctx has the same effect as Close.
func Start(ctx context.Context, src Source, tick time.Duration) *Multiplexer {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	m := &Multiplexer{
		in:     make(chan Event),
		out:    make(chan Event),
		ctx:    gctx,
		cancel: cancel,
		work:   context.WithoutCancel(ctx),
		group:  g,
	}

	g.Go(m.pump)
	if src != nil {
		g.Go(func() error { return m.readInput(src) })
	}
	if tick > 0 {
		g.Go(func() error { return m.runTicker(tick) })
	}
	return m
}

// Events is the consumer side of the queue. It is closed after shutdown.
func (m *Multiplexer) Events() <-chan Event { return m.out }

// Post enqueues e. It returns false once shutdown has begun, in which case
// e is dropped.
func (m *Multiplexer) Post(e Event) bool {
	select {
	case <-m.ctx.Done():
		return false
	default:
	}
	select {
	case m.in <- e:
		return true
	case <-m.ctx.Done():
		return false
	}
}

// Go runs fn on its own goroutine and posts its result as an Outcome, or a
// Panicked if fn panics. Work is not cancelled by Close; a result that
// arrives afterwards is dropped.
func (m *Multiplexer) Go(fn func(ctx context.Context) any) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.Post(Panicked{Value: r, Stack: debug.Stack()})
			}
		}()
		msg := fn(m.work)
		m.Post(Outcome{Msg: msg})
	}()
}

// Close stops every producer, closes Events and waits for the producer
// goroutines to exit. It is safe to call more than once.
func (m *Multiplexer) Close() error {
	m.closeOnce.Do(func() {
		m.cancel()
		m.closeErr = m.group.Wait()
	})
	return m.closeErr
}

// pump moves events from in to out through an unbounded FIFO so that
// producers never wait on a slow consumer.
func (m *Multiplexer) pump() error {
	defer close(m.out)

	var queue []Event
	for {
		var (
			out  chan Event
			head Event
		)
		if len(queue) > 0 {
			out = m.out
			head = queue[0]
		}

		select {
		case <-m.ctx.Done():
			return nil
		case e := <-m.in:
			queue = append(queue, e)
		case out <- head:
			queue[0] = nil
			queue = queue[1:]
		}
	}
}

func (m *Multiplexer) readInput(src Source) error {
	for {
		msg, err := src.Next(m.ctx)
		if err != nil {
			if m.ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				err = nil
			}
			m.Post(Closed{Err: err})
			return nil
		}
		if !m.Post(Input{Msg: msg}) {
			return nil
		}
	}
}

func (m *Multiplexer) runTicker(period time.Duration) error {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return nil
		case now := <-t.C:
			if !m.Post(Tick{At: now}) {
				return nil
			}
		}
	}
}
