package app

import (
	"context"
	"fmt"

	"github.com/nhath/litequery/internal/event"
)

// maxFollowups bounds the followup chain of a single event. Exceeding it
// is a programming error.
const maxFollowups = 256

// Renderer paints one frame from a snapshot.
type Renderer interface {
	Render(v View)
}

type updateFunc func(State, Message) (State, Followup, Cmd)

// drain applies msg and every followup it produces.
func drain(s State, msg Message, update updateFunc) (State, []Cmd) {
	var cmds []Cmd
	for step := 0; ; step++ {
		if step >= maxFollowups {
			panic(fmt.Sprintf("app: followup chain exceeded %d steps (last message %s in mode %s)",
				maxFollowups, describe(msg), s.mode))
		}
		next, follow, cmd := update(s, msg)
		if next.mode != s.mode {
			s.env.logger().Debug("transition", "from", s.mode, "to", next.mode, "message", describe(msg))
		}
		s = next
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if follow == nil {
			return s, cmds
		}
		msg = follow
	}
}

// Step applies one message and its followups.
func Step(s State, msg Message) (State, []Cmd) {
	return drain(s, msg, State.Update)
}

// Run consumes events from mux until the state reaches Quit, the input
// source ends or the event stream closes. A panic in a background command
// ends the loop with an error so the caller can restore the terminal. Each event, followups included,
// is fully applied before the next is read. init commands are started
// before the first event. The final state is returned so the caller can
// release the session.
func Run(ctx context.Context, mux *event.Multiplexer, s State, r Renderer, init ...Cmd) (State, error) {
	log := s.env.logger()
	dispatch := func(c Cmd) {
		mux.Go(func(ctx context.Context) any { return c(ctx) })
	}
	for _, c := range init {
		if c != nil {
			dispatch(c)
		}
	}

	r.Render(s.View())
	for {
		var ev event.Event
		select {
		case <-ctx.Done():
			return s, nil
		case e, ok := <-mux.Events():
			if !ok {
				return s, nil
			}
			ev = e
		}

		var msg Message
		switch e := ev.(type) {
		case event.Input:
			msg = s.Translate(e.Msg)
		case event.Tick:
			msg = Tick{At: e.At}
		case event.Outcome:
			m, ok := e.Msg.(Message)
			if !ok {
				log.Warn("dropping foreign outcome", "type", fmt.Sprintf("%T", e.Msg))
				continue
			}
			if batch, ok := m.(batchMsg); ok {
				for _, c := range batch {
					dispatch(c)
				}
				continue
			}
			msg = m
		case event.Closed:
			if e.Err != nil {
				return s, fmt.Errorf("input: %w", e.Err)
			}
			return s, nil
		case event.Panicked:
			log.Error("background work panicked", "panic", e.Value, "stack", string(e.Stack))
			return s, fmt.Errorf("background work panicked: %v", e.Value)
		}

		if _, ok := msg.(NoOp); ok || msg == nil {
			continue
		}
		if _, ok := msg.(Tick); ok && !s.Busy() {
			continue
		}
		if f, ok := msg.(QueryFailed); ok {
			log.Warn("query failed", "reason", f.Reason)
		}
		if f, ok := msg.(ConnectFailed); ok {
			log.Warn("connect failed", "target", f.Target, "reason", f.Reason)
		}

		var cmds []Cmd
		s, cmds = Step(s, msg)
		for _, c := range cmds {
			dispatch(c)
		}
		if s.ShouldQuit() {
			return s, nil
		}
		r.Render(s.View())
	}
}
