package editor

import (
	"context"
	"fmt"
	"time"
)

// EventKind tells what happened to an editor.
type EventKind int8

// Kinds of events.
const (
	Changed    EventKind = iota // content has been edited
	Saved                       // content has been stored
	SaveFailed                  // storing content failed
)

func (k EventKind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Saved:
		return "saved"
	case SaveFailed:
		return "save failed"
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event is broadcast to subscribers of an editor.
type Event struct {
	Kind   EventKind
	Action string    // action causing the event
	At     time.Time // time of save, for Saved
	Err    error     // for SaveFailed
}

// Subscribe returns a channel of editor events. The channel is closed when
// ctx is done or the editor is closed. Events are dropped for subscribers
// which do not keep up.
func (e *Editor) Subscribe(ctx context.Context) (<-chan Event, error) {
	sub, ok := e.cast.Sub(ctx, 16)
	if !ok {
		return nil, ErrClosed
	}
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		for m := range sub {
			ev, ok := m.(Event)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			default:
				tracer().Debugf("subscriber busy, dropping event %s", ev.Kind)
			}
		}
	}()
	return events, nil
}

func (e *Editor) publish(ev Event) {
	if !e.cast.Pub(ev) {
		tracer().Debugf("event %s not published", ev.Kind)
	}
}
