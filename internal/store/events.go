package store

import "github.com/xuefei993/renewables/internal/model"

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
	EventRenamed EventKind = "renamed"
	EventLoading EventKind = "loading"
	EventUpdated EventKind = "updated"
	EventFailed  EventKind = "failed"
)

// Event reports a change to one configuration.
type Event struct {
	Kind          EventKind           `json:"kind"`
	Configuration model.Configuration `json:"configuration"`
	Err           string              `json:"error,omitempty"`
}

// Subscribe registers fn for every future event and returns a function that removes it.
// fn runs on the goroutine that caused the change and must not call back into the store
// synchronously.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(events ...Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}
