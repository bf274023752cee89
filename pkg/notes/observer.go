package notes

import "github.com/aretw0/simplelog/pkg/core"

// Subscribe registers fn to be called after every load and mutation, once
// storage has been written. It returns a function that removes fn.
func (s *Store) Subscribe(fn func(core.Event)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(e core.Event) {
	s.obsMu.Lock()
	fns := make([]func(core.Event), 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if fn, ok := s.observers[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
