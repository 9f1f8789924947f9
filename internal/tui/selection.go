package tui

import "sort"

// selectionTracker keys selected rows by their string identity. It is a
// plain map so the zero-cost copies bubbletea makes of view models all see
// the same selection.
type selectionTracker map[string]struct{}

func newSelection() selectionTracker {
	return make(selectionTracker)
}

func (s selectionTracker) toggle(id string) {
	if _, ok := s[id]; ok {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

func (s selectionTracker) contains(id string) bool {
	_, ok := s[id]
	return ok
}

// setAll replaces the selection with the given ids.
func (s selectionTracker) setAll(ids []string) {
	for id := range s {
		delete(s, id)
	}
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s selectionTracker) clear() {
	for id := range s {
		delete(s, id)
	}
}

func (s selectionTracker) count() int {
	return len(s)
}

func (s selectionTracker) sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
