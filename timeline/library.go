package timeline

import "sort"

// Library holds every loaded timeline by ID
// Installed as an engine resource; mutated only on the tick thread
type Library struct {
	timelines map[ID]*Timeline
}

// NewLibrary creates an empty library
func NewLibrary() *Library {
	return &Library{timelines: make(map[ID]*Timeline)}
}

// Put adds or replaces a timeline
func (l *Library) Put(tl *Timeline) {
	l.timelines[tl.ID] = tl
}

// Get resolves an ID
func (l *Library) Get(id ID) (*Timeline, bool) {
	tl, ok := l.timelines[id]
	return tl, ok
}

// Remove deletes a timeline
func (l *Library) Remove(id ID) {
	delete(l.timelines, id)
}

// Len returns the number of timelines
func (l *Library) Len() int {
	return len(l.timelines)
}

// IDs returns loaded IDs in sorted order
func (l *Library) IDs() []ID {
	ids := make([]ID, 0, len(l.timelines))
	for id := range l.timelines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
