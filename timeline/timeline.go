package timeline

import (
	"sort"

	"github.com/lixenwraith/timeloop/looptime"
)

// Happenings is a labelled group of actions inside a moment
type Happenings struct {
	Label    string
	Actions  Records
	Disabled bool
}

// Moment is the content keyed at one time on a timeline
type Moment struct {
	Label      string
	Desc       string
	Happenings []Happenings
	Disabled   bool
}

// FindHappenings returns the first happenings group labelled l
func (m *Moment) FindHappenings(l string) (*Happenings, bool) {
	for i := range m.Happenings {
		if m.Happenings[i].Label == l {
			return &m.Happenings[i], true
		}
	}
	return nil, false
}

func (m Moment) clone() Moment {
	hs := make([]Happenings, len(m.Happenings))
	for i, h := range m.Happenings {
		hs[i] = h
		hs[i].Actions = append(Records(nil), h.Actions...)
	}
	m.Happenings = hs
	return m
}

// Timeline is an ordered map of moments plus optional links into the loop graph
type Timeline struct {
	ID         ID
	BranchFrom *Point
	MergeInto  *Point

	times   []looptime.LoopTime // Sorted, unique
	moments map[looptime.LoopTime]*Moment
}

// New creates an empty timeline
func New(id ID) *Timeline {
	return &Timeline{
		ID:      id,
		moments: make(map[looptime.LoopTime]*Moment),
	}
}

// Insert stores m at t, reporting whether an existing moment was replaced
func (tl *Timeline) Insert(t looptime.LoopTime, m Moment) bool {
	if existing, ok := tl.moments[t]; ok {
		*existing = m
		return true
	}
	i := sort.Search(len(tl.times), func(i int) bool { return tl.times[i] >= t })
	tl.times = append(tl.times, 0)
	copy(tl.times[i+1:], tl.times[i:])
	tl.times[i] = t
	mm := m
	tl.moments[t] = &mm
	return false
}

// Remove deletes the moment at t
func (tl *Timeline) Remove(t looptime.LoopTime) bool {
	if _, ok := tl.moments[t]; !ok {
		return false
	}
	delete(tl.moments, t)
	i := sort.Search(len(tl.times), func(i int) bool { return tl.times[i] >= t })
	tl.times = append(tl.times[:i], tl.times[i+1:]...)
	return true
}

// Len returns the number of moments
func (tl *Timeline) Len() int {
	return len(tl.times)
}

// Times returns the moment keys in ascending order
func (tl *Timeline) Times() []looptime.LoopTime {
	return append([]looptime.LoopTime(nil), tl.times...)
}

// Range visits moments with from <= t < to in ascending order
// Keys are captured up front; each moment is looked up when visited so
// flag changes made by earlier visits are observed
// fn returning false stops the walk
func (tl *Timeline) Range(from, to looptime.LoopTime, fn func(t looptime.LoopTime, m *Moment) bool) {
	if from >= to {
		return
	}
	lo := sort.Search(len(tl.times), func(i int) bool { return tl.times[i] >= from })
	hi := sort.Search(len(tl.times), func(i int) bool { return tl.times[i] >= to })
	keys := append([]looptime.LoopTime(nil), tl.times[lo:hi]...)
	for _, t := range keys {
		m, ok := tl.moments[t]
		if !ok {
			continue
		}
		if !fn(t, m) {
			return
		}
	}
}

// Each visits every moment in ascending order
func (tl *Timeline) Each(fn func(t looptime.LoopTime, m *Moment)) {
	for _, t := range tl.times {
		fn(t, tl.moments[t])
	}
}

// Find returns a copy of the referenced moment; mutating it leaves the timeline untouched
func (tl *Timeline) Find(ref MomentRef) (looptime.LoopTime, Moment, bool) {
	t, m, ok := tl.FindMut(ref)
	if !ok {
		return 0, Moment{}, false
	}
	return t, m.clone(), true
}

// FindMut returns the referenced moment for in-place mutation
func (tl *Timeline) FindMut(ref MomentRef) (looptime.LoopTime, *Moment, bool) {
	if label, ok := ref.Label(); ok {
		for _, t := range tl.times {
			if m := tl.moments[t]; m.Label == label {
				return t, m, true
			}
		}
		return 0, nil, false
	}
	t, _ := ref.Time()
	m, ok := tl.moments[t]
	return t, m, ok
}
