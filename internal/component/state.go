package component

import (
	"reflect"

	"github.com/vellum-ui/vellum/internal/errors"
)

// State is a tracked key/value store backing one component. The first
// mutation in an update cycle copies the underlying map, and every
// mutation records the key's previous value, so after a cycle the exact
// set of changed keys and their old values is available to per-key update
// handlers. Commit resets the tracking for the next cycle.
type State struct {
	values  map[string]interface{}
	changed map[string]interface{}
	dirty   bool
	forced  bool

	onDirty func()
}

// NewState creates a state store seeded with initial values. The initial
// map is adopted, not copied; callers hand over ownership.
func NewState(initial map[string]interface{}) *State {
	if initial == nil {
		initial = make(map[string]interface{})
	}
	return &State{values: initial}
}

// Get returns the current value for a key.
func (s *State) Get(key string) (interface{}, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Values returns the current value map. The map is live; callers must not
// mutate it directly.
func (s *State) Values() map[string]interface{} {
	return s.values
}

// Set assigns a value. Assigning a value equal to the current one is a
// no-op. Overwriting an existing non-nil value with one of a different
// dynamic type is a programmer error and is rejected.
func (s *State) Set(key string, value interface{}) error {
	old, existed := s.values[key]
	if existed && stateEqual(old, value) {
		return nil
	}
	if existed && old != nil && value != nil {
		if reflect.TypeOf(old) != reflect.TypeOf(value) {
			return errors.ErrStateTypeMismatch(key, reflect.TypeOf(old).String()+" -> "+reflect.TypeOf(value).String())
		}
	}

	s.mutate()
	if _, tracked := s.changed[key]; !tracked {
		s.changed[key] = old
	}
	s.values[key] = value
	return nil
}

// Replace swaps the entire value map, recording every key added, removed
// or changed.
func (s *State) Replace(next map[string]interface{}) {
	if next == nil {
		next = make(map[string]interface{})
	}

	old := s.values
	s.mutate()
	for key, value := range next {
		if prev, ok := old[key]; !ok || !stateEqual(prev, value) {
			if _, tracked := s.changed[key]; !tracked {
				s.changed[key] = old[key]
			}
		}
	}
	for key := range old {
		if _, ok := next[key]; !ok {
			if _, tracked := s.changed[key]; !tracked {
				s.changed[key] = old[key]
			}
		}
	}
	s.values = next
}

// ForceUpdate marks the state dirty without recording any changed key,
// guaranteeing the next flush performs a full re-render.
func (s *State) ForceUpdate() {
	s.forced = true
	s.markDirty()
}

// Dirty reports whether any mutation occurred since the last commit.
func (s *State) Dirty() bool { return s.dirty }

// Forced reports whether a full re-render was explicitly requested.
func (s *State) Forced() bool { return s.forced }

// Changed returns the keys mutated since the last commit mapped to their
// values before the first mutation.
func (s *State) Changed() map[string]interface{} {
	return s.changed
}

// Commit clears change tracking at the end of an update cycle.
func (s *State) Commit() {
	s.changed = nil
	s.dirty = false
	s.forced = false
}

// mutate performs the copy-on-write step for the current cycle.
func (s *State) mutate() {
	if s.changed == nil {
		copied := make(map[string]interface{}, len(s.values))
		for k, v := range s.values {
			copied[k] = v
		}
		s.values = copied
		s.changed = make(map[string]interface{})
	}
	s.markDirty()
}

func (s *State) markDirty() {
	if s.dirty {
		return
	}
	s.dirty = true
	if s.onDirty != nil {
		s.onDirty()
	}
}

// stateEqual compares two state values, treating uncomparable values as
// always unequal so mutations to shared slices and maps still dirty the
// component.
func stateEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
