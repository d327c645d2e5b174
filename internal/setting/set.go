package setting

import "fmt"

// Set is an ordered mapping from setting ID to Setting.
type Set struct {
	order []string
	items map[string]*Setting
}

// NewSet builds a set from declarations. Duplicate IDs are a declaration bug
// and panic.
func NewSet(settings ...*Setting) *Set {
	s := &Set{items: make(map[string]*Setting, len(settings))}
	for _, st := range settings {
		if _, dup := s.items[st.ID]; dup {
			panic(fmt.Sprintf("setting: duplicate id %q", st.ID))
		}
		s.order = append(s.order, st.ID)
		s.items[st.ID] = st
	}
	return s
}

// Get returns the setting with the given ID.
func (s *Set) Get(id string) (*Setting, bool) {
	if s == nil {
		return nil, false
	}
	st, ok := s.items[id]
	return st, ok
}

// Len returns the number of settings.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// All returns the settings in declaration order.
func (s *Set) All() []*Setting {
	if s == nil {
		return nil
	}
	out := make([]*Setting, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Clone returns a deep copy; mutating the copy never affects s.
func (s *Set) Clone() *Set {
	if s == nil {
		return NewSet()
	}
	c := &Set{
		order: append([]string(nil), s.order...),
		items: make(map[string]*Setting, len(s.items)),
	}
	for id, st := range s.items {
		c.items[id] = st.Clone()
	}
	return c
}
