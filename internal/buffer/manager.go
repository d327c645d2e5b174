package buffer

import "github.com/hpungsan/tetra/internal/errors"

// Manager is the keyed collection of an editor's buffers plus the current
// pointer. While it is non-empty the current handle resolves to a live
// buffer, unless Switch was given a handle the manager does not hold.
type Manager struct {
	emptyName string
	buffers   map[Handle]*Buffer
	order     []Handle
	current   Handle
}

// NewManager creates an empty manager. emptyName is passed to every buffer
// it constructs ("" uses DefaultEmptyName).
func NewManager(emptyName string) *Manager {
	return &Manager{
		emptyName: emptyName,
		buffers:   make(map[Handle]*Buffer),
	}
}

// Add constructs a buffer from opts, stores it under h and makes it current.
// If construction fails nothing is stored.
func (m *Manager) Add(h Handle, opts Options) (*Buffer, error) {
	if opts.EmptyName == "" {
		opts.EmptyName = m.emptyName
	}
	b, err := New(opts)
	if err != nil {
		return nil, err
	}

	if _, exists := m.buffers[h]; !exists {
		m.order = append(m.order, h)
	}
	m.buffers[h] = b
	m.current = h
	return b, nil
}

// AddEmpty adds an unlinked, empty buffer under h and makes it current.
func (m *Manager) AddEmpty(h Handle) *Buffer {
	b, _ := m.Add(h, Options{})
	return b
}

// Remove deletes the buffer under h. If it was current, replacement becomes
// current when given (it must be held by the manager); otherwise the most
// recently added remaining buffer does. Removing the last buffer leaves the
// manager empty with no current buffer.
func (m *Manager) Remove(h Handle, replacement Handle) error {
	if _, ok := m.buffers[h]; !ok {
		return errors.NewNotFound("buffer", string(h))
	}
	if replacement != "" {
		if _, ok := m.buffers[replacement]; !ok || replacement == h {
			return errors.NewInvalidRequest("replacement buffer must be a different live buffer")
		}
	}

	delete(m.buffers, h)
	for i, oh := range m.order {
		if oh == h {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	if m.current != h {
		return nil
	}
	switch {
	case replacement != "":
		m.current = replacement
	case len(m.order) > 0:
		m.current = m.order[len(m.order)-1]
	default:
		m.current = ""
	}
	return nil
}

// Current returns the current buffer, or nil if there is none.
func (m *Manager) Current() *Buffer {
	return m.buffers[m.current]
}

// CurrentHandle returns the current handle ("" when empty).
func (m *Manager) CurrentHandle() Handle {
	return m.current
}

// Switch makes h current. Membership is not checked.
func (m *Manager) Switch(h Handle) {
	m.current = h
}

// Get returns the buffer stored under h.
func (m *Manager) Get(h Handle) (*Buffer, bool) {
	b, ok := m.buffers[h]
	return b, ok
}

// Len returns the number of live buffers.
func (m *Manager) Len() int {
	return len(m.buffers)
}

// Handles returns the live handles in insertion order.
func (m *Manager) Handles() []Handle {
	return append([]Handle(nil), m.order...)
}
