package modules

import (
	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/module"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Handle buffer.Handle `json:"handle"`
	Title  string        `json:"title"`
	// Highlighted marks a tab with unsaved changes.
	Highlighted bool `json:"highlighted"`
}

// Tabbar keeps one tab per open buffer, in the order they were opened.
type Tabbar struct {
	tabs []Tab
}

func NewTabbar(ctx module.Context, hooks *module.Interceptor) (*module.Module, error) {
	return module.New(module.Info{
		ID:          TabbarID,
		Name:        "Tab bar",
		Description: "One tab per open buffer",
		CanDisable:  false,
	}, ctx, hooks, &Tabbar{})
}

// Tabs returns a copy of the tab list.
func (t *Tabbar) Tabs() []Tab {
	return append([]Tab(nil), t.tabs...)
}

func (t *Tabbar) Load(m *module.Module) error {
	bufs := m.Context().Buffers()
	t.tabs = nil
	for _, h := range bufs.Handles() {
		t.insert(bufs, h)
	}
	return nil
}

func (t *Tabbar) Unload(*module.Module) error {
	t.tabs = nil
	return nil
}

func (t *Tabbar) Refresh(m *module.Module) error {
	bufs := m.Context().Buffers()
	current := bufs.CurrentHandle()

	switch m.Context().Events().Last() {
	case event.NewBufferCreated, event.FileOpened:
		t.insert(bufs, current)
	case event.FileSaved, event.FileSavedAs, event.BufferTextChanged, event.TabChanged:
		t.update(bufs, current)
	case event.TabClosed:
		t.prune(bufs)
	}
	return nil
}

func (t *Tabbar) index(h buffer.Handle) int {
	for i, tab := range t.tabs {
		if tab.Handle == h {
			return i
		}
	}
	return -1
}

func (t *Tabbar) insert(bufs *buffer.Manager, h buffer.Handle) {
	if h == "" || t.index(h) >= 0 {
		t.update(bufs, h)
		return
	}
	t.tabs = append(t.tabs, Tab{Handle: h})
	t.update(bufs, h)
}

func (t *Tabbar) update(bufs *buffer.Manager, h buffer.Handle) {
	i := t.index(h)
	b, ok := bufs.Get(h)
	if i < 0 || !ok {
		return
	}
	t.tabs[i].Title = b.Name()
	t.tabs[i].Highlighted = !b.Synchronized() && !b.IsEmpty()
}

func (t *Tabbar) prune(bufs *buffer.Manager) {
	kept := t.tabs[:0]
	for _, tab := range t.tabs {
		if _, ok := bufs.Get(tab.Handle); ok {
			kept = append(kept, tab)
		}
	}
	t.tabs = kept
}
