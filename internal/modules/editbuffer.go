package modules

import (
	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/module"
	"github.com/hpungsan/tetra/internal/setting"
)

// Line ending modes of the eol_mode setting.
const (
	EOLUnix    = "lf"
	EOLWindows = "crlf"
)

// EditView is the editing widget state of a buffer: its text plus the
// presentation settings it was configured with.
type EditView struct {
	*buffer.MemoryView
	EOL      string
	TabWidth int
}

// EditBuffer installs EditView as the view of every new buffer.
type EditBuffer struct{}

func NewEditBuffer(ctx module.Context, hooks *module.Interceptor) (*module.Module, error) {
	return module.New(module.Info{
		ID:          EditBufferID,
		Name:        "Edit buffer",
		Description: "Text editing area",
		CanDisable:  false,
		Settings: setting.NewSet(
			setting.Choice("eol_mode", "Line endings", "Line ending shown for new buffers", EOLUnix, EOLUnix, EOLWindows),
			setting.Int("tab_width", "Tab width", "Columns per tab stop", 4, 1, 16, 1),
		),
	}, ctx, hooks, &EditBuffer{})
}

func (e *EditBuffer) Load(m *module.Module) error {
	m.Context().SetViewFactory(func(buffer.Handle) buffer.View {
		v := &EditView{MemoryView: buffer.NewMemoryView()}
		configure(m, v)
		return v
	})
	return nil
}

func (e *EditBuffer) Unload(m *module.Module) error {
	m.Context().SetViewFactory(nil)
	return nil
}

// Refresh applies saved settings to the views already open.
func (e *EditBuffer) Refresh(m *module.Module) error {
	ctx := m.Context()
	if ctx.Events().Last() != event.SettingsSaved {
		return nil
	}
	for _, h := range ctx.Buffers().Handles() {
		if v, ok := ctx.View(h); ok {
			if ev, ok := v.(*EditView); ok {
				configure(m, ev)
			}
		}
	}
	return nil
}

func configure(m *module.Module, v *EditView) {
	if s, err := m.Setting("eol_mode"); err == nil {
		v.EOL = s.Value
	}
	if s, err := m.Setting("tab_width"); err == nil {
		v.TabWidth = s.Int()
	}
}
