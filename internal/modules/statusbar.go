package modules

import (
	"path/filepath"
	"strings"

	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/module"
)

var statusEvents = []event.Event{
	event.NewBufferCreated,
	event.FileSavedAs,
	event.FileOpened,
	event.TabChanged,
	event.TabClosed,
	event.SettingsSaved,
}

// Statusbar shows the current buffer's name, line endings and encoding.
type Statusbar struct {
	text string
}

func NewStatusbar(ctx module.Context, hooks *module.Interceptor) (*module.Module, error) {
	return module.New(module.Info{
		ID:          StatusbarID,
		Name:        "Status bar",
		Description: "Shows file, line ending and encoding of the current buffer",
		CanDisable:  true,
	}, ctx, hooks, &Statusbar{})
}

// Text returns the status line, or "" while unloaded.
func (s *Statusbar) Text() string { return s.text }

func (s *Statusbar) Load(m *module.Module) error {
	s.update(m.Context())
	return nil
}

func (s *Statusbar) Unload(*module.Module) error {
	s.text = ""
	return nil
}

func (s *Statusbar) Refresh(m *module.Module) error {
	if m.Context().Events().Last().In(statusEvents...) {
		s.update(m.Context())
	}
	return nil
}

func (s *Statusbar) update(ctx module.Context) {
	b := ctx.Buffers().Current()
	if b == nil {
		s.text = ""
		return
	}

	parts := []string{detailedName(b), "LF"}
	if v, ok := ctx.View(ctx.Buffers().CurrentHandle()); ok {
		if ev, ok := v.(*EditView); ok && ev.EOL == EOLWindows {
			parts[1] = "CR LF"
		}
	}
	if enc := b.Encoding(); enc != buffer.EncodingRaw {
		parts = append(parts, strings.ToUpper(strings.ReplaceAll(string(enc), "_", "-")))
	}
	s.text = strings.Join(parts, " | ")
}

// detailedName is the buffer name for unlinked buffers and
// "<parent>/<base>" for linked ones.
func detailedName(b *buffer.Buffer) string {
	if !b.Linked() {
		return b.Name()
	}
	base := filepath.Base(b.File())
	parent := filepath.Base(filepath.Dir(b.File()))
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return parent + "/" + base
}
