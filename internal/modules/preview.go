package modules

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/module"
	"github.com/hpungsan/tetra/internal/setting"
)

var previewEvents = []event.Event{
	event.NewBufferCreated,
	event.FileOpened,
	event.FileSavedAs,
	event.BufferTextChanged,
	event.TabChanged,
	event.TabClosed,
}

// Preview renders the current buffer to HTML when it is a Markdown file.
type Preview struct {
	md   goldmark.Markdown
	html string
}

func NewPreview(ctx module.Context, hooks *module.Interceptor) (*module.Module, error) {
	return module.New(module.Info{
		ID:          PreviewID,
		Name:        "Markdown preview",
		Description: "Renders Markdown buffers to HTML",
		CanDisable:  true,
		Settings: setting.NewSet(
			setting.Bool("hard_wraps", "Hard wraps", "Render line breaks as <br>", false),
		),
	}, ctx, hooks, &Preview{})
}

// HTML returns the rendered preview, or "" when the current buffer is not
// Markdown.
func (p *Preview) HTML() string { return p.html }

func (p *Preview) Load(m *module.Module) error {
	p.configure(m)
	return p.render(m)
}

func (p *Preview) Unload(*module.Module) error {
	p.md = nil
	p.html = ""
	return nil
}

func (p *Preview) Refresh(m *module.Module) error {
	last := m.Context().Events().Last()
	if last == event.SettingsSaved {
		p.configure(m)
		return p.render(m)
	}
	if last.In(previewEvents...) {
		return p.render(m)
	}
	return nil
}

func (p *Preview) configure(m *module.Module) {
	var opts []goldmark.Option
	if s, err := m.Setting("hard_wraps"); err == nil && s.Bool() {
		opts = append(opts, goldmark.WithRendererOptions(html.WithHardWraps()))
	}
	p.md = goldmark.New(opts...)
}

func (p *Preview) render(m *module.Module) error {
	p.html = ""
	b := m.Context().Buffers().Current()
	if b == nil || b.FileType() != buffer.FileTypeMarkdown {
		return nil
	}

	var out bytes.Buffer
	if err := p.md.Convert([]byte(b.Text()), &out); err != nil {
		return err
	}
	p.html = out.String()
	return nil
}
