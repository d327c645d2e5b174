package editor

import (
	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/event"
)

// bindView creates the view of a new buffer, fills it with the buffer text
// and routes later view edits back through UpdateText.
func (e *Editor) bindView(h buffer.Handle, b *buffer.Buffer) {
	v := e.viewFactory(h)
	e.views[h] = v
	e.pushText(v, b.Text())

	v.OnTextChanged(func() {
		if e.pushing {
			return
		}
		if err := e.UpdateText(h); err != nil {
			e.log.WithField("handle", h).WithError(err).Warn("view edit dropped")
		}
	})
}

// pushText writes text into a view without it counting as a user edit.
func (e *Editor) pushText(v buffer.View, text string) {
	e.pushing = true
	defer func() { e.pushing = false }()
	v.SetText(text)
}

// UpdateText copies the view text of h into its buffer and raises
// BufferTextChanged.
func (e *Editor) UpdateText(h buffer.Handle) error {
	b, err := e.buffer(h)
	if err != nil {
		return err
	}
	v, ok := e.views[h]
	if !ok {
		return errors.NewNotFound("view", string(h))
	}

	b.SetText(v.Text())
	e.RaiseEvent(event.BufferTextChanged)
	return nil
}

// SetText replaces the text of h as if typed into its view.
func (e *Editor) SetText(h buffer.Handle, text string) error {
	b, err := e.buffer(h)
	if err != nil {
		return err
	}
	if v, ok := e.views[h]; ok {
		e.pushText(v, text)
	}

	b.SetText(text)
	e.RaiseEvent(event.BufferTextChanged)
	return nil
}
