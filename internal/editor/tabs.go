package editor

import (
	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/event"
)

// BufferInfo describes one open buffer.
type BufferInfo struct {
	Handle       buffer.Handle   `json:"handle"`
	Name         string          `json:"name"`
	File         string          `json:"file,omitempty"`
	Encoding     string          `json:"encoding,omitempty"`
	FileType     buffer.FileType `json:"file_type"`
	Synchronized bool            `json:"synchronized"`
	Current      bool            `json:"current"`
}

// ListBuffers describes the open buffers in the order they were opened.
func (e *Editor) ListBuffers() []BufferInfo {
	current := e.buffers.CurrentHandle()
	var out []BufferInfo
	for _, h := range e.buffers.Handles() {
		b, _ := e.buffers.Get(h)
		info := BufferInfo{
			Handle:       h,
			Name:         b.Name(),
			File:         b.File(),
			FileType:     b.FileType(),
			Synchronized: b.Synchronized(),
			Current:      h == current,
		}
		if b.Linked() {
			info.Encoding = b.Encoding().String()
		}
		out = append(out, info)
	}
	return out
}

// Buffer returns the buffer under h.
func (e *Editor) Buffer(h buffer.Handle) (*buffer.Buffer, error) {
	return e.buffer(h)
}

// CurrentBuffer returns the current buffer and its handle.
func (e *Editor) CurrentBuffer() (buffer.Handle, *buffer.Buffer) {
	return e.buffers.CurrentHandle(), e.buffers.Current()
}

// SwitchBuffer makes h current and raises TabChanged.
func (e *Editor) SwitchBuffer(h buffer.Handle) error {
	if _, err := e.buffer(h); err != nil {
		return err
	}
	e.buffers.Switch(h)
	e.RaiseEvent(event.TabChanged)
	return nil
}

// CloseBuffer closes h and raises TabClosed. The last buffer is never
// closed. A buffer with unsaved changes is closed only if the prompter
// answers Discard, or Save and the save succeeds; without a prompter such
// buffers stay open. closed reports whether the buffer went away.
func (e *Editor) CloseBuffer(h buffer.Handle) (closed bool, err error) {
	return e.closeBuffer(h, func(name string) CloseChoice {
		if e.prompter == nil {
			return ChoiceCancel
		}
		return e.prompter.ConfirmClose(name)
	})
}

// CloseBufferWith closes h like CloseBuffer, answering a "save changes?"
// prompt with choice.
func (e *Editor) CloseBufferWith(h buffer.Handle, choice CloseChoice) (closed bool, err error) {
	return e.closeBuffer(h, func(string) CloseChoice { return choice })
}

func (e *Editor) closeBuffer(h buffer.Handle, confirm func(name string) CloseChoice) (bool, error) {
	b, err := e.buffer(h)
	if err != nil {
		return false, err
	}
	if e.buffers.Len() == 1 {
		return false, nil
	}

	if !b.IsEmpty() && !b.Synchronized() {
		switch confirm(b.Name()) {
		case ChoiceCancel:
			return false, nil
		case ChoiceSave:
			status, err := e.saveBuffer(h, false)
			if err != nil || status == buffer.Canceled {
				return false, err
			}
		}
	}

	if err := e.buffers.Remove(h, ""); err != nil {
		return false, err
	}
	delete(e.views, h)

	e.log.WithField("handle", h).Debug("buffer closed")
	e.RaiseEvent(event.TabClosed)
	return true, nil
}

// ParseCloseChoice maps "save", "discard" or "cancel" to a CloseChoice.
func ParseCloseChoice(s string) (CloseChoice, error) {
	switch s {
	case "save":
		return ChoiceSave, nil
	case "discard":
		return ChoiceDiscard, nil
	case "cancel", "":
		return ChoiceCancel, nil
	}
	return ChoiceCancel, errors.NewInvalidRequest("on_unsaved must be one of: save, discard, cancel")
}
