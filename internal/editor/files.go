package editor

import (
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/event"
)

// CreateNewFile adds an empty buffer, makes it current and raises
// NewBufferCreated.
func (e *Editor) CreateNewFile() buffer.Handle {
	h := buffer.NewHandle()
	b := e.buffers.AddEmpty(h)
	e.bindView(h, b)
	e.RaiseEvent(event.NewBufferCreated)
	return h
}

// OpenFile asks the picker for a path and opens it. Without a selection
// nothing happens and no event is raised.
func (e *Editor) OpenFile() error {
	if e.picker == nil {
		return nil
	}
	path, ok := e.picker.OpenPath()
	if !ok || path == "" {
		return nil
	}
	_, err := e.OpenPath(path)
	return err
}

// OpenPath opens path into a new current buffer and raises FileOpened.
func (e *Editor) OpenPath(path string) (buffer.Handle, error) {
	h := buffer.NewHandle()
	b, err := e.buffers.Add(h, buffer.Options{File: path})
	if err != nil {
		return "", err
	}
	e.bindView(h, b)

	e.log.WithFields(logrus.Fields{
		"path":     path,
		"handle":   h,
		"encoding": b.Encoding().String(),
	}).Info("file opened")
	e.RaiseEvent(event.FileOpened)
	return h, nil
}

// SaveFile saves the current buffer. An unlinked buffer is saved through
// SaveFileAs instead.
func (e *Editor) SaveFile() (buffer.SaveStatus, error) {
	return e.saveBuffer(e.buffers.CurrentHandle(), true)
}

// SaveBuffer saves the buffer under h, raising FileSaved (or FileSavedAs
// when a path had to be picked).
func (e *Editor) SaveBuffer(h buffer.Handle) (buffer.SaveStatus, error) {
	return e.saveBuffer(h, true)
}

// SaveFileAs asks the picker for a path and saves the current buffer there.
func (e *Editor) SaveFileAs() (buffer.SaveStatus, error) {
	return e.saveBufferAs(e.buffers.CurrentHandle(), "", true)
}

// SaveFileAsPath saves the current buffer to path and links it there.
func (e *Editor) SaveFileAsPath(path string) (buffer.SaveStatus, error) {
	return e.SaveBufferAs(e.buffers.CurrentHandle(), path)
}

// SaveBufferAs saves the buffer under h to path and links it there.
func (e *Editor) SaveBufferAs(h buffer.Handle, path string) (buffer.SaveStatus, error) {
	if path == "" {
		return buffer.Canceled, errors.NewInvalidRequest("path is required")
	}
	return e.saveBufferAs(h, path, true)
}

func (e *Editor) saveBuffer(h buffer.Handle, raise bool) (buffer.SaveStatus, error) {
	b, err := e.buffer(h)
	if err != nil {
		return buffer.Canceled, err
	}
	if !b.Linked() {
		return e.saveBufferAs(h, "", raise)
	}

	if err := b.Sync(buffer.ToFile); err != nil {
		return buffer.Canceled, err
	}
	e.log.WithFields(logrus.Fields{"path": b.File(), "handle": h}).Info("file saved")

	if raise {
		e.RaiseEvent(event.FileSaved)
	}
	return buffer.Saved, nil
}

// saveBufferAs links h to path (picked when empty) and writes it.
func (e *Editor) saveBufferAs(h buffer.Handle, path string, raise bool) (buffer.SaveStatus, error) {
	b, err := e.buffer(h)
	if err != nil {
		return buffer.Canceled, err
	}

	if path == "" {
		if e.picker == nil {
			return buffer.Canceled, nil
		}
		var ok bool
		path, ok = e.picker.SavePath()
		if !ok || path == "" {
			return buffer.Canceled, nil
		}
	}

	if err := b.SaveAs(path); err != nil {
		return buffer.Canceled, err
	}
	e.log.WithFields(logrus.Fields{"path": path, "handle": h}).Info("file saved as")

	if raise {
		e.RaiseEvent(event.FileSavedAs)
	}
	return buffer.Saved, nil
}

// OpenSettings shows the settings dialog and raises SettingsOpened.
func (e *Editor) OpenSettings() {
	if e.presenter != nil {
		e.presenter.ShowSettings()
	}
	e.RaiseEvent(event.SettingsOpened)
}

// OpenAboutDialog shows the about dialog and raises AboutDialogOpened.
func (e *Editor) OpenAboutDialog() {
	if e.presenter != nil {
		e.presenter.ShowAbout(AboutText)
	}
	e.RaiseEvent(event.AboutDialogOpened)
}

func (e *Editor) buffer(h buffer.Handle) (*buffer.Buffer, error) {
	b, ok := e.buffers.Get(h)
	if !ok {
		return nil, errors.NewNotFound("buffer", string(h))
	}
	return b, nil
}
