package module

import (
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/event"
)

// ViewFactory creates the presentation counterpart of a new buffer.
type ViewFactory func(h buffer.Handle) buffer.View

// Actions are the host operations a module may trigger (menu entries,
// shortcuts). Each raises its own event.
type Actions interface {
	CreateNewFile() buffer.Handle
	OpenFile() error
	SaveFile() (buffer.SaveStatus, error)
	SaveFileAs() (buffer.SaveStatus, error)
	OpenSettings()
	OpenAboutDialog()
}

// Context is everything a module may reach of its host.
type Context interface {
	Events() event.Reader
	Buffers() *buffer.Manager
	// View returns the view bound to a buffer handle.
	View(h buffer.Handle) (buffer.View, bool)
	Module(id string) (*Module, bool)
	Commands() *Commands
	Actions() Actions
	// SetViewFactory replaces the factory used for buffers created from now
	// on. A nil factory restores the default.
	SetViewFactory(f ViewFactory)
	Logger() logrus.FieldLogger
}
