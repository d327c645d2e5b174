// Package editor is the host of a tetra editor: it owns the event log, the
// buffers and the modules, and turns user actions into buffer mutations
// followed by exactly one event.
//
// Raising an event appends it to the log and synchronously refreshes every
// loaded module in registration order. Refreshes may raise further events;
// such nested dispatch is allowed and logged.
package editor

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/module"
)

// Picker chooses file paths for open and save-as. ok=false means the user
// made no selection.
type Picker interface {
	OpenPath() (path string, ok bool)
	SavePath() (path string, ok bool)
}

// CloseChoice is the answer to a "save changes?" prompt.
type CloseChoice int

const (
	ChoiceSave CloseChoice = iota
	ChoiceDiscard
	ChoiceCancel
)

// Prompter asks what to do with unsaved changes of a buffer being closed.
type Prompter interface {
	ConfirmClose(name string) CloseChoice
}

// Presenter shows the dialogs the core cannot render itself.
type Presenter interface {
	ShowSettings()
	ShowAbout(text string)
}

// AboutText is the body of the about dialog.
const AboutText = "Tetra: a small modular code editor."

// Options configures an Editor.
type Options struct {
	// Config supplies the empty buffer name and import/export path rules
	Config *config.Config

	// Modules is the static module table, constructed in order
	Modules []module.Entry

	Picker    Picker
	Prompter  Prompter
	Presenter Presenter

	// ViewFactory creates buffer views until a module installs its own
	ViewFactory module.ViewFactory

	Logger logrus.FieldLogger
}

// Editor is the coordination core.
type Editor struct {
	cfg       *config.Config
	events    *event.Log
	buffers   *buffer.Manager
	views     map[buffer.Handle]buffer.View
	modules   []*module.Module
	byID      map[string]*module.Module
	hooks     *module.Interceptor
	commands  *module.Commands
	picker    Picker
	prompter  Prompter
	presenter Presenter
	log       logrus.FieldLogger

	defaultViews module.ViewFactory
	viewFactory  module.ViewFactory

	dispatching int
	pushing     bool
	closed      bool
}

// New builds the modules in table order, loading each one right after it is
// constructed, then opens the initial empty buffer. A module that fails to
// construct or load aborts New and unloads whatever was loaded before it.
func New(opts Options) (*Editor, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	views := opts.ViewFactory
	if views == nil {
		views = func(buffer.Handle) buffer.View { return buffer.NewMemoryView() }
	}

	e := &Editor{
		cfg:          cfg,
		events:       event.NewLog(),
		buffers:      buffer.NewManager(cfg.EmptyBufferName),
		views:        make(map[buffer.Handle]buffer.View),
		byID:         make(map[string]*module.Module),
		hooks:        module.NewInterceptor(),
		commands:     module.NewCommands(),
		picker:       opts.Picker,
		prompter:     opts.Prompter,
		presenter:    opts.Presenter,
		log:          log,
		defaultViews: views,
		viewFactory:  views,
	}

	for _, entry := range opts.Modules {
		if err := e.addModule(entry); err != nil {
			_ = e.Close()
			return nil, err
		}
	}

	e.CreateNewFile()
	return e, nil
}

func (e *Editor) addModule(entry module.Entry) error {
	if _, dup := e.byID[entry.ID]; dup {
		return errors.NewInvalidRequest(fmt.Sprintf("module %q registered twice", entry.ID))
	}

	m, err := entry.New(e, e.hooks)
	if err != nil {
		return err
	}
	if m.ID() != entry.ID {
		return errors.NewInvalidRequest(fmt.Sprintf("module table entry %q built module %q", entry.ID, m.ID()))
	}

	e.modules = append(e.modules, m)
	e.byID[m.ID()] = m

	if err := m.LoadIfEnabled(); err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{
		"module":  m.ID(),
		"enabled": m.Enabled(),
		"loaded":  m.Loaded(),
	}).Debug("module ready")
	return nil
}

// Close unloads every module in reverse registration order. It is safe to
// call more than once.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	for i := len(e.modules) - 1; i >= 0; i-- {
		if err := e.modules[i].Unload(); err != nil {
			e.log.WithField("module", e.modules[i].ID()).WithError(err).Error("unload failed")
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// RaiseEvent appends ev to the log and refreshes every loaded module.
// Refresh errors are logged and do not stop the dispatch.
func (e *Editor) RaiseEvent(ev event.Event) {
	if e.dispatching > 0 {
		e.log.WithField("event", ev.String()).Warn("event raised during refresh")
	}
	e.events.Append(ev)

	e.dispatching++
	defer func() { e.dispatching-- }()

	for _, m := range e.modules {
		if !m.Loaded() {
			continue
		}
		if err := m.Refresh(); err != nil {
			e.log.WithFields(logrus.Fields{
				"module": m.ID(),
				"event":  ev.String(),
			}).WithError(err).Warn("refresh failed")
		}
	}
}

// LastEvent returns the most recent event, or event.None.
func (e *Editor) LastEvent() event.Event {
	return e.events.Last()
}

// EventCount returns the number of events raised so far.
func (e *Editor) EventCount() int {
	return e.events.Len()
}

// FindModule returns the module with the given id.
func (e *Editor) FindModule(id string) (*module.Module, error) {
	m, ok := e.byID[id]
	if !ok {
		return nil, errors.NewNotFound("module", id)
	}
	return m, nil
}

// Modules returns the modules in registration order.
func (e *Editor) Modules() []*module.Module {
	return append([]*module.Module(nil), e.modules...)
}

// EnableModule enables (and loads) a module.
func (e *Editor) EnableModule(id string) error {
	m, err := e.FindModule(id)
	if err != nil {
		return err
	}
	return m.Enable()
}

// DisableModule disables (and unloads) a module.
func (e *Editor) DisableModule(id string) error {
	m, err := e.FindModule(id)
	if err != nil {
		return err
	}
	return m.Disable()
}

// Execute runs a command installed in the command table.
func (e *Editor) Execute(name string) error {
	return e.commands.Execute(name)
}

// Config returns the editor configuration.
func (e *Editor) Config() *config.Config {
	return e.cfg
}

// module.Context

func (e *Editor) Events() event.Reader       { return e.events }
func (e *Editor) Buffers() *buffer.Manager   { return e.buffers }
func (e *Editor) Commands() *module.Commands { return e.commands }
func (e *Editor) Actions() module.Actions    { return e }
func (e *Editor) Logger() logrus.FieldLogger { return e.log }
func (e *Editor) Hooks() *module.Interceptor { return e.hooks }

func (e *Editor) Module(id string) (*module.Module, bool) {
	m, ok := e.byID[id]
	return m, ok
}

func (e *Editor) View(h buffer.Handle) (buffer.View, bool) {
	v, ok := e.views[h]
	return v, ok
}

func (e *Editor) SetViewFactory(f module.ViewFactory) {
	if f == nil {
		f = e.defaultViews
	}
	e.viewFactory = f
}

var _ module.Context = (*Editor)(nil)
