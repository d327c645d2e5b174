// Package module implements the lifecycle of editor modules: construction,
// enable/disable, load/unload and event-driven refresh, with a single
// host-wide Observer that sees every lifecycle step.
//
// A module's invariants:
//
//   - a module that cannot be disabled is always enabled;
//   - disabling unloads, enabling loads;
//   - Load and Unload are idempotent.
package module

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/setting"
)

// Info is the static description of a module.
type Info struct {
	ID          string
	Name        string
	Description string
	CanDisable  bool
	// Settings are the declared defaults. Each module instance works on a
	// deep copy.
	Settings *setting.Set
}

// Feature is the module-specific behavior plugged into the lifecycle.
type Feature interface {
	Load(m *Module) error
	Unload(m *Module) error
	// Refresh reacts to the last event of the host's log.
	Refresh(m *Module) error
}

// Module is a lifecycle-managed unit of editor functionality.
type Module struct {
	info     Info
	ctx      Context
	hooks    *Interceptor
	feature  Feature
	enabled  bool
	loaded   bool
	settings *setting.Set
}

// New constructs a module. It starts enabled and unloaded with a copy of the
// declared settings; the installed observer may then override both.
func New(info Info, ctx Context, hooks *Interceptor, feature Feature) (*Module, error) {
	if info.ID == "" {
		return nil, errors.NewInvalidRequest("module id is required")
	}

	hooks.begin()
	defer hooks.end()

	m := &Module{
		info:     info,
		ctx:      ctx,
		hooks:    hooks,
		feature:  feature,
		enabled:  true,
		settings: info.Settings.Clone(),
	}

	if err := hooks.current().Constructed(m); err != nil {
		return nil, fmt.Errorf("construct module %s: %w", info.ID, err)
	}
	if !info.CanDisable {
		m.enabled = true
	}
	return m, nil
}

func (m *Module) ID() string          { return m.info.ID }
func (m *Module) Name() string        { return m.info.Name }
func (m *Module) Description() string { return m.info.Description }
func (m *Module) CanDisable() bool    { return m.info.CanDisable }
func (m *Module) Enabled() bool       { return m.enabled }
func (m *Module) Loaded() bool        { return m.loaded }

// Settings returns the live settings.
func (m *Module) Settings() *setting.Set { return m.settings }

// Defaults returns the declared default settings.
func (m *Module) Defaults() *setting.Set { return m.info.Settings }

func (m *Module) Context() Context { return m.ctx }

// Logger returns the host logger tagged with the module id.
func (m *Module) Logger() logrus.FieldLogger {
	if m.ctx == nil {
		return discard.WithField("module", m.info.ID)
	}
	return m.ctx.Logger().WithField("module", m.info.ID)
}

// Hooks returns the interceptor this module reports to.
func (m *Module) Hooks() *Interceptor { return m.hooks }

func (m *Module) Feature() Feature { return m.feature }

// Setting looks up a live setting by id.
func (m *Module) Setting(id string) (*setting.Setting, error) {
	s, ok := m.settings.Get(id)
	if !ok {
		return nil, errors.NewNotFound("setting", m.info.ID+":"+id)
	}
	return s, nil
}

// SetSetting validates and assigns a live setting value.
func (m *Module) SetSetting(id, value string) error {
	s, err := m.Setting(id)
	if err != nil {
		return err
	}
	return s.Set(value)
}

// Restore overwrites the enabled flag and setting values without notifying
// the observer. It is meant for observers restoring persisted state during
// Constructed. Values for unknown settings are ignored; values that fail
// validation are skipped and reported together.
func (m *Module) Restore(enabled bool, values map[string]string) error {
	m.enabled = enabled || !m.info.CanDisable

	var errs []error
	for _, s := range m.settings.All() {
		v, ok := values[s.ID]
		if !ok {
			continue
		}
		if err := s.Set(v); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Enable sets the enabled flag, loads the module and notifies the observer.
func (m *Module) Enable() error {
	m.enabled = true
	if err := m.Load(); err != nil {
		return err
	}
	return m.hooks.current().EnabledChanged(m)
}

// Disable clears the enabled flag, unloads the module and notifies the
// observer. Modules that cannot be disabled are left untouched.
func (m *Module) Disable() error {
	if !m.info.CanDisable {
		return errors.NewCannotDisable(m.info.ID)
	}
	m.enabled = false
	if err := m.Unload(); err != nil {
		return err
	}
	return m.hooks.current().EnabledChanged(m)
}

// LoadIfEnabled loads the module only if it is enabled.
func (m *Module) LoadIfEnabled() error {
	if !m.enabled {
		return nil
	}
	return m.Load()
}

// Load installs the module's behavior. Loading a loaded module does nothing.
func (m *Module) Load() error {
	if m.loaded {
		return nil
	}
	if m.feature != nil {
		if err := m.feature.Load(m); err != nil {
			return fmt.Errorf("load module %s: %w", m.info.ID, err)
		}
	}
	m.loaded = true
	return nil
}

// Unload removes the module's behavior. Unloading an unloaded module does
// nothing.
func (m *Module) Unload() error {
	if !m.loaded {
		return nil
	}
	if m.feature != nil {
		if err := m.feature.Unload(m); err != nil {
			return fmt.Errorf("unload module %s: %w", m.info.ID, err)
		}
	}
	m.loaded = false
	return nil
}

// Refresh lets a loaded module react to the last event.
func (m *Module) Refresh() error {
	if !m.loaded || m.feature == nil {
		return nil
	}
	return m.feature.Refresh(m)
}

// SaveSettings hands the live settings to the observer for persistence.
func (m *Module) SaveSettings() error {
	return m.hooks.current().Saved(m)
}

// ResetSettings restores every live setting to its declared default.
func (m *Module) ResetSettings() {
	for _, s := range m.settings.All() {
		s.Reset()
	}
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
