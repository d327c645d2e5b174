// Package persist keeps module state in the settings store. Its Observer is
// installed into a host's module.Interceptor so that every module
// constructed afterwards restores its enabled flag and setting values, and
// every enable/disable and settings save is written back.
package persist

import (
	"database/sql"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/tetra/internal/module"
	"github.com/hpungsan/tetra/internal/store"
)

// Observer implements module.Observer over a settings database.
type Observer struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// NewObserver creates an observer writing to db. A nil logger discards.
func NewObserver(db *sql.DB, log logrus.FieldLogger) *Observer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Observer{db: db, log: log}
}

// Constructed registers the module and its default setting values if they
// are not stored yet, then overwrites the live state with the stored one.
func (o *Observer) Constructed(m *module.Module) error {
	if err := store.RegisterModule(o.db, m.ID(), m.Enabled()); err != nil {
		return err
	}
	for _, s := range m.Defaults().All() {
		if err := store.RegisterSetting(o.db, m.ID(), s.ID, s.Default); err != nil {
			return err
		}
	}

	enabled, err := store.GetModuleEnabled(o.db, m.ID())
	if err != nil {
		return err
	}
	values, err := store.GetSettingValues(o.db, m.ID())
	if err != nil {
		return err
	}

	if err := m.Restore(enabled, values); err != nil {
		o.log.WithField("module", m.ID()).WithError(err).Warn("ignoring invalid stored setting values")
	}
	return nil
}

// EnabledChanged stores the module's enabled flag.
func (o *Observer) EnabledChanged(m *module.Module) error {
	return store.SetModuleEnabled(o.db, m.ID(), m.Enabled())
}

// Saved stores every live setting value of the module.
func (o *Observer) Saved(m *module.Module) error {
	values := make(map[string]string, m.Settings().Len())
	for _, s := range m.Settings().All() {
		values[s.ID] = s.Value
	}
	if err := store.SaveSettings(o.db, m.ID(), values); err != nil {
		return err
	}
	o.log.WithField("module", m.ID()).WithField("count", len(values)).Debug("settings saved")
	return nil
}
