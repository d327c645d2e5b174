package modules

import (
	"database/sql"
	"path/filepath"

	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/module"
	"github.com/hpungsan/tetra/internal/persist"
	"github.com/hpungsan/tetra/internal/store"
)

// Database owns the settings store. While loaded, its observer persists the
// enabled flag and settings of every module constructed after it.
type Database struct {
	baseDir string
	cfg     *config.Config
	db      *sql.DB
}

// NewDatabase returns the constructor of a database module storing its file
// in baseDir.
func NewDatabase(baseDir string, cfg *config.Config) module.Constructor {
	return func(ctx module.Context, hooks *module.Interceptor) (*module.Module, error) {
		return module.New(module.Info{
			ID:          DatabaseID,
			Name:        "Database",
			Description: "Keeps module state and settings across sessions",
			CanDisable:  false,
		}, ctx, hooks, &Database{baseDir: baseDir, cfg: cfg})
	}
}

// DB returns the open settings database, or nil when unloaded.
func (d *Database) DB() *sql.DB { return d.db }

func (d *Database) Load(m *module.Module) error {
	db, err := store.Init(d.baseDir)
	if err != nil {
		return err
	}
	store.ConfigurePool(db, d.cfg)

	if err := m.Hooks().Install(persist.NewObserver(db, m.Logger())); err != nil {
		db.Close()
		return err
	}
	d.db = db

	m.Logger().WithField("path", filepath.Join(d.baseDir, store.FileName)).Debug("settings store opened")
	return nil
}

func (d *Database) Unload(m *module.Module) error {
	if err := m.Hooks().Remove(); err != nil {
		return err
	}
	db := d.db
	d.db = nil
	if db == nil {
		return nil
	}
	return db.Close()
}

func (d *Database) Refresh(*module.Module) error { return nil }
