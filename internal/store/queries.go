package store

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/tetra/internal/errors"
)

// ModuleRow is a persisted module flag.
type ModuleRow struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

// SettingRow is a persisted setting value. ID is the qualified
// "<module>:<setting>" key.
type SettingRow struct {
	ID     string `json:"id"`
	Module string `json:"module"`
	Value  string `json:"value"`
}

// SettingKey returns the qualified settings.id for a module's setting.
func SettingKey(module, setting string) string {
	return module + ":" + setting
}

// SplitSettingKey is the inverse of SettingKey.
func SplitSettingKey(key string) (module, setting string, ok bool) {
	return strings.Cut(key, ":")
}

// RegisterModule inserts a module row unless one already exists.
func RegisterModule(db *sql.DB, id string, enabled bool) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO modules (id, enabled) VALUES (?, ?)`, id, boolToInt(enabled))
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetModuleEnabled returns the persisted enabled flag of a module.
func GetModuleEnabled(db *sql.DB, id string) (bool, error) {
	var enabled int
	err := db.QueryRow(`SELECT enabled FROM modules WHERE id = ?`, id).Scan(&enabled)
	if err == sql.ErrNoRows {
		return false, errors.NewNotFound("module", id)
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return enabled != 0, nil
}

// SetModuleEnabled updates the enabled flag of a registered module.
func SetModuleEnabled(db *sql.DB, id string, enabled bool) error {
	result, err := db.Exec(`UPDATE modules SET enabled = ? WHERE id = ?`, boolToInt(enabled), id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("module", id)
	}
	return nil
}

// ListModules returns every module row ordered by id.
func ListModules(db *sql.DB) ([]ModuleRow, error) {
	rows, err := db.Query(`SELECT id, enabled FROM modules ORDER BY id`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []ModuleRow
	for rows.Next() {
		var (
			r       ModuleRow
			enabled int
		)
		if err := rows.Scan(&r.ID, &enabled); err != nil {
			return nil, errors.NewInternal(err)
		}
		r.Enabled = enabled != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// RegisterSetting inserts a setting's default value unless a row already exists.
func RegisterSetting(db *sql.DB, module, setting, value string) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO settings (id, module, value) VALUES (?, ?, ?)`,
		SettingKey(module, setting), module, value)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetSettingValues returns the stored values of a module's settings keyed by
// the unqualified setting id.
func GetSettingValues(db *sql.DB, module string) (map[string]string, error) {
	rows, err := db.Query(`SELECT id, value FROM settings WHERE module = ?`, module)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.NewInternal(err)
		}
		if _, id, ok := SplitSettingKey(key); ok {
			values[id] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return values, nil
}

// SaveSettings upserts the given values of one module atomically.
func SaveSettings(db *sql.DB, module string, values map[string]string) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (id, module, value) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()

	for id, value := range values {
		if _, err := stmt.Exec(SettingKey(module, id), module, value); err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListSettings returns every stored setting ordered by qualified id.
func ListSettings(db *sql.DB) ([]SettingRow, error) {
	rows, err := db.Query(`SELECT id, module, value FROM settings ORDER BY id`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []SettingRow
	for rows.Next() {
		var r SettingRow
		if err := rows.Scan(&r.ID, &r.Module, &r.Value); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
