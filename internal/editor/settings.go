package editor

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/ops"
	"github.com/hpungsan/tetra/internal/setting"
)

// settingsStore is implemented by the feature of the module holding the
// settings database.
type settingsStore interface {
	DB() *sql.DB
}

// SaveSettings asks every module to persist its settings, then raises
// SettingsSaved.
func (e *Editor) SaveSettings() error {
	var errs []error
	for _, m := range e.modules {
		if err := m.SaveSettings(); err != nil {
			e.log.WithField("module", m.ID()).WithError(err).Error("saving settings failed")
			errs = append(errs, err)
		}
	}
	if err := stderrors.Join(errs...); err != nil {
		return err
	}
	e.RaiseEvent(event.SettingsSaved)
	return nil
}

// SetSetting validates and assigns a live setting value, then raises
// SettingChanged. The value is persisted by the next SaveSettings.
func (e *Editor) SetSetting(moduleID, settingID, value string) error {
	m, err := e.FindModule(moduleID)
	if err != nil {
		return err
	}
	if err := m.SetSetting(settingID, value); err != nil {
		return err
	}
	e.RaiseEvent(event.SettingChanged)
	return nil
}

// ResetSetting restores a live setting to its declared default and raises
// SettingChanged.
func (e *Editor) ResetSetting(moduleID, settingID string) error {
	m, err := e.FindModule(moduleID)
	if err != nil {
		return err
	}
	s, err := m.Setting(settingID)
	if err != nil {
		return err
	}
	s.Reset()
	e.RaiseEvent(event.SettingChanged)
	return nil
}

// ExportSettings saves the live settings and writes the store to a CSV file.
func (e *Editor) ExportSettings(ctx context.Context, input ops.ExportInput) (*ops.ExportOutput, error) {
	db, err := e.settingsDB()
	if err != nil {
		return nil, err
	}
	if err := e.SaveSettings(); err != nil {
		return nil, err
	}
	return ops.ExportSettings(ctx, db, e.cfg, input)
}

// ImportSettings applies a settings CSV file to the live modules and saves
// them. In error mode nothing is applied if any record is malformed, names
// an unknown setting or carries an invalid value.
func (e *Editor) ImportSettings(input ops.ImportInput) (*ops.ImportOutput, error) {
	input, err := ops.NormalizeImportInput(input)
	if err != nil {
		return nil, err
	}
	records, bad, err := ops.ReadSettings(e.cfg, input.Path)
	if err != nil {
		return nil, err
	}

	type assignment struct {
		s     *setting.Setting
		value string
	}
	var pending []assignment
	for _, r := range records {
		moduleID, settingID, _ := r.Split()
		s, err := e.lookupSetting(moduleID, settingID)
		if err == nil {
			err = s.Validate(r.Value)
		}
		if err != nil {
			bad = append(bad, ops.ImportError{
				Line:    r.Line,
				Key:     r.Key,
				Code:    errorCode(err),
				Message: err.Error(),
			})
			continue
		}
		pending = append(pending, assignment{s: s, value: r.Value})
	}

	if input.Mode == ops.ImportModeError && len(bad) > 0 {
		return &ops.ImportOutput{Errors: bad}, nil
	}

	for _, a := range pending {
		if err := a.s.Set(a.value); err != nil {
			return nil, errors.NewInternal(err)
		}
	}
	out := &ops.ImportOutput{
		Imported: len(pending),
		Skipped:  len(bad),
		Errors:   bad,
	}
	e.log.WithField("path", input.Path).WithField("imported", out.Imported).Info("settings imported")

	if err := e.SaveSettings(); err != nil {
		return out, err
	}
	return out, nil
}

func (e *Editor) lookupSetting(moduleID, settingID string) (*setting.Setting, error) {
	m, err := e.FindModule(moduleID)
	if err != nil {
		return nil, err
	}
	return m.Setting(settingID)
}

// settingsDB returns the database of the loaded settings store module.
func (e *Editor) settingsDB() (*sql.DB, error) {
	for _, m := range e.modules {
		if s, ok := m.Feature().(settingsStore); ok && m.Loaded() && s.DB() != nil {
			return s.DB(), nil
		}
	}
	return nil, errors.NewInvalidRequest("no settings store is loaded")
}

func errorCode(err error) string {
	var tErr *errors.TetraError
	if stderrors.As(err, &tErr) {
		return string(tErr.Code)
	}
	return string(errors.ErrInternal)
}
