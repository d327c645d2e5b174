package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/modules"
	"github.com/hpungsan/tetra/internal/ops"
)

func newStoredEditor(t *testing.T) *Editor {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	return newTestEditor(t, Options{Config: cfg, Modules: modules.Registry(t.TempDir(), cfg)})
}

func settingValue(t *testing.T, e *Editor, moduleID, settingID string) string {
	t.Helper()
	m, err := e.FindModule(moduleID)
	require.NoError(t, err)
	s, err := m.Setting(settingID)
	require.NoError(t, err)
	return s.Value
}

func TestSetSetting(t *testing.T) {
	e := newStoredEditor(t)

	require.NoError(t, e.SetSetting(modules.EditBufferID, "tab_width", "8"))
	assert.Equal(t, event.SettingChanged, e.LastEvent())
	assert.Equal(t, "8", settingValue(t, e, modules.EditBufferID, "tab_width"))

	count := e.EventCount()
	err := e.SetSetting(modules.EditBufferID, "eol_mode", "cr")
	assert.True(t, errors.Is(err, errors.ErrInvalidSettingValue))
	assert.Equal(t, count, e.EventCount())

	err = e.SetSetting(modules.EditBufferID, "font", "mono")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	require.NoError(t, e.ResetSetting(modules.EditBufferID, "tab_width"))
	assert.Equal(t, "4", settingValue(t, e, modules.EditBufferID, "tab_width"))
}

func TestSaveSettings_RaisesSettingsSaved(t *testing.T) {
	e := newStoredEditor(t)
	require.NoError(t, e.SaveSettings())
	assert.Equal(t, event.SettingsSaved, e.LastEvent())
}

func TestExportSettings(t *testing.T) {
	e := newStoredEditor(t)
	require.NoError(t, e.SetSetting(modules.EditBufferID, "eol_mode", "crlf"))

	path := filepath.Join(t.TempDir(), "settings.csv")
	out, err := e.ExportSettings(context.Background(), ops.ExportInput{Path: path, Module: modules.EditBufferID})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, event.SettingsSaved, e.LastEvent())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "edit_buffer:eol_mode;crlf\nedit_buffer:tab_width;4\n", string(data))
}

func TestExportSettings_NoStore(t *testing.T) {
	e := newTestEditor(t, Options{})
	_, err := e.ExportSettings(context.Background(), ops.ExportInput{Path: filepath.Join(t.TempDir(), "x.csv")})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestImportSettings(t *testing.T) {
	e := newStoredEditor(t)
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"edit_buffer:tab_width;2\n"+
			"'preview:hard_wraps';'true'\n"), 0600))

	out, err := e.ImportSettings(ops.ImportInput{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Imported)
	assert.Empty(t, out.Errors)
	assert.Equal(t, event.SettingsSaved, e.LastEvent())
	assert.Equal(t, "2", settingValue(t, e, modules.EditBufferID, "tab_width"))
	assert.Equal(t, "true", settingValue(t, e, modules.PreviewID, "hard_wraps"))
}

func TestImportSettings_ErrorModeAppliesNothing(t *testing.T) {
	e := newStoredEditor(t)
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"edit_buffer:tab_width;2\n"+
			"edit_buffer:eol_mode;cr\n"+
			"ghost:setting;1\n"), 0600))
	count := e.EventCount()

	out, err := e.ImportSettings(ops.ImportInput{Path: path})
	require.NoError(t, err)
	assert.Zero(t, out.Imported)
	require.Len(t, out.Errors, 2)
	assert.Equal(t, 2, out.Errors[0].Line)
	assert.Equal(t, string(errors.ErrInvalidSettingValue), out.Errors[0].Code)
	assert.Equal(t, 3, out.Errors[1].Line)
	assert.Equal(t, string(errors.ErrNotFound), out.Errors[1].Code)

	assert.Equal(t, "4", settingValue(t, e, modules.EditBufferID, "tab_width"))
	assert.Equal(t, count, e.EventCount())
}

func TestImportSettings_SkipMode(t *testing.T) {
	e := newStoredEditor(t)
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"edit_buffer:tab_width;2\n"+
			"edit_buffer:tab_width;99\n"), 0600))

	out, err := e.ImportSettings(ops.ImportInput{Path: path, Mode: ops.ImportModeSkip})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Imported)
	assert.Equal(t, 1, out.Skipped)
	assert.Equal(t, "2", settingValue(t, e, modules.EditBufferID, "tab_width"))
}

func TestImportSettings_BadInput(t *testing.T) {
	e := newStoredEditor(t)

	_, err := e.ImportSettings(ops.ImportInput{})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = e.ImportSettings(ops.ImportInput{Path: filepath.Join(t.TempDir(), "missing.csv")})
	assert.True(t, errors.Is(err, errors.ErrFileNotFound))
}

func TestExportThenImport(t *testing.T) {
	e := newStoredEditor(t)
	require.NoError(t, e.SetSetting(modules.EditBufferID, "tab_width", "6"))

	path := filepath.Join(t.TempDir(), "roundtrip.csv")
	_, err := e.ExportSettings(context.Background(), ops.ExportInput{Path: path})
	require.NoError(t, err)

	require.NoError(t, e.SetSetting(modules.EditBufferID, "tab_width", "3"))
	out, err := e.ImportSettings(ops.ImportInput{Path: path})
	require.NoError(t, err)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "6", settingValue(t, e, modules.EditBufferID, "tab_width"))
}

func TestListModules(t *testing.T) {
	e := newStoredEditor(t)
	require.NoError(t, e.DisableModule(modules.PreviewID))

	infos := e.ListModules()
	require.Len(t, infos, 7)
	assert.Equal(t, modules.DatabaseID, infos[0].ID)
	assert.False(t, infos[0].CanDisable)

	var edit, preview ModuleInfo
	for _, info := range infos {
		switch info.ID {
		case modules.EditBufferID:
			edit = info
		case modules.PreviewID:
			preview = info
		}
	}
	require.Len(t, edit.Settings, 2)
	assert.Equal(t, "eol_mode", edit.Settings[0].ID)
	assert.Equal(t, []string{"lf", "crlf"}, edit.Settings[0].Choices)
	assert.False(t, preview.Enabled)
	assert.False(t, preview.Loaded)
}
