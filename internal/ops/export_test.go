package ops

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/store"
)

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := store.Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, store.SaveSettings(database, "edit_buffer", map[string]string{
		"eol_mode":  "crlf",
		"tab_width": "4",
	}))
	require.NoError(t, store.SaveSettings(database, "appearance", map[string]string{
		"theme_file": "/themes/dark;blue.qss",
	}))
	return database
}

func unsafeConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	return cfg
}

func TestExportSettings_HappyPath(t *testing.T) {
	database := seededDB(t)
	exportPath := filepath.Join(t.TempDir(), "settings.csv")

	out, err := ExportSettings(context.Background(), database, unsafeConfig(), ExportInput{Path: exportPath})
	require.NoError(t, err)
	assert.Equal(t, exportPath, out.Path)
	assert.Equal(t, 3, out.Count)
	assert.NotZero(t, out.ExportedAt)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t,
		"appearance:theme_file;\"/themes/dark;blue.qss\"\n"+
			"edit_buffer:eol_mode;crlf\n"+
			"edit_buffer:tab_width;4\n",
		string(data))

	info, err := os.Stat(exportPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestExportSettings_ModuleFilter(t *testing.T) {
	database := seededDB(t)
	exportPath := filepath.Join(t.TempDir(), "edit.csv")

	out, err := ExportSettings(context.Background(), database, unsafeConfig(), ExportInput{
		Path:   exportPath,
		Module: "edit_buffer",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "appearance")
}

func TestExportSettings_ReplacesExistingAndLeavesNoTemp(t *testing.T) {
	database := seededDB(t)
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "settings.csv")
	require.NoError(t, os.WriteFile(exportPath, []byte("old"), 0600))

	_, err := ExportSettings(context.Background(), database, unsafeConfig(), ExportInput{Path: exportPath})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"))
}

func TestExportSettings_Cancelled(t *testing.T) {
	database := seededDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exportPath := filepath.Join(t.TempDir(), "settings.csv")
	_, err := ExportSettings(ctx, database, unsafeConfig(), ExportInput{Path: exportPath})
	assert.True(t, errors.Is(err, errors.ErrCancelled))

	_, statErr := os.Stat(exportPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportSettings_PathRejected(t *testing.T) {
	database := seededDB(t)

	_, err := ExportSettings(context.Background(), database, unsafeConfig(), ExportInput{
		Path: filepath.Join(t.TempDir(), "settings.json"),
	})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestExportThenParse_RoundTrip(t *testing.T) {
	database := seededDB(t)
	exportPath := filepath.Join(t.TempDir(), "settings.csv")

	_, err := ExportSettings(context.Background(), database, unsafeConfig(), ExportInput{Path: exportPath})
	require.NoError(t, err)

	// Imports quote with '\'', so a '"'-quoted value containing the
	// separator splits into an extra field and is reported.
	records, bad, err := ReadSettings(unsafeConfig(), exportPath)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, SettingValue{Key: "edit_buffer:eol_mode", Value: "crlf"}, records[0].SettingValue)
	assert.Equal(t, SettingValue{Key: "edit_buffer:tab_width", Value: "4"}, records[1].SettingValue)
	require.Len(t, bad, 1)
	assert.Equal(t, 1, bad[0].Line)
}
