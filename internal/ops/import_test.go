package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/tetra/internal/errors"
)

func TestParseSettings(t *testing.T) {
	input := "edit_buffer:tab_width;8\r\n" +
		"\n" +
		"appearance:theme_file;'/themes/dark;blue.qss'\n" +
		"menu:greeting;'it''s\nmultiline'\n" +
		"statusbar:format;plain 'quote' inside\n"

	records, bad, err := ParseSettings(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, bad)
	require.Len(t, records, 4)

	assert.Equal(t, SettingValue{Key: "edit_buffer:tab_width", Value: "8"}, records[0].SettingValue)
	assert.Equal(t, 1, records[0].Line)

	assert.Equal(t, "/themes/dark;blue.qss", records[1].Value)
	assert.Equal(t, 3, records[1].Line)

	assert.Equal(t, "it's\nmultiline", records[2].Value)
	assert.Equal(t, 4, records[2].Line)

	assert.Equal(t, "plain 'quote' inside", records[3].Value)
	assert.Equal(t, 6, records[3].Line)

	module, setting, ok := records[0].Split()
	require.True(t, ok)
	assert.Equal(t, "edit_buffer", module)
	assert.Equal(t, "tab_width", setting)
}

func TestParseSettings_NoTrailingNewline(t *testing.T) {
	records, bad, err := ParseSettings(strings.NewReader("preview:hard_wraps;true"))
	require.NoError(t, err)
	assert.Empty(t, bad)
	require.Len(t, records, 1)
	assert.Equal(t, "true", records[0].Value)
}

func TestParseSettings_EmptyValue(t *testing.T) {
	records, _, err := ParseSettings(strings.NewReader("appearance:theme_file;\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Value)
}

func TestParseSettings_BadRecords(t *testing.T) {
	input := "only-one-field\n" +
		"nocolon;value\n" +
		":setting;value\n" +
		"a:b;c;d\n" +
		"good:one;1\n"

	records, bad, err := ParseSettings(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good:one", records[0].Key)

	require.Len(t, bad, 4)
	for i, e := range bad {
		assert.Equal(t, i+1, e.Line)
		assert.Equal(t, string(errors.ErrInvalidRequest), e.Code)
	}
	assert.Equal(t, "nocolon", bad[1].Key)
}

func TestParseSettings_UnterminatedQuote(t *testing.T) {
	_, _, err := ParseSettings(strings.NewReader("a:b;'never closed\n"))
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestParseSettings_TooLarge(t *testing.T) {
	big := strings.Repeat("x", MaxImportBytes+1)
	_, _, err := ParseSettings(strings.NewReader(big))
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestReadSettings_ValidatesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.txt")
	require.NoError(t, os.WriteFile(path, []byte("a:b;c\n"), 0600))

	_, _, err := ReadSettings(unsafeConfig(), path)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, _, err = ReadSettings(unsafeConfig(), filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.Is(err, errors.ErrFileNotFound))
}

func TestNormalizeImportInput(t *testing.T) {
	in, err := NormalizeImportInput(ImportInput{Path: "x.csv"})
	require.NoError(t, err)
	assert.Equal(t, ImportModeError, in.Mode)

	_, err = NormalizeImportInput(ImportInput{})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = NormalizeImportInput(ImportInput{Path: "x.csv", Mode: "rename"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
