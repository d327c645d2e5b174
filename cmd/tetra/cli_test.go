package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/editor"
	"github.com/hpungsan/tetra/internal/ops"
)

// setupTestEditor creates an editor with the built-in modules over a temp dir.
func setupTestEditor(t *testing.T) (*editor.Editor, string) {
	t.Helper()
	baseDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true

	log := logrus.New()
	log.SetOutput(io.Discard)

	ed, err := openEditor(baseDir, cfg, log)
	if err != nil {
		t.Fatalf("failed to start test editor: %v", err)
	}
	t.Cleanup(func() { ed.Close() })
	return ed, baseDir
}

// runCLI runs args against a fresh app and returns what it printed to stdout.
func runCLI(t *testing.T, ed *editor.Editor, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(ed, nil)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"tetra"}, args...))

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String(), err
}

// withStdin replaces os.Stdin with a pipe holding input for the test.
func withStdin(t *testing.T, input string) {
	t.Helper()
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	go func() {
		w.Write([]byte(input))
		w.Close()
	}()
	t.Cleanup(func() { os.Stdin = oldStdin })
}

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"tetra"}, false},
		{"open", []string{"tetra", "open", "a.txt"}, true},
		{"write", []string{"tetra", "write", "a.txt"}, true},
		{"modules", []string{"tetra", "modules"}, true},
		{"set", []string{"tetra", "set", "k", "v"}, true},
		{"log level flag", []string{"tetra", "--log-level=debug", "modules"}, true},
		{"help flag", []string{"tetra", "--help"}, true},
		{"version flag", []string{"tetra", "-v"}, true},
		{"unknown", []string{"tetra", "frobnicate"}, false},
	}

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			if got := isCLIMode(); got != tt.want {
				t.Errorf("isCLIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"tetra"}, false},
		{"help", []string{"tetra", "help"}, true},
		{"--help", []string{"tetra", "--help"}, true},
		{"-h", []string{"tetra", "-h"}, true},
		{"--version", []string{"tetra", "--version"}, true},
		{"command", []string{"tetra", "modules"}, false},
	}

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			if got := isHelpOrVersion(); got != tt.want {
				t.Errorf("isHelpOrVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadStdin(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		withStdin(t, "hello\n")
		got, err := readStdin(16)
		if err != nil {
			t.Fatalf("readStdin() error = %v", err)
		}
		if got != "hello\n" {
			t.Errorf("readStdin() = %q, want %q", got, "hello\n")
		}
	})

	t.Run("exactly at limit", func(t *testing.T) {
		withStdin(t, "12345")
		if _, err := readStdin(5); err != nil {
			t.Errorf("readStdin() error = %v", err)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		withStdin(t, "123456")
		if _, err := readStdin(5); err == nil {
			t.Error("readStdin() expected error for oversized input")
		}
	})
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("debug", io.Discard)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}

	log, err = newLogger("", io.Discard)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", log.GetLevel())
	}

	if _, err := newLogger("loud", io.Discard); err == nil {
		t.Error("newLogger() expected error for unknown level")
	}
}

func TestCLILogLevelFlag(t *testing.T) {
	ed, _ := setupTestEditor(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	app := newCLIApp(ed, log)
	oldStdout := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w
	err := app.Run([]string{"tetra", "--log-level=warn", "modules"})
	w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("app.Run() error = %v", err)
	}
	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", log.GetLevel())
	}
}

func TestCLIOpen(t *testing.T) {
	ed, _ := setupTestEditor(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("first line\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out, err := runCLI(t, ed, "open", path)
	if err != nil {
		t.Fatalf("open error = %v", err)
	}

	var got bufferOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	if got.Name != "notes.txt" {
		t.Errorf("Name = %q, want notes.txt", got.Name)
	}
	if got.Text != "first line\n" {
		t.Errorf("Text = %q, want %q", got.Text, "first line\n")
	}
	if !got.Current || !got.Synchronized {
		t.Errorf("buffer should be current and synchronized: %+v", got.BufferInfo)
	}
}

func TestCLIOpen_Errors(t *testing.T) {
	ed, _ := setupTestEditor(t)

	if _, err := runCLI(t, ed, "open"); err == nil || !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("open without path error = %v, want INVALID_REQUEST", err)
	}
	if _, err := runCLI(t, ed, "open", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("open of missing file should fail")
	}
}

func TestCLIWrite_NewFile(t *testing.T) {
	ed, _ := setupTestEditor(t)
	path := filepath.Join(t.TempDir(), "new.txt")
	withStdin(t, "fresh text\n")

	out, err := runCLI(t, ed, "write", path)
	if err != nil {
		t.Fatalf("write error = %v", err)
	}

	var got saveOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	if got.Status != "saved" {
		t.Errorf("Status = %q, want saved", got.Status)
	}
	if got.Buffer.File != path {
		t.Errorf("File = %q, want %q", got.Buffer.File, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "fresh text\n" {
		t.Errorf("file = %q, want %q", data, "fresh text\n")
	}
}

func TestCLIWrite_ExistingFile(t *testing.T) {
	ed, _ := setupTestEditor(t)
	path := filepath.Join(t.TempDir(), "old.txt")
	if err := os.WriteFile(path, []byte("old\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	withStdin(t, "replaced\n")

	if _, err := runCLI(t, ed, "write", path); err != nil {
		t.Fatalf("write error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "replaced\n" {
		t.Errorf("file = %q, want %q", data, "replaced\n")
	}
}

func TestCLIModules(t *testing.T) {
	ed, _ := setupTestEditor(t)

	out, err := runCLI(t, ed, "modules")
	if err != nil {
		t.Fatalf("modules error = %v", err)
	}

	var got []editor.ModuleInfo
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	if len(got) != len(ed.Modules()) {
		t.Fatalf("got %d modules, want %d", len(got), len(ed.Modules()))
	}
	if got[0].ID != "database" {
		t.Errorf("first module = %q, want database", got[0].ID)
	}
}

func TestCLIEnableDisable(t *testing.T) {
	ed, _ := setupTestEditor(t)

	out, err := runCLI(t, ed, "disable", "statusbar")
	if err != nil {
		t.Fatalf("disable error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	if got["enabled"] != false || got["loaded"] != false {
		t.Errorf("after disable = %v", got)
	}

	if _, err := runCLI(t, ed, "enable", "statusbar"); err != nil {
		t.Fatalf("enable error = %v", err)
	}
	m, _ := ed.FindModule("statusbar")
	if !m.Enabled() || !m.Loaded() {
		t.Error("statusbar should be enabled and loaded")
	}

	_, err = runCLI(t, ed, "disable", "database")
	if err == nil || !strings.Contains(err.Error(), "CANNOT_DISABLE") {
		t.Errorf("disable database error = %v, want CANNOT_DISABLE", err)
	}

	_, err = runCLI(t, ed, "enable", "nope")
	if err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("enable unknown error = %v, want NOT_FOUND", err)
	}
}

func TestCLISet(t *testing.T) {
	ed, _ := setupTestEditor(t)

	if _, err := runCLI(t, ed, "set", "edit_buffer:tab_width", "8"); err != nil {
		t.Fatalf("set error = %v", err)
	}
	m, _ := ed.FindModule("edit_buffer")
	s, err := m.Setting("tab_width")
	if err != nil {
		t.Fatalf("Setting() error = %v", err)
	}
	if s.Value != "8" {
		t.Errorf("tab_width = %q, want 8", s.Value)
	}

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing value", []string{"set", "edit_buffer:tab_width"}, "INVALID_REQUEST"},
		{"bad key", []string{"set", "tab_width", "8"}, "INVALID_REQUEST"},
		{"out of range", []string{"set", "edit_buffer:tab_width", "99"}, "INVALID_SETTING_VALUE"},
		{"unknown setting", []string{"set", "edit_buffer:nope", "1"}, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, ed, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCLIExportImport(t *testing.T) {
	ed, _ := setupTestEditor(t)
	exportPath := filepath.Join(t.TempDir(), "settings.csv")

	if _, err := runCLI(t, ed, "set", "edit_buffer:eol_mode", "crlf"); err != nil {
		t.Fatalf("set error = %v", err)
	}

	out, err := runCLI(t, ed, "export", "--path="+exportPath, "--module=edit_buffer")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	var exported ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &exported); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	if exported.Count != 2 {
		t.Errorf("Count = %d, want 2", exported.Count)
	}

	if _, err := runCLI(t, ed, "set", "edit_buffer:eol_mode", "lf"); err != nil {
		t.Fatalf("set error = %v", err)
	}

	out, err = runCLI(t, ed, "import", "--path="+exportPath)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	var imported ops.ImportOutput
	if err := json.Unmarshal([]byte(out), &imported); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	if imported.Imported != 2 {
		t.Errorf("Imported = %d, want 2", imported.Imported)
	}

	m, _ := ed.FindModule("edit_buffer")
	s, _ := m.Setting("eol_mode")
	if s.Value != "crlf" {
		t.Errorf("eol_mode = %q, want crlf", s.Value)
	}
}

func TestCLIImport_RequiresPath(t *testing.T) {
	ed, _ := setupTestEditor(t)
	if _, err := runCLI(t, ed, "import"); err == nil {
		t.Error("import without --path should fail")
	}
}
