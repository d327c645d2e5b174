package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/tetra/internal/buffer"
	"github.com/hpungsan/tetra/internal/editor"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/ops"
	"github.com/hpungsan/tetra/internal/store"
)

// MaxWriteBytes caps the text accepted on stdin by the write command.
const MaxWriteBytes = 10 << 20

// newCLIApp creates the CLI application with all commands.
func newCLIApp(ed *editor.Editor, log *logrus.Logger) *cli.App {
	app := &cli.App{
		Name:    "tetra",
		Usage:   "Modular text editor core",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug|info|warn|error (overrides config)"},
		},
		Before: func(c *cli.Context) error {
			level := c.String("log-level")
			if level == "" || log == nil {
				return nil
			}
			lvl, err := logrus.ParseLevel(level)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			log.SetLevel(lvl)
			return nil
		},
		Commands: []*cli.Command{
			openCmd(ed),
			writeCmd(ed),
			modulesCmd(ed),
			enableCmd(ed),
			disableCmd(ed),
			setCmd(ed),
			exportCmd(ed),
			importCmd(ed),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// bufferOutput is the JSON form of a buffer with its text.
type bufferOutput struct {
	editor.BufferInfo
	Text string `json:"text"`
}

// saveOutput is the JSON form of a save result.
type saveOutput struct {
	Status string            `json:"status"`
	Buffer editor.BufferInfo `json:"buffer"`
}

// openCmd creates the open command.
func openCmd(ed *editor.Editor) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open a file and print its buffer",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one path is required"))
			}

			h, err := ed.OpenPath(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			b, err := ed.Buffer(h)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(bufferOutput{BufferInfo: currentInfo(ed), Text: b.Text()})
		},
	}
}

// writeCmd creates the write command.
func writeCmd(ed *editor.Editor) *cli.Command {
	return &cli.Command{
		Name:      "write",
		Usage:     "Write stdin to a file through an editor buffer, keeping its encoding",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one path is required"))
			}
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("text must be piped via stdin"))
			}
			text, err := readStdin(MaxWriteBytes)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			path := c.Args().First()
			var status buffer.SaveStatus
			if _, statErr := os.Stat(path); statErr == nil {
				h, err := ed.OpenPath(path)
				if err != nil {
					return outputError(err)
				}
				if err := ed.SetText(h, text); err != nil {
					return outputError(err)
				}
				status, err = ed.SaveBuffer(h)
				if err != nil {
					return outputError(err)
				}
			} else {
				h, _ := ed.CurrentBuffer()
				if err := ed.SetText(h, text); err != nil {
					return outputError(err)
				}
				status, err = ed.SaveBufferAs(h, path)
				if err != nil {
					return outputError(err)
				}
			}

			return outputJSON(saveOutput{Status: status.String(), Buffer: currentInfo(ed)})
		},
	}
}

// modulesCmd creates the modules command.
func modulesCmd(ed *editor.Editor) *cli.Command {
	return &cli.Command{
		Name:  "modules",
		Usage: "List modules with their state and settings",
		Action: func(c *cli.Context) error {
			return outputJSON(ed.ListModules())
		},
	}
}

// enableCmd creates the enable command.
func enableCmd(ed *editor.Editor) *cli.Command {
	return &cli.Command{
		Name:      "enable",
		Usage:     "Enable a module",
		ArgsUsage: "<module>",
		Action: func(c *cli.Context) error {
			return toggleModule(c, ed, ed.EnableModule)
		},
	}
}

// disableCmd creates the disable command.
func disableCmd(ed *editor.Editor) *cli.Command {
	return &cli.Command{
		Name:      "disable",
		Usage:     "Disable a module",
		ArgsUsage: "<module>",
		Action: func(c *cli.Context) error {
			return toggleModule(c, ed, ed.DisableModule)
		},
	}
}

func toggleModule(c *cli.Context, ed *editor.Editor, toggle func(string) error) error {
	if c.NArg() != 1 {
		return outputError(errors.NewInvalidRequest("exactly one module id is required"))
	}
	id := c.Args().First()
	if err := toggle(id); err != nil {
		return outputError(err)
	}
	m, err := ed.FindModule(id)
	if err != nil {
		return outputError(err)
	}
	return outputJSON(map[string]any{"id": m.ID(), "enabled": m.Enabled(), "loaded": m.Loaded()})
}

// setCmd creates the set command.
func setCmd(ed *editor.Editor) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set and save a module setting",
		ArgsUsage: "<module:setting> <value>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("usage: set <module:setting> <value>"))
			}
			key, value := c.Args().Get(0), c.Args().Get(1)
			moduleID, settingID, ok := store.SplitSettingKey(key)
			if !ok {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("key %q must be module:setting", key)))
			}

			if err := ed.SetSetting(moduleID, settingID, value); err != nil {
				return outputError(err)
			}
			if err := ed.SaveSettings(); err != nil {
				return outputError(err)
			}

			return outputJSON(ops.SettingValue{Key: key, Value: value})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(ed *editor.Editor) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export settings to a CSV file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.tetra/exports/<module>-<timestamp>.csv)"},
			&cli.StringFlag{Name: "module", Aliases: []string{"m"}, Usage: "Only export this module's settings"},
		},
		Action: func(c *cli.Context) error {
			output, err := ed.ExportSettings(c.Context, ops.ExportInput{
				Path:   c.String("path"),
				Module: c.String("module"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(ed *editor.Editor) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import settings from a CSV file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Value: "error", Usage: "Bad record handling: error|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ed.ImportSettings(ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

func currentInfo(ed *editor.Editor) editor.BufferInfo {
	for _, info := range ed.ListBuffers() {
		if info.Current {
			return info
		}
	}
	return editor.BufferInfo{}
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var tErr *errors.TetraError
	if stderrors.As(err, &tErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", tErr.Code, tErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all of stdin, failing if it holds more than limit bytes.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	return string(data), nil
}
