package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/editor"
	"github.com/hpungsan/tetra/internal/mcp"
	"github.com/hpungsan/tetra/internal/modules"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"open": true, "write": true,
	"modules": true, "enable": true, "disable": true,
	"set": true, "export": true, "import": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	// Global flags come before the subcommand
	if strings.HasPrefix(arg, "--log-level") {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _____ _____ _____ ____      _
  |_   _| ____|_   _|  _ \    / \
    | | |  _|   | | | |_) |  / _ \
    | | | |___  | | |  _ <  / ___ \
    |_| |_____| |_| |_| \_\/_/   \_\

  Modular text editor core

  Usage: tetra <command> [options]
         tetra --help

  MCP server mode requires piped input.`)
}

// newLogger builds the process logger. Logs go to w (stderr in practice,
// since stdout carries command output and MCP traffic).
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	return log, nil
}

// openEditor builds an editor with the built-in modules over baseDir.
func openEditor(baseDir string, cfg *config.Config, log logrus.FieldLogger) (*editor.Editor, error) {
	return editor.New(editor.Options{
		Config:  cfg,
		Modules: modules.Registry(baseDir, cfg),
		Logger:  log,
	})
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before editor startup (no store needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	baseDir, err := config.BaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = baseDir
	}
	cfg, err := config.LoadWithRepo(baseDir, wd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log_level: %v\n", err)
		os.Exit(1)
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if !isCLIMode() && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'tetra --help' for usage.\n")
		os.Exit(1)
	}

	ed, err := openEditor(baseDir, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to start editor: %v\n", err)
		os.Exit(1)
	}

	if isCLIMode() {
		app := newCLIApp(ed, log)
		err = app.Run(os.Args)
	} else {
		for _, name := range mcp.ValidateDisabledTools(cfg.DisabledTools) {
			log.WithField("tool", name).Warn("unknown tool in disabled_tools")
		}
		for _, name := range mcp.ValidateDisabledTypes(cfg.DisabledTypes) {
			log.WithField("type", name).Warn("unknown type in disabled_types")
		}
		err = mcp.Run(ed, cfg, Version)
	}

	if closeErr := ed.Close(); closeErr != nil {
		log.WithError(closeErr).Error("shutdown failed")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
