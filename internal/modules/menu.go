package modules

import "github.com/hpungsan/tetra/internal/module"

type menuEntry struct {
	name, title, shortcut string
	run                   func(a module.Actions) error
}

var menuEntries = []menuEntry{
	{"new", "New", "Ctrl+N", func(a module.Actions) error {
		a.CreateNewFile()
		return nil
	}},
	{"open", "Open...", "Ctrl+O", func(a module.Actions) error {
		return a.OpenFile()
	}},
	{"save", "Save", "Ctrl+S", func(a module.Actions) error {
		_, err := a.SaveFile()
		return err
	}},
	{"save_as", "Save as...", "Ctrl+Shift+S", func(a module.Actions) error {
		_, err := a.SaveFileAs()
		return err
	}},
	{"settings", "Settings", "Ctrl+,", func(a module.Actions) error {
		a.OpenSettings()
		return nil
	}},
	{"about", "About", "", func(a module.Actions) error {
		a.OpenAboutDialog()
		return nil
	}},
}

// Menu installs the file and help commands.
type Menu struct{}

func NewMenu(ctx module.Context, hooks *module.Interceptor) (*module.Module, error) {
	return module.New(module.Info{
		ID:          MenuID,
		Name:        "Menu",
		Description: "File and help commands",
		CanDisable:  false,
	}, ctx, hooks, &Menu{})
}

func (*Menu) Load(m *module.Module) error {
	ctx := m.Context()
	for i, entry := range menuEntries {
		run := entry.run
		err := ctx.Commands().Register(module.Command{
			Name:     entry.name,
			Title:    entry.title,
			Shortcut: entry.shortcut,
			Run:      func() error { return run(ctx.Actions()) },
		})
		if err != nil {
			for _, done := range menuEntries[:i] {
				ctx.Commands().Unregister(done.name)
			}
			return err
		}
	}
	return nil
}

func (*Menu) Unload(m *module.Module) error {
	for _, entry := range menuEntries {
		m.Context().Commands().Unregister(entry.name)
	}
	return nil
}

func (*Menu) Refresh(*module.Module) error { return nil }
