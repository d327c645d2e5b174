package modules

import (
	"errors"
	"os"

	"github.com/hpungsan/tetra/internal/event"
	"github.com/hpungsan/tetra/internal/module"
	"github.com/hpungsan/tetra/internal/setting"
)

// Appearance loads the stylesheet named by the theme_file setting.
type Appearance struct {
	theme string
	file  string
}

func NewAppearance(ctx module.Context, hooks *module.Interceptor) (*module.Module, error) {
	return module.New(module.Info{
		ID:          AppearanceID,
		Name:        "Appearance",
		Description: "Applies a stylesheet to the editor",
		CanDisable:  false,
		Settings: setting.NewSet(
			setting.File("theme_file", "Theme file", "Stylesheet applied to the editor", "", "qss"),
		),
	}, ctx, hooks, &Appearance{})
}

// Theme returns the loaded stylesheet text.
func (a *Appearance) Theme() string { return a.theme }

// ThemeFile returns the path the theme was loaded from.
func (a *Appearance) ThemeFile() string { return a.file }

func (a *Appearance) Load(m *module.Module) error {
	return a.apply(m)
}

func (a *Appearance) Unload(*module.Module) error {
	a.theme, a.file = "", ""
	return nil
}

// Refresh reloads the theme when saved settings name a different file.
func (a *Appearance) Refresh(m *module.Module) error {
	if m.Context().Events().Last() != event.SettingsSaved {
		return nil
	}
	s, err := m.Setting("theme_file")
	if err != nil {
		return err
	}
	if s.Value == a.file {
		return nil
	}
	return a.apply(m)
}

func (a *Appearance) apply(m *module.Module) error {
	s, err := m.Setting("theme_file")
	if err != nil {
		return err
	}

	a.theme, a.file = "", s.Value
	if s.Value == "" {
		return nil
	}

	data, err := os.ReadFile(s.Value)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.Logger().WithField("path", s.Value).Debug("theme file missing")
			return nil
		}
		return err
	}
	a.theme = string(data)
	m.Logger().WithField("path", s.Value).Info("theme loaded")
	return nil
}
