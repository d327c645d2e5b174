package editor

import "github.com/hpungsan/tetra/internal/setting"

// ModuleInfo describes one module and its live settings.
type ModuleInfo struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	CanDisable  bool          `json:"can_disable"`
	Enabled     bool          `json:"enabled"`
	Loaded      bool          `json:"loaded"`
	Settings    []SettingInfo `json:"settings,omitempty"`
}

// SettingInfo describes one live setting.
type SettingInfo struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Kind    setting.Kind `json:"kind"`
	Value   string       `json:"value"`
	Default string       `json:"default"`
	Choices []string     `json:"choices,omitempty"`
}

// ListModules describes the modules in registration order.
func (e *Editor) ListModules() []ModuleInfo {
	out := make([]ModuleInfo, 0, len(e.modules))
	for _, m := range e.modules {
		info := ModuleInfo{
			ID:          m.ID(),
			Name:        m.Name(),
			Description: m.Description(),
			CanDisable:  m.CanDisable(),
			Enabled:     m.Enabled(),
			Loaded:      m.Loaded(),
		}
		for _, s := range m.Settings().All() {
			info.Settings = append(info.Settings, SettingInfo{
				ID:      s.ID,
				Name:    s.DisplayName(),
				Kind:    s.Kind,
				Value:   s.Value,
				Default: s.Default,
				Choices: s.Choices,
			})
		}
		out = append(out, info)
	}
	return out
}
