// Package modules holds the editor's built-in modules and the static table
// that wires them into a host.
package modules

import (
	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/module"
)

// Module ids.
const (
	DatabaseID   = "database"
	AppearanceID = "appearance"
	EditBufferID = "edit_buffer"
	MenuID       = "menu"
	TabbarID     = "tabbar"
	StatusbarID  = "statusbar"
	PreviewID    = "preview"
)

// Registry returns the built-in module table. The database module comes
// first so that every module after it restores its persisted state.
func Registry(baseDir string, cfg *config.Config) []module.Entry {
	return []module.Entry{
		{ID: DatabaseID, New: NewDatabase(baseDir, cfg)},
		{ID: AppearanceID, New: NewAppearance},
		{ID: EditBufferID, New: NewEditBuffer},
		{ID: MenuID, New: NewMenu},
		{ID: TabbarID, New: NewTabbar},
		{ID: StatusbarID, New: NewStatusbar},
		{ID: PreviewID, New: NewPreview},
	}
}
