// Package ops implements the file-facing settings operations: CSV export of
// the settings store and CSV import into a running editor.
package ops

import "github.com/hpungsan/tetra/internal/store"

// Field separator and quote characters of the settings CSV format. Exports
// quote with '"'; imports expect '\'' so files written by older versions of
// the settings dialog keep loading.
const (
	Separator   = ';'
	ExportQuote = '"'
	ImportQuote = '\''
)

// SettingValue is one "<module>:<setting>;<value>" record.
type SettingValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Split returns the module and setting ids of the record key.
func (v SettingValue) Split() (module, setting string, ok bool) {
	return store.SplitSettingKey(v.Key)
}
