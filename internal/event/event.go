// Package event defines the closed set of editor events and the append-only
// log the editor raises them into.
//
// Events carry no payload. A module that reacts to an event recovers the
// context it needs by querying the current editor state (current buffer,
// module settings) from inside its Refresh.
package event

// Event is a payload-free notification tag.
type Event uint8

// Editor events. None is the "no event yet" sentinel returned by an empty log.
const (
	None Event = iota
	NewBufferCreated
	FileSaved
	FileSavedAs
	FileOpened
	SettingsOpened
	AboutDialogOpened
	BufferTextChanged
	TabChanged
	TabClosed
	SettingsSaved
	SettingChanged
)

var names = [...]string{
	None:              "none",
	NewBufferCreated:  "new_buffer_created",
	FileSaved:         "file_saved",
	FileSavedAs:       "file_saved_as",
	FileOpened:        "file_opened",
	SettingsOpened:    "settings_opened",
	AboutDialogOpened: "about_dialog_opened",
	BufferTextChanged: "buffer_text_changed",
	TabChanged:        "tab_changed",
	TabClosed:         "tab_closed",
	SettingsSaved:     "settings_saved",
	SettingChanged:    "setting_changed",
}

var descriptions = [...]string{
	None:              "No event was raised yet",
	NewBufferCreated:  "New buffer was created",
	FileSaved:         "File was saved",
	FileSavedAs:       "File was saved as",
	FileOpened:        "File was opened",
	SettingsOpened:    "Settings window was opened",
	AboutDialogOpened: "About dialog was opened",
	BufferTextChanged: "Editing buffer text was changed",
	TabChanged:        "A tab was changed",
	TabClosed:         "Tab was closed",
	SettingsSaved:     "Settings were saved",
	SettingChanged:    "A setting was changed",
}

// String returns the snake_case name of the event.
func (e Event) String() string {
	if int(e) < len(names) {
		return names[e]
	}
	return "unknown"
}

// Describe returns a human-readable description of the event.
func Describe(e Event) string {
	if int(e) < len(descriptions) {
		return descriptions[e]
	}
	return "Unknown event"
}

// Valid reports whether e belongs to the closed event set (None excluded).
func (e Event) Valid() bool {
	return e > None && int(e) < len(names)
}

// In reports whether e is one of the given events.
func (e Event) In(set ...Event) bool {
	for _, s := range set {
		if e == s {
			return true
		}
	}
	return false
}
