// Package buffer implements the editor's text buffers and their
// synchronization with files on disk.
//
// A Buffer is an in-memory text snapshot optionally linked to one file. It
// tracks whether its text matches the file (synchronized) and the file's
// detected charset. Sync reconciles the two in either direction:
//
//	b.SetText("hello!")      // desynchronizes
//	err := b.Sync(ToFile)    // writes the text, synchronized again
//
// A Manager owns every buffer of an editor, keyed by an opaque Handle, and
// tracks which one is current.
package buffer
