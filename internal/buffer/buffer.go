package buffer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hpungsan/tetra/internal/errors"
)

// DefaultEmptyName is the display name of a buffer with no linked file.
const DefaultEmptyName = "Untitled"

// Direction selects which side of a sync is the source of truth.
type Direction int

const (
	// ToFile writes the buffer text into the linked file.
	ToFile Direction = iota
	// FromFile replaces the buffer text with the linked file's content.
	FromFile
)

func (d Direction) String() string {
	if d == FromFile {
		return "from_file"
	}
	return "to_file"
}

// Options configures a new Buffer.
type Options struct {
	// EmptyName is the name shown while no file is linked (default DefaultEmptyName)
	EmptyName string

	// File links the buffer to an existing file whose content is loaded
	File string

	// Text is the initial text of an unlinked buffer
	Text string
}

// Buffer is an in-memory text snapshot optionally linked to a file.
type Buffer struct {
	emptyName    string
	file         string
	encoding     Encoding
	text         string
	synchronized bool
	name         string
}

// New creates a buffer. With opts.File set, the file's encoding is detected
// and its content loaded; the buffer starts synchronized.
func New(opts Options) (*Buffer, error) {
	b := &Buffer{
		emptyName: opts.EmptyName,
		text:      opts.Text,
	}
	if b.emptyName == "" {
		b.emptyName = DefaultEmptyName
	}
	b.RefreshName()

	if opts.File != "" {
		b.file = opts.File
		if _, err := b.DetermineEncoding(); err != nil {
			return nil, err
		}
		if err := b.Sync(FromFile); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(name=%q, synchronized=%t)", b.name, b.synchronized)
}

func (b *Buffer) Text() string { return b.text }

// File returns the linked file path, or "" when unlinked.
func (b *Buffer) File() string { return b.file }

// Encoding returns the detected charset of the linked file.
func (b *Buffer) Encoding() Encoding { return b.encoding }

func (b *Buffer) Synchronized() bool { return b.synchronized }

func (b *Buffer) Name() string { return b.name }

// Linked reports whether a file is linked.
func (b *Buffer) Linked() bool { return b.file != "" }

// IsEmpty reports whether the buffer has no linked file and no text.
func (b *Buffer) IsEmpty() bool {
	return b.file == "" && b.text == ""
}

// FileType classifies the linked file by extension.
func (b *Buffer) FileType() FileType {
	if b.file == "" {
		return FileTypeUnknown
	}
	return FileTypeFromPath(b.file)
}

// SetText replaces the text. The buffer is no longer synchronized.
func (b *Buffer) SetText(text string) {
	b.text = text
	b.desync()
}

// SetSyncFile links the buffer to path, creating an empty file if it does
// not exist, then detects its encoding. Detection failures are not errors;
// they leave the buffer in raw-bytes mode. The name is refreshed by the next
// Sync or an explicit RefreshName.
func (b *Buffer) SetSyncFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	b.file = path
	b.encoding = EncodingRaw
	_, _ = b.DetermineEncoding()
	return nil
}

// SaveAs links the buffer to path and writes the text there. If the write
// fails the previous link and encoding are restored, and a file created by
// the link is removed.
func (b *Buffer) SaveAs(path string) error {
	prevFile, prevEncoding := b.file, b.encoding
	_, statErr := os.Stat(path)
	created := os.IsNotExist(statErr)

	if err := b.SetSyncFile(path); err != nil {
		return err
	}
	if err := b.Sync(ToFile); err != nil {
		b.file, b.encoding = prevFile, prevEncoding
		if created {
			_ = os.Remove(path)
		}
		return err
	}
	return nil
}

// DetermineEncoding detects the charset of the linked file and records it.
// When the content cannot be guessed the raw-bytes fallback is recorded and
// returned without error.
func (b *Buffer) DetermineEncoding() (Encoding, error) {
	if b.file == "" {
		return EncodingRaw, errors.NewNoSyncFile(b.name)
	}

	content, err := os.ReadFile(b.file)
	if err != nil {
		return EncodingRaw, err
	}

	enc, err := DetectEncoding(b.file, content)
	if err != nil {
		enc = EncodingRaw
	}
	b.encoding = enc
	return enc, nil
}

// Sync reconciles the buffer with its linked file in the given direction and
// refreshes the name. I/O errors are returned as-is; on error the buffer
// state is unchanged.
func (b *Buffer) Sync(dir Direction) error {
	if b.file == "" {
		return errors.NewNoSyncFile(b.name)
	}

	switch dir {
	case ToFile:
		if err := b.writeFile(); err != nil {
			return err
		}
		if b.encoding == EncodingASCII && !isASCII([]byte(b.text)) {
			b.encoding = EncodingUTF8
		}
		b.synchronized = true
	case FromFile:
		text, err := b.readFile()
		if err != nil {
			return err
		}
		b.text = text
		b.markSynced()
	default:
		return errors.NewInvalidRequest(fmt.Sprintf("unknown sync direction %d", dir))
	}

	b.RefreshName()
	return nil
}

// RefreshName recomputes the display name from the linked file.
func (b *Buffer) RefreshName() {
	if b.file == "" {
		b.name = b.emptyName
		return
	}
	b.name = filepath.Base(b.file)
}

// markSynced flags the buffer as matching its file without touching the
// disk. Only the sync engine itself and initial-load bookkeeping use it.
func (b *Buffer) markSynced() {
	b.synchronized = true
}

func (b *Buffer) desync() {
	b.synchronized = false
}

// writeFile encodes the text before truncating so an unencodable text never
// clobbers the file.
func (b *Buffer) writeFile() (err error) {
	data, err := b.encoding.encode(b.text)
	if err != nil {
		return fmt.Errorf("encode %s: %w", b.encoding, err)
	}

	f, err := os.OpenFile(b.file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = f.Write(data)
	return err
}

func (b *Buffer) readFile() (string, error) {
	f, err := os.Open(b.file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return b.encoding.decode(data)
}
