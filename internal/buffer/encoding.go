package buffer

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/hpungsan/tetra/internal/errors"
)

// Encoding is a detected file charset. EncodingRaw means detection failed and
// the file is read and written as raw bytes.
type Encoding string

const (
	EncodingRaw     Encoding = ""
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF8BOM Encoding = "utf-8-bom"
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingUTF16BE Encoding = "utf-16be"
	EncodingLatin1  Encoding = "iso-8859-1"
	EncodingASCII   Encoding = "ascii"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// binarySample is how much of a file is inspected by isBinary.
const binarySample = 8192

// String returns the encoding name, or "unknown" for raw mode.
func (e Encoding) String() string {
	if e == EncodingRaw {
		return "unknown"
	}
	return string(e)
}

// DetectEncoding guesses the charset of content. BOM markers win, then UTF-8
// validity, then Latin-1 which accepts every byte. Content that looks binary
// cannot be guessed and yields an ENCODING_GUESS_FAILED error.
func DetectEncoding(path string, content []byte) (Encoding, error) {
	if len(content) == 0 {
		return EncodingUTF8, nil
	}

	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return EncodingUTF8BOM, nil
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE, nil
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE, nil
	}

	if isBinary(content) {
		return EncodingRaw, errors.NewEncodingGuess(path)
	}

	if utf8.Valid(content) {
		if isASCII(content) {
			return EncodingASCII, nil
		}
		return EncodingUTF8, nil
	}
	return EncodingLatin1, nil
}

// codec returns the x/text encoding used to transcode e, or nil when the
// bytes are used verbatim.
func (e Encoding) codec() encoding.Encoding {
	switch e {
	case EncodingUTF8BOM:
		return unicode.UTF8BOM
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case EncodingLatin1:
		return charmap.ISO8859_1
	default:
		return nil
	}
}

// decode converts file bytes into buffer text.
func (e Encoding) decode(content []byte) (string, error) {
	c := e.codec()
	if c == nil {
		return string(content), nil
	}
	out, err := c.NewDecoder().Bytes(content)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encode converts buffer text into file bytes. Runes the charset cannot
// represent are an error rather than a silent replacement.
func (e Encoding) encode(text string) ([]byte, error) {
	c := e.codec()
	if c == nil {
		return []byte(text), nil
	}
	return c.NewEncoder().Bytes([]byte(text))
}

// isBinary uses the null byte / control character heuristic on the first 8KB.
func isBinary(content []byte) bool {
	sample := content
	if len(sample) > binarySample {
		sample = sample[:binarySample]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.1
}

func isASCII(content []byte) bool {
	for _, b := range content {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
