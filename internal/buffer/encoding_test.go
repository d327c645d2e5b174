package buffer

import (
	"bytes"
	"testing"

	"github.com/hpungsan/tetra/internal/errors"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    Encoding
		wantErr bool
	}{
		{name: "empty", content: []byte{}, want: EncodingUTF8},
		{name: "ASCII", content: []byte("Hello, World!"), want: EncodingASCII},
		{name: "UTF-8", content: []byte("Hello, 世界!"), want: EncodingUTF8},
		{name: "UTF-8 BOM", content: append([]byte{0xEF, 0xBB, 0xBF}, "Hello"...), want: EncodingUTF8BOM},
		{name: "UTF-16 LE BOM", content: []byte{0xFF, 0xFE, 0x48, 0x00}, want: EncodingUTF16LE},
		{name: "UTF-16 BE BOM", content: []byte{0xFE, 0xFF, 0x00, 0x48}, want: EncodingUTF16BE},
		{name: "Latin-1", content: []byte{'c', 'a', 'f', 0xE9}, want: EncodingLatin1},
		{name: "binary", content: []byte{0x00, 0x01, 0x02}, want: EncodingRaw, wantErr: true},
		{name: "control chars", content: bytes.Repeat([]byte{0x01, 'a'}, 10), want: EncodingRaw, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectEncoding("f", tt.content)
			if got != tt.want {
				t.Errorf("DetectEncoding() = %v, want %v", got, tt.want)
			}
			if tt.wantErr != (err != nil) {
				t.Fatalf("DetectEncoding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrEncodingGuess) {
				t.Errorf("error code = %v, want %v", err, errors.ErrEncodingGuess)
			}
		})
	}
}

func TestEncoding_UTF16RoundTrip(t *testing.T) {
	for _, enc := range []Encoding{EncodingUTF16LE, EncodingUTF16BE} {
		t.Run(string(enc), func(t *testing.T) {
			data, err := enc.encode("héllo")
			if err != nil {
				t.Fatalf("encode() error = %v", err)
			}
			if got, _ := DetectEncoding("f", data); got != enc {
				t.Fatalf("DetectEncoding(encoded) = %v, want %v", got, enc)
			}
			text, err := enc.decode(data)
			if err != nil {
				t.Fatalf("decode() error = %v", err)
			}
			if text != "héllo" {
				t.Errorf("decode() = %q, want %q", text, "héllo")
			}
		})
	}
}

func TestEncoding_String(t *testing.T) {
	if EncodingRaw.String() != "unknown" {
		t.Errorf("EncodingRaw.String() = %q, want unknown", EncodingRaw.String())
	}
	if EncodingUTF8.String() != "utf-8" {
		t.Errorf("EncodingUTF8.String() = %q, want utf-8", EncodingUTF8.String())
	}
}
