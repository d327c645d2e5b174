package ops

import (
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/errors"
)

// MaxImportBytes caps the size of a settings import file.
const MaxImportBytes = 1 << 20

// ImportMode controls how malformed or rejected records are handled.
type ImportMode string

const (
	ImportModeError ImportMode = "error" // any bad record fails the whole import
	ImportModeSkip  ImportMode = "skip"  // bad records are reported and skipped
)

// ImportInput contains parameters for a settings import.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of a settings import.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes a record that was not imported.
type ImportError struct {
	Line    int    `json:"line"`
	Key     string `json:"key,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Record is a parsed import record with the line it started on.
type Record struct {
	SettingValue
	Line int
}

// NormalizeImportInput validates the input and fills defaults.
func NormalizeImportInput(input ImportInput) (ImportInput, error) {
	if input.Path == "" {
		return input, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeSkip {
		return input, errors.NewInvalidRequest("mode must be one of: error, skip")
	}
	return input, nil
}

// ReadSettings validates path and parses it as a settings CSV file.
func ReadSettings(cfg *config.Config, path string) ([]Record, []ImportError, error) {
	if err := ValidatePath(path, PathCheckRead, cfg); err != nil {
		return nil, nil, err
	}

	f, err := openNoFollow(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, parseErrors, err := ParseSettings(f)
	if err != nil {
		return nil, nil, err
	}
	return records, parseErrors, nil
}

// ParseSettings reads ';'-separated, '\''-quoted "<module>:<setting>;<value>"
// records. A doubled quote inside a quoted field is a literal quote, and
// quoted fields may span lines. Records of the wrong shape are returned as
// ImportErrors; an unreadable or oversized stream is an error.
func ParseSettings(r io.Reader) ([]Record, []ImportError, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportBytes+1))
	if err != nil {
		return nil, nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > MaxImportBytes {
		return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("import file exceeds %d bytes", MaxImportBytes))
	}

	rows, err := splitRecords(string(data))
	if err != nil {
		return nil, nil, err
	}

	var (
		records []Record
		bad     []ImportError
	)
	for _, row := range rows {
		if len(row.fields) != 2 {
			bad = append(bad, ImportError{
				Line:    row.line,
				Code:    string(errors.ErrInvalidRequest),
				Message: fmt.Sprintf("expected 2 fields, got %d", len(row.fields)),
			})
			continue
		}
		key := strings.TrimSpace(row.fields[0])
		module, setting, ok := strings.Cut(key, ":")
		if !ok || module == "" || setting == "" {
			bad = append(bad, ImportError{
				Line:    row.line,
				Key:     key,
				Code:    string(errors.ErrInvalidRequest),
				Message: "key must be <module>:<setting>",
			})
			continue
		}
		records = append(records, Record{
			SettingValue: SettingValue{Key: key, Value: row.fields[1]},
			Line:         row.line,
		})
	}
	return records, bad, nil
}

type rawRecord struct {
	line   int
	fields []string
}

func splitRecords(s string) ([]rawRecord, error) {
	var (
		out      []rawRecord
		fields   []string
		field    strings.Builder
		inQuotes bool
		quoted   bool // current field started with a quote
		line     = 1
		start    = 1
		dirty    bool // current record has content
	)

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
		quoted = false
	}
	endRecord := func() {
		if dirty {
			endField()
			out = append(out, rawRecord{line: start, fields: fields})
		}
		fields = nil
		field.Reset()
		quoted = false
		dirty = false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuotes {
			switch {
			case c == ImportQuote && i+1 < len(s) && s[i+1] == ImportQuote:
				field.WriteByte(ImportQuote)
				i++
			case c == ImportQuote:
				inQuotes = false
			default:
				if c == '\n' {
					line++
				}
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case ImportQuote:
			if field.Len() == 0 && !quoted {
				inQuotes, quoted = true, true
			} else {
				field.WriteByte(c)
			}
			dirty = true
		case Separator:
			endField()
			dirty = true
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			field.WriteByte(c)
			dirty = true
		case '\n':
			endRecord()
			line++
			start = line
		default:
			field.WriteByte(c)
			dirty = true
		}
	}

	if inQuotes {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unterminated quote in record starting on line %d", start))
	}
	endRecord()
	return out, nil
}
