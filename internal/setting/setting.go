// Package setting defines module settings: named, typed, defaultable values
// stored in their textual form.
package setting

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/hpungsan/tetra/internal/errors"
)

// Kind identifies how a setting's textual value is interpreted.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindBool   Kind = "bool"
	KindChoice Kind = "choice"
	KindFile   Kind = "file"
)

// Int constraint defaults.
const (
	DefaultMin  = 0
	DefaultMax  = 9999
	DefaultStep = 1
)

// Setting is a single module setting. Value always holds the textual form;
// typed accessors reparse it.
type Setting struct {
	// ID is unique within the owning module
	ID string

	// Name is the display name (falls back to ID when empty)
	Name string

	Description string

	Kind Kind

	// Value is the current value
	Value string

	// Default is the declared value restored by Reset
	Default string

	// Min, Max and Step constrain KindInt values
	Min, Max, Step int

	// Choices lists the allowed values of KindChoice
	Choices []string

	// Ext is the required file extension (without dot) of KindFile values
	Ext string
}

// String declares a free-form text setting.
func String(id, name, description, value string) *Setting {
	return &Setting{ID: id, Name: name, Description: description, Kind: KindString, Value: value, Default: value}
}

// Int declares an integer setting. A zero step is replaced by DefaultStep.
func Int(id, name, description string, value, min, max, step int) *Setting {
	if step <= 0 {
		step = DefaultStep
	}
	v := strconv.Itoa(value)
	return &Setting{
		ID: id, Name: name, Description: description, Kind: KindInt,
		Value: v, Default: v, Min: min, Max: max, Step: step,
	}
}

// Bool declares a boolean setting.
func Bool(id, name, description string, value bool) *Setting {
	v := strconv.FormatBool(value)
	return &Setting{ID: id, Name: name, Description: description, Kind: KindBool, Value: v, Default: v}
}

// Choice declares a setting restricted to an enumerated set of values.
func Choice(id, name, description, value string, choices ...string) *Setting {
	return &Setting{
		ID: id, Name: name, Description: description, Kind: KindChoice,
		Value: value, Default: value, Choices: choices,
	}
}

// File declares a file path setting. ext filters allowed paths ("" = any).
func File(id, name, description, value, ext string) *Setting {
	return &Setting{
		ID: id, Name: name, Description: description, Kind: KindFile,
		Value: value, Default: value, Ext: strings.TrimPrefix(ext, "."),
	}
}

// DisplayName returns Name, or ID if no name was declared.
func (s *Setting) DisplayName() string {
	if s.Name == "" {
		return s.ID
	}
	return s.Name
}

// Validate checks value against the setting's kind and constraints.
func (s *Setting) Validate(value string) error {
	switch s.Kind {
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return errors.NewInvalidSettingValue(s.ID, value, "not an integer")
		}
		if n < s.Min {
			return errors.NewInvalidSettingValue(s.ID, value, fmt.Sprintf("below minimum %d", s.Min))
		}
		if n > s.Max {
			return errors.NewInvalidSettingValue(s.ID, value, fmt.Sprintf("above maximum %d", s.Max))
		}
		if s.Step > 1 && (n-s.Min)%s.Step != 0 {
			return errors.NewInvalidSettingValue(s.ID, value, fmt.Sprintf("not a multiple of step %d", s.Step))
		}
	case KindBool:
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return errors.NewInvalidSettingValue(s.ID, value, "not a boolean")
		}
	case KindChoice:
		if !slices.Contains(s.Choices, value) {
			return errors.NewInvalidSettingValue(s.ID, value, fmt.Sprintf("must be one of %v", s.Choices))
		}
	case KindFile:
		if value != "" && s.Ext != "" && !strings.EqualFold(filepath.Ext(value), "."+s.Ext) {
			return errors.NewInvalidSettingValue(s.ID, value, fmt.Sprintf("must have .%s extension", s.Ext))
		}
	}
	return nil
}

// Set validates and assigns a new value.
func (s *Setting) Set(value string) error {
	if err := s.Validate(value); err != nil {
		return err
	}
	if s.Kind == KindInt || s.Kind == KindBool {
		value = strings.TrimSpace(value)
	}
	s.Value = value
	return nil
}

// Reset restores the declared default.
func (s *Setting) Reset() {
	s.Value = s.Default
}

// Int returns the value parsed as an integer (Min if it does not parse).
func (s *Setting) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.Value))
	if err != nil {
		return s.Min
	}
	return n
}

// Bool returns the value parsed as a boolean (false if it does not parse).
func (s *Setting) Bool() bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s.Value))
	return b
}

// Clone returns a deep copy.
func (s *Setting) Clone() *Setting {
	c := *s
	c.Choices = slices.Clone(s.Choices)
	return &c
}
