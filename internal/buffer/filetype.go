package buffer

import (
	"path/filepath"
	"strings"
)

// FileType classifies a linked file for presentation (lexer selection).
type FileType string

const (
	FileTypeUnknown  FileType = "unknown"
	FileTypePython   FileType = "python"
	FileTypeJSON     FileType = "json"
	FileTypeSQL      FileType = "sql"
	FileTypeXML      FileType = "xml"
	FileTypeHTML     FileType = "html"
	FileTypeYAML     FileType = "yaml"
	FileTypeMarkdown FileType = "markdown"
	FileTypeGo       FileType = "go"
)

var extTypes = map[string]FileType{
	"py":       FileTypePython,
	"json":     FileTypeJSON,
	"sql":      FileTypeSQL,
	"xml":      FileTypeXML,
	"html":     FileTypeHTML,
	"htm":      FileTypeHTML,
	"yaml":     FileTypeYAML,
	"yml":      FileTypeYAML,
	"md":       FileTypeMarkdown,
	"markdown": FileTypeMarkdown,
	"go":       FileTypeGo,
}

// FileTypeFromPath classifies path by its extension.
func FileTypeFromPath(path string) FileType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ft, ok := extTypes[ext]; ok {
		return ft
	}
	return FileTypeUnknown
}
