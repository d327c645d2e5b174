package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/tetra/internal/config"
	"github.com/hpungsan/tetra/internal/errors"
	"github.com/hpungsan/tetra/internal/store"
)

// ExportInput contains parameters for ExportSettings.
type ExportInput struct {
	Path   string // optional, default: ~/.tetra/exports/<module|settings>-<timestamp>.csv
	Module string // optional filter by module id
}

// ExportOutput contains the result of ExportSettings.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportSettings writes the stored settings as "<module>:<setting>;<value>"
// records. The file is written to a temp name and renamed into place, so an
// existing export survives a failure.
func ExportSettings(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(input.Module, now)
		if err != nil {
			return nil, err
		}
	}

	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	rows, err := store.ListSettings(database)
	if err != nil {
		return nil, err
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := createNoFollow(tempPath, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	w := csv.NewWriter(file)
	w.Comma = Separator

	count := 0
	for _, r := range rows {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("export")
		default:
		}

		if input.Module != "" && r.Module != input.Module {
			continue
		}
		if err := w.Write([]string{r.ID, r.Value}); err != nil {
			return nil, errors.NewInternal(err)
		}
		count++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInvalidRequest("export path must not be a symlink")
	}

	// Windows refuses to rename over an existing file; the old export is kept.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      count,
		ExportedAt: now.Unix(),
	}, nil
}

// defaultExportPath returns ~/.tetra/exports/<name>-<timestamp>.csv.
func defaultExportPath(module string, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	name := "settings"
	if module != "" {
		name = SanitizeForFilename(module)
	}
	filename := fmt.Sprintf("%s-%s%s", name, now.Format("2006-01-02T150405"), Extension)
	return filepath.Join(dir, filename), nil
}
