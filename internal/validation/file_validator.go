package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"leadexporter/internal/infrastructure"
)

// lockFilePrefix marks the owner files spreadsheet editors leave next to
// an open workbook
const lockFilePrefix = "~$"

// FileValidator checks input files before they are parsed
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "validation"),
	}
}

// ValidateFile checks that path exists, is a regular file and can be
// opened for reading
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks that path is a readable file and not an editor
// lock file. The content itself is checked by the parser.
func (v *FileValidator) ValidateWorkbook(path string) error {
	if strings.HasPrefix(filepath.Base(path), lockFilePrefix) {
		v.logger.Warn("Refusing editor lock file",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary lock file, not a workbook", path)
	}

	return v.ValidateFile(path)
}
