package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"leadexporter/internal/config"
	"leadexporter/internal/infrastructure"
)

// Manager provides file operations rooted at one base directory
type Manager struct {
	baseDir string
	logger  *slog.Logger
}

// NewManager creates a new file manager for baseDir
func NewManager(baseDir string, logger *slog.Logger) *Manager {
	return &Manager{
		baseDir: baseDir,
		logger:  infrastructure.WithComponent(logger, "files"),
	}
}

// BaseDir returns the directory the manager is rooted at
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Path resolves name against the base directory. Absolute names are
// returned as-is.
func (m *Manager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.baseDir, name)
}

// EnsureDirectory creates the base directory and its parents if needed.
// An existing non-directory at that path is an error.
func (m *Manager) EnsureDirectory() error {
	m.logger.Debug("Ensuring directory exists", slog.String("path", m.baseDir))

	info, err := os.Stat(m.baseDir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", m.baseDir)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return err
	}

	if err := os.MkdirAll(m.baseDir, config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	m.logger.Info("Created directory", slog.String("path", m.baseDir))
	return nil
}

// FileExists checks if a regular file exists at name
func (m *Manager) FileExists(name string) bool {
	info, err := os.Stat(m.Path(name))
	exists := err == nil && info.Mode().IsRegular()

	m.logger.Debug("FileExists check",
		slog.String("path", m.Path(name)),
		slog.Bool("exists", exists))

	return exists
}

// ListFiles returns the names of the regular files in the base directory
// (non-recursive) whose extension matches ext case-insensitively, sorted.
// An empty ext lists every file.
func (m *Manager) ListFiles(ext string) ([]string, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", m.baseDir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if ext != "" && !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	m.logger.Debug("Listed files",
		slog.String("dir", m.baseDir),
		slog.String("ext", ext),
		slog.Int("count", len(names)))

	return names, nil
}
