package report

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c3i/c3i/pkg/utils"
)

//go:embed templates/main.html
var defaultTemplate []byte

// WriteDefaultTemplate writes the bundled main.html into dir unless one exists.
// It reports whether a file was written.
func WriteDefaultTemplate(dir string) (bool, error) {
	path := filepath.Join(dir, MainTemplate+".html")
	if utils.FileExists(path) {
		return false, nil
	}

	if err := utils.EnsureDirectory(dir); err != nil {
		return false, fmt.Errorf("failed to create template directory: %w", err)
	}
	if err := os.WriteFile(path, defaultTemplate, 0644); err != nil {
		return false, fmt.Errorf("failed to write template: %w", err)
	}
	return true, nil
}
