package packaging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
)

// SpliceLibrary copies the entries of library into the jar at target. Directory
// entries and anything under META-INF are skipped, as are names the target
// already contains. It returns the number of entries added.
func SpliceLibrary(target, library string) (int, error) {
	src, err := zip.OpenReader(target)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", target, err)
	}
	defer src.Close()

	lib, err := zip.OpenReader(library)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", library, err)
	}
	defer lib.Close()

	tempPath := target + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", tempPath, err)
	}

	added, err := writeSpliced(out, src.File, lib.File)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tempPath)
		return 0, err
	}

	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return added, nil
}

func writeSpliced(out io.Writer, existing, library []*zip.File) (int, error) {
	w := zip.NewWriter(out)

	names := make(map[string]bool, len(existing))
	for _, f := range existing {
		names[f.Name] = true
		if err := copyEntry(w, f); err != nil {
			return 0, err
		}
	}

	added := 0
	for _, f := range library {
		if !spliceable(f) || names[f.Name] {
			continue
		}
		names[f.Name] = true
		if err := copyEntry(w, f); err != nil {
			return 0, err
		}
		added++
	}

	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("failed to finish archive: %w", err)
	}
	return added, nil
}

func spliceable(f *zip.File) bool {
	return !strings.HasPrefix(f.Name, "META-INF") &&
		!strings.HasSuffix(f.Name, "/") &&
		!f.FileInfo().IsDir()
}

func copyEntry(w *zip.Writer, f *zip.File) error {
	header := f.FileHeader
	dst, err := w.CreateHeader(&header)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", f.Name, err)
	}
	if strings.HasSuffix(f.Name, "/") {
		return nil
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", f.Name, err)
	}
	return nil
}
