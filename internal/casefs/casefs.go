// Package casefs holds the filesystem conventions shared by the validation
// pipeline stages: how mesh folders are recognized, which files count as
// results, and how files are copied between case trees.
package casefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigFileName is the canonical name of a mesh folder's solver configuration.
const ConfigFileName = "Config.cfg"

// PlotsDirName is the case-level directory holding rendered plot images.
const PlotsDirName = "plots"

// Extensions of files staged from the external results repository.
const (
	RestartExt = ".dat"
	MeshExt    = ".su2"
)

// ResultExtensions are the file extensions harvested into a result bundle.
var ResultExtensions = []string{".csv", ".vtu", ".cfg", ".dat", ".su2"}

// IsMeshFolder reports whether a directory name follows the mesh folder
// naming convention: a "Mesh"/"mesh" prefix or a leading digit. The rule is
// deliberately loose and admits names like "1_backup"; callers that care
// should log such matches rather than tighten the rule.
func IsMeshFolder(name string) bool {
	if strings.HasPrefix(name, "Mesh") || strings.HasPrefix(name, "mesh") {
		return true
	}
	return len(name) > 0 && name[0] >= '0' && name[0] <= '9'
}

// IsAmbiguousMeshName reports whether name matches the mesh folder rule only
// by its leading digit and carries a suffix beyond a plain number, e.g.
// "1_backup". Such folders are still in scope but worth surfacing in logs.
func IsAmbiguousMeshName(name string) bool {
	if !IsMeshFolder(name) || strings.HasPrefix(name, "Mesh") || strings.HasPrefix(name, "mesh") {
		return false
	}
	return strings.TrimLeft(name, "0123456789") != ""
}

// MeshFolders returns the mesh folder names directly under dir, in the
// order the directory listing yields them (sorted by name, as os.ReadDir
// guarantees). Enumeration order is load-bearing: the result collector
// renumbers bundles by it.
func MeshFolders(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read case directory: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && IsMeshFolder(e.Name()) {
			folders = append(folders, e.Name())
		}
	}
	return folders, nil
}

// HasResultExt reports whether name carries one of the result extensions.
func HasResultExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range ResultExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// CopyFile copies the file at src to dst, overwriting dst if it exists.
// Permissions of src are preserved.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}

// CopyMatching copies every regular file in srcDir whose name matches keep
// into dstDir. Returns the names copied, sorted.
func CopyMatching(srcDir, dstDir string, keep func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", srcDir, err)
	}

	var copied []string
	for _, e := range entries {
		if e.IsDir() || !keep(e.Name()) {
			continue
		}
		if err := CopyFile(filepath.Join(srcDir, e.Name()), filepath.Join(dstDir, e.Name())); err != nil {
			return copied, err
		}
		copied = append(copied, e.Name())
	}
	sort.Strings(copied)
	return copied, nil
}

// CopyTree replaces dst with a recursive copy of the directory src. A stale
// dst is removed first so the copy never merges with prior contents.
func CopyTree(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("failed to remove stale %s: %w", dst, err)
	}

	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return CopyFile(path, target)
	})
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
