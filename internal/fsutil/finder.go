// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileEntry describes one directory entry as seen by build scripts.
type FileEntry struct {
	// Filename is the entry name without its extension.
	Filename string
	// Extension includes the leading dot, or is empty.
	Extension string
	// Path is the directory as given to ListFiles joined with the entry name.
	Path string
}

// ListFiles returns one FileEntry per entry of each directory, in the order
// the directories are given. Relative directories are read under root, but
// entry paths keep the directory as given. Listing is not recursive and
// includes subdirectories.
func ListFiles(root string, dirs ...string) ([]FileEntry, error) {
	var entries []FileEntry
	for _, dir := range dirs {
		read := dir
		if root != "" && !filepath.IsAbs(dir) {
			read = filepath.Join(root, dir)
		}
		des, err := os.ReadDir(read)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
		}
		for _, de := range des {
			name := de.Name()
			ext := filepath.Ext(name)
			entries = append(entries, FileEntry{
				Filename:  strings.TrimSuffix(name, ext),
				Extension: ext,
				Path:      filepath.Join(dir, name),
			})
		}
	}
	return entries, nil
}

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != rootPath && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
