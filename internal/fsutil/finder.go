// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ModuleExt is the file extension a tool module manifest must carry.
const ModuleExt = ".hcl"

// reservedPrefix marks manifests that are private helpers rather than tool
// modules, mirroring the authoring convention for non-tool files.
const reservedPrefix = "_"

// ModuleFile identifies one eligible tool module on disk.
type ModuleFile struct {
	// Name is the module identifier, the file name without its extension.
	Name string
	// Path is the full path to the manifest file.
	Path string
}

// ListModules enumerates the eligible tool module manifests directly inside
// dir (non-recursive). Eligible means: a regular file with the manifest
// extension whose name does not start with the reserved prefix. The result is
// ordered lexicographically by file name so registration order is
// reproducible across runs.
func ListModules(dir string) ([]ModuleFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var modules []ModuleFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, reservedPrefix) {
			continue
		}
		if filepath.Ext(name) != ModuleExt {
			continue
		}
		modules = append(modules, ModuleFile{
			Name: strings.TrimSuffix(name, ModuleExt),
			Path: filepath.Join(dir, name),
		})
	}
	return modules, nil
}
