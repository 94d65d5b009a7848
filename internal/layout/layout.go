// Package layout creates, or re-enters after confirmation, the directory
// tree of a generated project. Every path is derived from the ProjectSpec
// root; nothing here consults the process working directory.
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apkforge/apkforge/internal/identity"
)

// Directory names relative to the project root.
const (
	SourceRoot = "src/main/java"
	BinDir     = "bin"
	LibDir     = "lib"
)

// Outcome describes what Prepare did.
type Outcome int

const (
	// Created means the root did not exist and the full tree was made.
	Created Outcome = iota
	// Merged means the root existed and the user chose to continue into it.
	Merged
	// Aborted means the root existed and the user declined; nothing changed.
	Aborted
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Merged:
		return "merged"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ConfirmFunc is asked once whether to continue into an existing root.
type ConfirmFunc func(root string) (bool, error)

// ErrNotDirectory is returned when the project root exists as a file.
var ErrNotDirectory = errors.New("project root exists and is not a directory")

// SourceDir returns the namespace-mirrored source directory of spec.
func SourceDir(spec *identity.ProjectSpec) string {
	return filepath.Join(spec.Root, filepath.FromSlash(SourceRoot), spec.NamespacePath())
}

// Dirs lists every directory Prepare guarantees, root first.
func Dirs(spec *identity.ProjectSpec) []string {
	return []string{
		spec.Root,
		SourceDir(spec),
		filepath.Join(spec.Root, BinDir),
		filepath.Join(spec.Root, LibDir),
	}
}

// Prepare makes the project tree for spec. When the root already exists,
// confirm is called exactly once; a negative answer returns Aborted without
// touching the filesystem.
func Prepare(spec *identity.ProjectSpec, confirm ConfirmFunc) (Outcome, error) {
	info, err := os.Stat(spec.Root)
	switch {
	case err == nil:
		if !info.IsDir() {
			return Aborted, fmt.Errorf("%s: %w", spec.Root, ErrNotDirectory)
		}
		ok, cerr := confirm(spec.Root)
		if cerr != nil {
			return Aborted, fmt.Errorf("confirming overwrite of %s: %w", spec.Root, cerr)
		}
		if !ok {
			return Aborted, nil
		}
		if err := makeTree(spec); err != nil {
			return Merged, err
		}
		return Merged, nil

	case os.IsNotExist(err):
		if err := os.Mkdir(spec.Root, 0755); err != nil {
			return Created, fmt.Errorf("creating project root %s: %w", spec.Root, err)
		}
		if err := makeTree(spec); err != nil {
			return Created, err
		}
		return Created, nil

	default:
		return Aborted, fmt.Errorf("inspecting project root %s: %w", spec.Root, err)
	}
}

func makeTree(spec *identity.ProjectSpec) error {
	for _, dir := range Dirs(spec)[1:] {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
