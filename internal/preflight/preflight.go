// Package preflight verifies that every external executable a generated
// project needs is resolvable before anything touches the filesystem. The
// check is exhaustive: all unresolved names are collected and returned
// together so one pass yields the whole remediation list.
package preflight

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Tool names in the order they are checked and reported.
const (
	Compiler    = "javac"
	Transformer = "d8"
	Linker      = "aapt2"
	Signer      = "apksigner"
	KeyTool     = "keytool"
	Archiver    = "zip"
)

// RequiredTools is the fixed toolchain list.
var RequiredTools = []string{Compiler, Transformer, Linker, Signer, KeyTool, Archiver}

// Hint is printed after a failed check.
const Hint = `Install the missing packages in Termux:
  pkg install openjdk-17 android-tools
(d8 ships with the package that provides dx/d8, usually android-tools or dx)`

// LookPathFunc resolves an executable name to a path.
type LookPathFunc func(name string) (string, error)

// MissingToolsError lists every tool that could not be resolved.
type MissingToolsError struct {
	Names []string
}

func (e *MissingToolsError) Error() string {
	return fmt.Sprintf("required tools not found: %s", strings.Join(e.Names, ", "))
}

// Resolution is the outcome of looking up one tool.
type Resolution struct {
	Name string
	Path string
	Err  error
}

// Found reports whether the tool resolved.
func (r Resolution) Found() bool { return r.Err == nil }

// Checker resolves tools through LookPath.
type Checker struct {
	LookPath LookPathFunc
}

// New returns a Checker. A nil lookPath means exec.LookPath.
func New(lookPath LookPathFunc) *Checker {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &Checker{LookPath: lookPath}
}

// Probe resolves every tool and returns one Resolution per name, in order.
func (c *Checker) Probe(tools []string) []Resolution {
	out := make([]Resolution, 0, len(tools))
	for _, name := range tools {
		path, err := c.LookPath(name)
		out = append(out, Resolution{Name: name, Path: path, Err: err})
	}
	return out
}

// Check returns nil when every tool resolves, otherwise a *MissingToolsError
// naming all of the unresolved ones. Duplicate names are reported once.
func (c *Checker) Check(tools []string) error {
	var missing []string
	seen := make(map[string]bool)
	for _, r := range c.Probe(tools) {
		if r.Found() || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		missing = append(missing, r.Name)
	}
	if len(missing) > 0 {
		return &MissingToolsError{Names: missing}
	}
	return nil
}

// WriteReport prints one [ OK ]/[MISS] line per resolution and returns the
// number of missing tools.
func WriteReport(w io.Writer, res []Resolution) int {
	missing := 0
	for _, r := range res {
		if r.Found() {
			fmt.Fprintf(w, "  [ OK ] %s found at %s\n", r.Name, r.Path)
			continue
		}
		fmt.Fprintf(w, "  [MISS] %s not found\n", r.Name)
		missing++
	}
	return missing
}
