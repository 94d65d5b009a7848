// Package identity turns raw user answers into the immutable ProjectSpec a
// scaffold run is built from. Names are reduced to a filesystem-safe
// character set; namespaces are passed through as given, with advisory
// diagnostics for segments that would not compile as a Java package.
package identity

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Fixed fallbacks used when an answer sanitizes to nothing.
const (
	DefaultName      = "MyTermuxApp"
	DefaultNamespace = "com.termux.app"
)

// Defaults overrides the fixed fallbacks (e.g. from user config). Empty
// fields, or fields that do not survive sanitization, use the fixed values.
type Defaults struct {
	Name      string
	Namespace string
}

// ProjectSpec is the identity of one generated project. It is built once by
// NewProjectSpec and must not be modified afterwards.
type ProjectSpec struct {
	RawName      string
	Name         string
	RawNamespace string
	Namespace    string
	Root         string
}

// NewProjectSpec sanitizes the raw answers and roots the project at
// parentDir/<Name>.
func NewProjectSpec(rawName, rawNamespace, parentDir string, d Defaults) *ProjectSpec {
	name := sanitizeName(rawName, d.name())
	return &ProjectSpec{
		RawName:      rawName,
		Name:         name,
		RawNamespace: rawNamespace,
		Namespace:    sanitizeNamespace(rawNamespace, d.namespace()),
		Root:         filepath.Join(parentDir, name),
	}
}

// Segments returns the namespace split on dots, skipping empty segments.
func (p *ProjectSpec) Segments() []string {
	return segments(p.Namespace)
}

// NamespacePath returns the namespace as a relative, OS-specific directory
// path ("com.example.app" -> "com/example/app").
func (p *ProjectSpec) NamespacePath() string {
	return filepath.Join(p.Segments()...)
}

// SanitizeName keeps only ASCII letters, digits, '_' and '-'. An empty
// result becomes DefaultName.
func SanitizeName(raw string) string {
	return sanitizeName(raw, DefaultName)
}

// SanitizeNamespace trims surrounding whitespace and substitutes
// DefaultNamespace when nothing is left. Segments are not validated here;
// see NamespaceIssues.
func SanitizeNamespace(raw string) string {
	return sanitizeNamespace(raw, DefaultNamespace)
}

func sanitizeName(raw, fallback string) string {
	var b strings.Builder
	for _, r := range raw {
		if isNameRune(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

func sanitizeNamespace(raw, fallback string) string {
	ns := strings.TrimSpace(raw)
	if ns == "" {
		return fallback
	}
	return ns
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// Resolved returns d with every field replaced by the value NewProjectSpec
// would actually fall back to.
func (d Defaults) Resolved() Defaults {
	return Defaults{Name: d.name(), Namespace: d.namespace()}
}

func (d Defaults) name() string {
	return sanitizeName(d.Name, DefaultName)
}

func (d Defaults) namespace() string {
	return sanitizeNamespace(d.Namespace, DefaultNamespace)
}

func segments(ns string) []string {
	parts := strings.Split(ns, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NamespaceIssues describes every segment of ns that is not a legal Java
// package segment. An empty result means the namespace will compile.
func NamespaceIssues(ns string) []string {
	var issues []string
	for i, seg := range strings.Split(ns, ".") {
		switch {
		case seg == "":
			issues = append(issues, fmt.Sprintf("segment %d is empty", i+1))
		case javaKeywords[seg]:
			issues = append(issues, fmt.Sprintf("segment %q is a reserved Java keyword", seg))
		case !isJavaIdentifier(seg):
			issues = append(issues, fmt.Sprintf("segment %q is not a valid Java identifier", seg))
		}
	}
	return issues
}

func isJavaIdentifier(s string) bool {
	for i, r := range s {
		letter := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if i == 0 && !letter {
			return false
		}
		if !letter && !digit {
			return false
		}
	}
	return s != ""
}

var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "_": true,
}
