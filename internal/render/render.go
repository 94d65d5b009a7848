package render

import (
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/apkforge/apkforge/internal/android"
	"github.com/apkforge/apkforge/internal/branding"
	"github.com/apkforge/apkforge/internal/identity"
	"github.com/apkforge/apkforge/internal/layout"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"xml": escapeXML,
		"shq": shellQuote,
	}).ParseFS(templateFS, "templates/*.tmpl"),
)

// Kind identifies one generated artifact.
type Kind int

const (
	Manifest Kind = iota
	EntrySource
	BuildScript
)

// Kinds lists every artifact in the order they are written.
var Kinds = []Kind{Manifest, EntrySource, BuildScript}

func (k Kind) String() string {
	switch k {
	case Manifest:
		return "manifest"
	case EntrySource:
		return "entry-source"
	case BuildScript:
		return "build-script"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) template() string {
	switch k {
	case Manifest:
		return "AndroidManifest.xml.tmpl"
	case EntrySource:
		return "MainActivity.java.tmpl"
	case BuildScript:
		return "build.sh.tmpl"
	}
	return ""
}

// RelPath returns where the artifact lives under the project root, slash
// separated.
func (k Kind) RelPath(spec *identity.ProjectSpec) string {
	switch k {
	case Manifest:
		return android.ManifestFile
	case EntrySource:
		parts := append([]string{layout.SourceRoot}, spec.Segments()...)
		return path.Join(append(parts, android.EntryClass+".java")...)
	case BuildScript:
		return android.BuildScriptFile
	}
	return ""
}

// Mode returns the permission bits the artifact is written with.
func (k Kind) Mode() fs.FileMode {
	if k == BuildScript {
		return 0o755
	}
	return 0o644
}

// Artifact is one rendered file.
type Artifact struct {
	Kind    Kind
	RelPath string
	Mode    fs.FileMode
	Content []byte
}

type view struct {
	Name           string
	Namespace      string
	EntryClass     string
	MinSDK         int
	TargetSDK      int
	MilestoneEvery int
	Generator      string
	Pipeline       Pipeline
}

func newView(spec *identity.ProjectSpec, c android.Constants) view {
	return view{
		Name:           spec.Name,
		Namespace:      spec.Namespace,
		EntryClass:     android.EntryClass,
		MinSDK:         c.MinSDK,
		TargetSDK:      c.TargetSDK,
		MilestoneEvery: c.MilestoneEvery,
		Generator:      branding.CLIName(),
		Pipeline:       NewPipeline(spec, c),
	}
}

// Render produces the content of one artifact.
func Render(kind Kind, spec *identity.ProjectSpec, c android.Constants) ([]byte, error) {
	name := kind.template()
	if name == "" {
		return nil, fmt.Errorf("unknown artifact %s", kind)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", kind, err)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, newView(spec, c)); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderAll renders every artifact in Kinds order.
func RenderAll(spec *identity.ProjectSpec, c android.Constants) ([]Artifact, error) {
	out := make([]Artifact, 0, len(Kinds))
	for _, k := range Kinds {
		content, err := Render(k, spec, c)
		if err != nil {
			return nil, err
		}
		out = append(out, Artifact{
			Kind:    k,
			RelPath: k.RelPath(spec),
			Mode:    k.Mode(),
			Content: content,
		})
	}
	return out, nil
}

func escapeXML(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// shellQuote wraps s in single quotes for bash.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
