package answers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/answers.schema.json
var schemaBytes []byte

const schemaURL = "answers.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Issue is one schema violation in an answers file.
type Issue struct {
	Path    string // instance location, e.g. "/namespace"
	Keyword string
	Message string
}

// InvalidFileError lists every schema violation found in an answers file.
type InvalidFileError struct {
	File   string
	Issues []Issue
}

func (e *InvalidFileError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		loc := is.Path
		if loc == "" {
			loc = "(root)"
		}
		parts[i] = loc + ": " + is.Message
	}
	return fmt.Sprintf("invalid answers file %s: %s", e.File, strings.Join(parts, "; "))
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) answers file,
// validates it, and returns its answers as a Static source.
func LoadFile(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Static{}, fmt.Errorf("reading answers file: %w", err)
	}

	var raw any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Static{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		m := map[string]any{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return Static{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		raw = m
	default:
		return Static{}, fmt.Errorf("unsupported answers file type %q (want .yaml, .yml or .toml)", ext)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return decode(path, normalize(raw))
}

func decode(path string, raw any) (Static, error) {
	schema, err := getSchema()
	if err != nil {
		return Static{}, fmt.Errorf("loading schema: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return Static{}, fmt.Errorf("converting %s to JSON: %w", path, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return Static{}, fmt.Errorf("preparing %s for validation: %w", path, err)
	}

	if err := schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return Static{}, fmt.Errorf("validating %s: %w", path, err)
		}
		return Static{}, &InvalidFileError{File: path, Issues: issues(ve)}
	}

	var s Static
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return Static{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return s, nil
}

func issues(ve *jsonschema.ValidationError) []Issue {
	var out []Issue
	collect(ve, &out)
	if len(out) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return out
}

func collect(ve *jsonschema.ValidationError, out *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			collect(c, out)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	keyword := ""
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		keyword = kw[len(kw)-1]
	}
	*out = append(*out, Issue{
		Path:    path,
		Keyword: keyword,
		Message: ve.ErrorKind.LocalizedString(printer),
	})
}

// normalize converts decoder output into values encoding/json accepts.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = normalize(v)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalize(v)
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = normalize(v)
		}
		return out
	}
	return v
}
