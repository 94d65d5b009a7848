package identity

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"My App!! 2024", "MyApp2024"},
		{"", DefaultName},
		{"!!! ???", DefaultName},
		{"hello_world-2", "hello_world-2"},
		{"../../etc", "etc"},
		{`a"b<c>d`, "abcd"},
		{"Café", "Caf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.raw), "SanitizeName(%q)", tt.raw)
	}
}

func TestSanitizeName_Property(t *testing.T) {
	f := func(raw string) bool {
		got := SanitizeName(raw)
		if got == "" {
			return false
		}
		for _, r := range got {
			if !isNameRune(r) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestSanitizeNamespace(t *testing.T) {
	assert.Equal(t, DefaultNamespace, SanitizeNamespace(""))
	assert.Equal(t, DefaultNamespace, SanitizeNamespace("   "))
	assert.Equal(t, "com.example.app", SanitizeNamespace(" com.example.app "))
	// Malformed segments pass through untouched.
	assert.Equal(t, "com.1bad..x", SanitizeNamespace("com.1bad..x"))
}

func TestNewProjectSpec(t *testing.T) {
	parent := t.TempDir()
	spec := NewProjectSpec("My App!! 2024", "com.example.app", parent, Defaults{})

	assert.Equal(t, "My App!! 2024", spec.RawName)
	assert.Equal(t, "MyApp2024", spec.Name)
	assert.Equal(t, "com.example.app", spec.Namespace)
	assert.Equal(t, filepath.Join(parent, "MyApp2024"), spec.Root)
	assert.Equal(t, []string{"com", "example", "app"}, spec.Segments())
	assert.Equal(t, filepath.Join("com", "example", "app"), spec.NamespacePath())
}

func TestNewProjectSpec_Defaults(t *testing.T) {
	spec := NewProjectSpec("", "", "/work", Defaults{Name: "Demo App", Namespace: "org.demo"})
	assert.Equal(t, "DemoApp", spec.Name)
	assert.Equal(t, "org.demo", spec.Namespace)

	spec = NewProjectSpec("", "", "/work", Defaults{Name: "***"})
	assert.Equal(t, DefaultName, spec.Name, "unusable configured default falls back to the fixed one")
	assert.Equal(t, DefaultNamespace, spec.Namespace)
}

func TestNamespaceIssues(t *testing.T) {
	assert.Empty(t, NamespaceIssues("com.example.app"))
	assert.Empty(t, NamespaceIssues("org.my_app.$internal"))

	issues := NamespaceIssues("com..1bad.class.ok-not")
	assert.Len(t, issues, 4)
	joined := strings.Join(issues, "\n")
	assert.Contains(t, joined, "segment 2 is empty")
	assert.Contains(t, joined, `"1bad"`)
	assert.Contains(t, joined, `"class" is a reserved Java keyword`)
	assert.Contains(t, joined, `"ok-not"`)
}

func TestDeepNamespacePath(t *testing.T) {
	spec := NewProjectSpec("x", "a.b.c.d.e.f.g.h", "/p", Defaults{})
	assert.Len(t, spec.Segments(), 8)
	assert.Equal(t, filepath.Join("a", "b", "c", "d", "e", "f", "g", "h"), spec.NamespacePath())
}

func TestDefaults_Resolved(t *testing.T) {
	assert.Equal(t, Defaults{Name: DefaultName, Namespace: DefaultNamespace}, Defaults{}.Resolved())
	assert.Equal(t, Defaults{Name: "Cfg", Namespace: "org.cfg"}, Defaults{Name: "C f g", Namespace: " org.cfg "}.Resolved())
}
