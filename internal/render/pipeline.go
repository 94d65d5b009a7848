package render

import (
	"path"

	"github.com/apkforge/apkforge/internal/android"
	"github.com/apkforge/apkforge/internal/identity"
	"github.com/apkforge/apkforge/internal/layout"
)

// DexName is the file d8 always writes into its output directory.
const DexName = "classes.dex"

// Pipeline names every intermediate and final artifact of the build script,
// relative to the project root. Each stage reads its inputs from here.
type Pipeline struct {
	ProjectName string
	SourceDir   string
	ClassesDir  string
	PlatformJar string
	DexDir      string
	DexFile     string
	Manifest    string
	UnsignedAPK string
	Keystore    string
	StorePass   string
	SignedAPK   string
	MinSDK      int
}

// NewPipeline derives the stage artifacts for spec.
func NewPipeline(spec *identity.ProjectSpec, c android.Constants) Pipeline {
	dexDir := path.Join(layout.BinDir, "dex")
	return Pipeline{
		ProjectName: spec.Name,
		SourceDir:   layout.SourceRoot,
		ClassesDir:  path.Join(layout.BinDir, "classes"),
		PlatformJar: android.PlatformJarFile,
		DexDir:      dexDir,
		DexFile:     path.Join(dexDir, DexName),
		Manifest:    android.ManifestFile,
		UnsignedAPK: "unaligned.apk",
		Keystore:    c.Keystore.Path,
		StorePass:   c.Keystore.StorePass,
		SignedAPK:   spec.Name + ".apk",
		MinSDK:      c.MinSDK,
	}
}

// Intermediates lists the files the script removes after a successful build.
func (p Pipeline) Intermediates() []string {
	return []string{p.UnsignedAPK, p.DexFile}
}
