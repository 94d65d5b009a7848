// Package render produces the three generated text artifacts of a project:
// the Android manifest, the entry activity source, and the build script.
//
// Rendering is pure. The same ProjectSpec and Constants always yield
// byte-identical output, and nothing is written to disk here. The build
// script's stages all take their file names from one Pipeline value, so an
// artifact produced by one stage is always the one the next stage consumes.
package render
