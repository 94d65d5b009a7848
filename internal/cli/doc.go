// Package cli defines the Cobra command tree for the apkforge CLI. The root
// command runs the project generator; each other file registers one
// subcommand (doctor, config, version). Commands delegate to internal
// packages and only handle flags, I/O, and exit status.
package cli
