// Package scaffold runs one project generation end to end: toolchain
// preflight, identity, directory layout, asset provisioning, rendering, and
// the stamp. It powers the root "apkforge" command.
//
// Nothing is written before preflight passes. After that the run is
// idempotent: existing assets are kept, generated text files are
// overwritten, and an interrupted run can simply be repeated.
package scaffold
