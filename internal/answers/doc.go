// Package answers supplies the project identity and the overwrite decision
// to a scaffold run. The same run logic is driven by a human at a terminal
// (Interactive), by fixed values (Static), or by an answers file (LoadFile).
package answers
