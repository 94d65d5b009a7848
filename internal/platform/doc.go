// Package platform wraps filesystem operations whose behavior differs by OS.
// Permission bits are applied on Unix and ignored on Windows, which has no
// equivalent for the executable build script or the private keystore.
package platform
