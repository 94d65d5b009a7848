// Package provision ensures the external assets a generated project needs
// exist on disk: the platform jar, fetched over HTTP, and the debug signing
// keystore, generated with keytool. Presence is decided solely by the
// asset's local path existing, so an asset is acquired at most once per
// project directory no matter how often the scaffolder is re-run.
package provision
