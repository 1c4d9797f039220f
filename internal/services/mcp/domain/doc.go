// Package domain turns MCP tool traffic into catalog lookups and synthetic
// payloads.
//
// The mapping is small and explicit:
// - a Profile pairs a catalog variant with the payload style it answers with,
// - a Dispatcher validates the requested name against the catalog,
// - and results are rendered as indented JSON text content.
//
// Unknown names never become protocol errors; they are reported as
// error-flagged results carrying a hint to list tools first.
package domain
