// Package errors provides coded errors shared across fauxtools packages.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Catalog errors
	CodeCatalogInvalid Code = "CATALOG_INVALID"
	CodeVariantUnknown Code = "VARIANT_UNKNOWN"

	// Dispatch errors
	CodeToolNotFound Code = "TOOL_NOT_FOUND"

	// Configuration errors
	CodeConfigInvalid Code = "CONFIG_INVALID"
)

// Diagnostic renders the code in the form surfaced to MCP clients.
func (c Code) Diagnostic() string {
	if c == "" {
		return "E_" + string(CodeUnknown)
	}
	return "E_" + string(c)
}
