// Package service wires MCP transports to the tool dispatcher.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio or HTTP, keeps tool listing in catalog order, and delegates payload
// meaning to the domain package.
package service
