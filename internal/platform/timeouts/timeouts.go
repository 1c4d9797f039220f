// Package timeouts defines shared timeout constants used by the MCP binaries.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight work during graceful
// shutdown.
const Shutdown = 5 * time.Second

// SessionIdle is how long an HTTP MCP session may stay unused before it is
// closed.
const SessionIdle = 5 * time.Minute

// SessionSweep is the interval between idle session sweeps.
const SessionSweep = time.Minute

// HealthProbe caps a single gRPC health check call.
const HealthProbe = time.Second

// HealthCheck bounds the -check-health command, retries included.
const HealthCheck = 5 * time.Second
