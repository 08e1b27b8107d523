// Package driving defines the interfaces that external callers use to
// drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI and MCP adapters depend on these interfaces; core services
// implement them.
package driving
