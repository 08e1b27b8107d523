// Package services implements the driving port interfaces.
// Services contain the core business logic, sync orchestration,
// change detection and query execution, and orchestrate calls to
// driven ports (adapters).
package services
