// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// The walker and audit services depend on these interfaces, and
// infrastructure adapters implement them:
//
//   - DriveLister: read-only Drive metadata and permission listing
//   - Renderer: writes the collected tree as report pages
//   - AuditStore: persists run history (optional, nil disables history)
//   - ConfigStore: application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
