// Package services implements the core use cases of Drivescope.
//
// Walker collects the annotated folder tree from the DriveLister port;
// Audit orchestrates a full run: collect, render, record history.
// Services depend only on domain types and driven ports, never on
// adapters directly.
package services
