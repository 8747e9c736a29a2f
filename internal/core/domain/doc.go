// Package domain defines the core entities for Drivescope.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Item: A Drive file or folder
//   - Permission: A single access grant on an item
//   - Tree: The folder hierarchy collected by a walk
//   - Run: The record of one completed audit
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
