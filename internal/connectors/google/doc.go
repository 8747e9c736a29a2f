// Package google adapts the Google Drive v3 API to the DriveLister port.
//
// The adapter is strictly read-only: it requests only the
// drive.metadata.readonly scope and never mutates Drive content or
// permissions. Every call passes through a token-bucket rate limiter and
// maps googleapi failures onto the domain error taxonomy, so the walker's
// retry and skip policy stays transport-agnostic.
package google
