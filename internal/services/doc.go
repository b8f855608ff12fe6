// Package services provides the shared error taxonomy and context helpers
// used by stage implementations and external service clients.
//
// Stage and client failures are tagged with one of the sentinel errors
// (validation, configuration, provider, timeout, transient) via Wrap so the
// pipeline can classify them without string matching.
package services
