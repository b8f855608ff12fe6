// Package runstore persists pipeline run history in SQLite so past analyses
// can be listed, inspected, and pruned from the CLI. Stage results and
// artifacts are stored as JSON documents alongside the columns used for
// listing and filtering.
package runstore
