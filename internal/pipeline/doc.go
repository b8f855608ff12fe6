// Package pipeline is the generalized analysis engine shared by the script,
// schedule, and budget pipelines. A Definition declares an ordered list of
// schema-constrained generation stages plus an aggregation rule; the
// Orchestrator attempts every stage exactly once, threading each prior
// stage's output (or an explicit no-data marker) into later prompts, and
// assembles a best-effort artifact from whatever completed.
//
// Failure handling is layered: stage failures are isolated at the Executor
// boundary as StageResult error records, pre-flight document failures become
// the run's top-level error with no stages attempted, and the caller always
// receives a well-formed Run value. The pipeline performs no I/O of its own
// beyond the generation calls.
package pipeline
