// Package llm implements the generation collaborator: a JSON-mode chat
// completion client that renders each stage's schema contract into the system
// prompt, validates the decoded payload against that contract, and retries
// transient transport failures with capped exponential backoff. Stage-level
// semantics (one generation call per stage, no stage retries) live in the
// pipeline package; retries here are internal to a single collaborator call.
package llm
