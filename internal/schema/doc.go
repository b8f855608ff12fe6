// Package schema declares the field/type/enum/range contracts each generation
// stage imposes on its output. The generation collaborator enforces a
// contract on every decoded payload before it reaches the pipeline, and the
// same contract renders the JSON-only response instructions embedded in the
// system prompt.
package schema
