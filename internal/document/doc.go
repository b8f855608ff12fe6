// Package document models the raw production-planning imports slate analyzes
// and loads them from JSON or YAML files. The pre-flight Validate check is the
// only shape requirement; individual record fields are all optional.
package document
