// Package breakdown normalizes raw planning documents into canonical scene
// records: capped, ordered, with location type and time of day inferred from
// headings and category lists (props, equipment, effects, stunts, vehicles)
// extracted by keyword matching. Normalization is deterministic for a fixed
// input and never fails on missing fields.
package breakdown
