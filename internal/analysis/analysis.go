// Package analysis registers the built-in pipeline definitions.
package analysis

import (
	"fmt"

	"slate/internal/analysis/budget"
	"slate/internal/analysis/schedule"
	"slate/internal/analysis/script"
	"slate/internal/pipeline"
)

// Definition returns the pipeline definition for a kind.
func Definition(kind pipeline.Kind) (pipeline.Definition, error) {
	switch kind {
	case pipeline.KindScript:
		return script.Definition(), nil
	case pipeline.KindSchedule:
		return schedule.Definition(), nil
	case pipeline.KindBudget:
		return budget.Definition(), nil
	default:
		return pipeline.Definition{}, fmt.Errorf("unknown pipeline kind %q", kind)
	}
}

// Kinds lists the registered pipeline kinds in display order.
func Kinds() []pipeline.Kind {
	return []pipeline.Kind{pipeline.KindScript, pipeline.KindSchedule, pipeline.KindBudget}
}
