package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"slate/internal/schema"
	"slate/internal/services/llm"
)

// Kind identifies one of the analysis pipelines.
type Kind string

const (
	KindScript   Kind = "script"
	KindSchedule Kind = "schedule"
	KindBudget   Kind = "budget"
)

// ParseKind converts a string into a known pipeline kind.
func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindScript:
		return KindScript, true
	case KindSchedule:
		return KindSchedule, true
	case KindBudget:
		return KindBudget, true
	default:
		return "", false
	}
}

// Generator is the generation collaborator contract. The pipeline never
// inspects the provider; it only sees validated payload bytes or an error.
type Generator interface {
	GenerateObject(ctx context.Context, req llm.Request) (json.RawMessage, error)
}

// StageOutput is implemented by every typed stage payload.
type StageOutput interface {
	// Confidence is the stage's self-reported reliability in [0,1].
	Confidence() float64
}

// Stage declares one schema-constrained generation step.
type Stage struct {
	// Name keys the stage in the run's stage map.
	Name string
	// Rank orders execution. Stages sharing a rank have no data dependency
	// on one another and run concurrently; all lower ranks are final before
	// a rank starts. Ranks must be non-decreasing in declaration order.
	Rank int
	// System is the stage's role instruction for the collaborator.
	System string
	// Schema is the declared output contract.
	Schema schema.Schema
	// Prompt renders the accumulated context into the stage's user prompt.
	Prompt func(rc *RenderContext) string
	// Decode converts a validated payload into the stage's typed output.
	Decode func(raw json.RawMessage) (StageOutput, error)
}

// Artifact is the aggregated, best-effort final output of a pipeline.
type Artifact interface {
	ArtifactKind() Kind
}

// AggregateFunc builds the final artifact from a finished run. It is invoked
// only when at least one stage completed; confidence is the maximum reported
// by the completed stages.
type AggregateFunc func(run *Run, confidence float64) Artifact

// Definition is a complete parameterized pipeline: an ordered stage list plus
// the aggregation rule for its artifact.
type Definition struct {
	Kind      Kind
	Stages    []Stage
	Aggregate AggregateFunc
}

// Validate checks the definition for structural problems before any run.
func (d Definition) Validate() error {
	if d.Kind == "" {
		return fmt.Errorf("pipeline kind required")
	}
	if len(d.Stages) == 0 {
		return fmt.Errorf("pipeline %s: at least one stage required", d.Kind)
	}
	if d.Aggregate == nil {
		return fmt.Errorf("pipeline %s: aggregate function required", d.Kind)
	}
	seen := make(map[string]struct{}, len(d.Stages))
	lastRank := 0
	for i, stage := range d.Stages {
		if strings.TrimSpace(stage.Name) == "" {
			return fmt.Errorf("pipeline %s: stage %d has no name", d.Kind, i)
		}
		if _, dup := seen[stage.Name]; dup {
			return fmt.Errorf("pipeline %s: duplicate stage %q", d.Kind, stage.Name)
		}
		seen[stage.Name] = struct{}{}
		if stage.Prompt == nil || stage.Decode == nil {
			return fmt.Errorf("pipeline %s: stage %q missing prompt or decoder", d.Kind, stage.Name)
		}
		if err := stage.Schema.ValidateDefinition(); err != nil {
			return fmt.Errorf("pipeline %s: stage %q: %w", d.Kind, stage.Name, err)
		}
		if i > 0 && stage.Rank < lastRank {
			return fmt.Errorf("pipeline %s: stage %q rank decreases", d.Kind, stage.Name)
		}
		lastRank = stage.Rank
	}
	return nil
}

// StageNames returns the declared stage names in order.
func (d Definition) StageNames() []string {
	names := make([]string, len(d.Stages))
	for i, stage := range d.Stages {
		names[i] = stage.Name
	}
	return names
}

// StageResult records the outcome of one stage attempt.
// Completed is true iff Output and Raw are present and Err is empty.
type StageResult struct {
	Name      string          `json:"name"`
	Completed bool            `json:"completed"`
	Duration  time.Duration   `json:"duration"`
	Raw       json.RawMessage `json:"data,omitempty"`
	Err       string          `json:"error,omitempty"`
	Output    StageOutput     `json:"-"`
}

// Run is the immutable result of one pipeline invocation.
type Run struct {
	ID             string                 `json:"id"`
	Kind           Kind                   `json:"kind"`
	Title          string                 `json:"title"`
	SceneCount     int                    `json:"scene_count"`
	StageOrder     []string               `json:"stage_order"`
	Stages         map[string]StageResult `json:"stages"`
	Artifact       Artifact               `json:"artifact,omitempty"`
	Success        bool                   `json:"success"`
	Error          string                 `json:"error,omitempty"`
	StartedAt      time.Time              `json:"started_at"`
	FinishedAt     time.Time              `json:"finished_at"`
	ProcessingTime time.Duration          `json:"processing_time"`
}

// CompletedCount reports how many stages completed.
func (r *Run) CompletedCount() int {
	count := 0
	for _, result := range r.Stages {
		if result.Completed {
			count++
		}
	}
	return count
}

// Result returns the stage result for name.
func (r *Run) Result(name string) (StageResult, bool) {
	result, ok := r.Stages[name]
	return result, ok
}

// Output returns the typed output of a completed stage, or nil.
func (r *Run) Output(name string) StageOutput {
	if result, ok := r.Stages[name]; ok && result.Completed {
		return result.Output
	}
	return nil
}

// MaxConfidence returns the maximum confidence reported by completed stages,
// clamped to [0,1]. It returns 0 when no stage completed.
func (r *Run) MaxConfidence() float64 {
	max := 0.0
	for _, result := range r.Stages {
		if !result.Completed || result.Output == nil {
			continue
		}
		if conf := result.Output.Confidence(); conf > max {
			max = conf
		}
	}
	if max < 0 {
		return 0
	}
	if max > 1 {
		return 1
	}
	return max
}
