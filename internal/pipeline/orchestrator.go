package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"slate/internal/breakdown"
	"slate/internal/document"
	"slate/internal/logging"
	"slate/internal/services"
)

// Options tunes a pipeline orchestrator.
type Options struct {
	// Model overrides the collaborator's configured model when non-empty.
	Model string
	// StageTimeout bounds each stage's collaborator call. Zero disables it.
	StageTimeout time.Duration
	// SceneCap bounds document normalization.
	SceneCap int
	// DefaultTimeOfDay is assumed for scenes without a marker.
	DefaultTimeOfDay string
	// Logger receives run and stage lifecycle events. Nil disables logging.
	Logger *slog.Logger
}

// Orchestrator runs every declared stage of one pipeline definition in rank
// order and aggregates a best-effort artifact from whatever completed.
type Orchestrator struct {
	def    Definition
	exec   *Executor
	opts   Options
	logger *slog.Logger
}

// New validates the definition and constructs an orchestrator around the
// supplied generation collaborator.
func New(def Definition, gen Generator, opts Options) (*Orchestrator, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		def:    def,
		exec:   NewExecutor(gen, opts.Model, opts.StageTimeout),
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// Run executes the pipeline against a source document. It never returns an
// error: pre-flight failures surface in the run's Error field with an empty
// stage map, and stage failures surface as per-stage error records. Every
// declared stage is attempted exactly once regardless of earlier failures.
func (o *Orchestrator) Run(ctx context.Context, src *document.Source) *Run {
	run := &Run{
		ID:         uuid.NewString(),
		Kind:       o.def.Kind,
		Title:      src.DisplayTitle(),
		StageOrder: o.def.StageNames(),
		Stages:     make(map[string]StageResult, len(o.def.Stages)),
		StartedAt:  time.Now().UTC(),
	}
	ctx = services.WithRunID(ctx, run.ID)
	ctx = services.WithPipeline(ctx, string(o.def.Kind))

	logger := logging.WithContext(ctx, o.logger)
	if err := src.Validate(); err != nil {
		run.Error = err.Error()
		run.finish()
		logger.Warn("run rejected before any stage",
			logging.String(logging.FieldEventType, "run_rejected"),
			logging.Error(err))
		return run
	}

	scenes := breakdown.Normalize(src, breakdown.Options{
		Cap:              o.opts.SceneCap,
		DefaultTimeOfDay: o.opts.DefaultTimeOfDay,
	})
	run.SceneCount = len(scenes)
	rc := NewRenderContext(run.Title, scenes)

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("scenes", run.SceneCount))

	for _, group := range o.rankGroups() {
		results := o.executeGroup(ctx, group, rc)
		// Recorded in declaration order so later prompts render
		// deterministically regardless of fan-out completion order.
		for _, result := range results {
			run.Stages[result.Name] = result
			rc.record(result)
			if result.Completed {
				logger.Info("stage completed",
					logging.String(logging.FieldEventType, "stage_complete"),
					logging.String(logging.FieldStage, result.Name),
					logging.Duration("duration", result.Duration))
			} else {
				logger.Warn("stage failed",
					logging.String(logging.FieldEventType, "stage_failure"),
					logging.String(logging.FieldStage, result.Name),
					logging.Duration("duration", result.Duration),
					logging.String("reason", result.Err))
			}
		}
	}

	run.Success = run.CompletedCount() > 0
	if run.Success {
		run.Artifact = o.def.Aggregate(run, run.MaxConfidence())
	}
	run.finish()
	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_finish"),
		logging.Bool("success", run.Success),
		logging.Int("completed", run.CompletedCount()),
		logging.Int("declared", len(run.StageOrder)),
		logging.Float64("confidence", run.MaxConfidence()),
		logging.Duration("duration", run.ProcessingTime))
	return run
}

// rankGroups partitions the declared stages into consecutive same-rank
// groups, preserving declaration order within each group.
func (o *Orchestrator) rankGroups() [][]Stage {
	var groups [][]Stage
	for _, stage := range o.def.Stages {
		if len(groups) > 0 {
			last := groups[len(groups)-1]
			if last[0].Rank == stage.Rank {
				groups[len(groups)-1] = append(last, stage)
				continue
			}
		}
		groups = append(groups, []Stage{stage})
	}
	return groups
}

// executeGroup runs one rank's stages. Stages sharing a rank have no data
// dependency, so they fan out concurrently against a context snapshot that
// already holds every lower rank's final result.
func (o *Orchestrator) executeGroup(ctx context.Context, group []Stage, rc *RenderContext) []StageResult {
	if len(group) == 1 {
		return []StageResult{o.exec.Execute(ctx, group[0], rc)}
	}
	results := make([]StageResult, len(group))
	var wg sync.WaitGroup
	for i, stage := range group {
		wg.Add(1)
		go func(slot int, stage Stage) {
			defer wg.Done()
			results[slot] = o.exec.Execute(ctx, stage, rc)
		}(i, stage)
	}
	wg.Wait()
	return results
}

func (r *Run) finish() {
	r.FinishedAt = time.Now().UTC()
	r.ProcessingTime = r.FinishedAt.Sub(r.StartedAt)
}
