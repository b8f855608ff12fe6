package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slate/internal/services"
	"slate/internal/services/llm"
)

// Executor runs a single stage against the generation collaborator and
// converts every failure mode into a StageResult error record. No error
// escapes this boundary and no stage is ever attempted twice within a run.
type Executor struct {
	gen          Generator
	model        string
	stageTimeout time.Duration
}

// NewExecutor constructs a stage executor. stageTimeout bounds each
// collaborator call; zero disables the per-stage deadline.
func NewExecutor(gen Generator, model string, stageTimeout time.Duration) *Executor {
	return &Executor{gen: gen, model: model, stageTimeout: stageTimeout}
}

// Execute performs the stage's single generation call and returns its result.
func (e *Executor) Execute(ctx context.Context, stage Stage, rc *RenderContext) (result StageResult) {
	result = StageResult{Name: stage.Name}
	start := time.Now()
	// A panicking prompt builder or decoder fails the stage, not the run.
	defer func() {
		if recovered := recover(); recovered != nil {
			result = failedResult(stage.Name, time.Since(start),
				services.Wrap(services.ErrTransient, stage.Name, "execute", fmt.Sprintf("panic: %v", recovered), nil))
		}
	}()

	if e.gen == nil {
		return failedResult(stage.Name, time.Since(start),
			services.Wrap(services.ErrConfiguration, stage.Name, "execute", "generation collaborator unavailable", nil))
	}

	stageCtx := services.WithStage(ctx, stage.Name)
	if e.stageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(stageCtx, e.stageTimeout)
		defer cancel()
	}

	raw, err := e.gen.GenerateObject(stageCtx, llm.Request{
		Model:  e.model,
		System: stage.System,
		Prompt: stage.Prompt(rc),
		Schema: stage.Schema,
	})
	duration := time.Since(start)
	if err != nil {
		marker := services.ErrProvider
		if errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return failedResult(stage.Name, duration,
			services.Wrap(marker, stage.Name, "generate", "", err))
	}

	output, err := stage.Decode(raw)
	if err != nil {
		return failedResult(stage.Name, time.Since(start),
			services.Wrap(services.ErrValidation, stage.Name, "decode payload", "", err))
	}

	result.Completed = true
	result.Duration = time.Since(start)
	result.Raw = raw
	result.Output = output
	return result
}

func failedResult(name string, duration time.Duration, err error) StageResult {
	return StageResult{
		Name:     name,
		Duration: duration,
		Err:      services.Message(err),
	}
}
