package budget

import (
	"testing"

	"slate/internal/pipeline"
)

func runWith(t *testing.T, outputs map[string]pipeline.StageOutput) *pipeline.Run {
	t.Helper()
	def := Definition()
	run := &pipeline.Run{
		Kind:       def.Kind,
		Title:      "Test Production",
		StageOrder: def.StageNames(),
		Stages:     make(map[string]pipeline.StageResult, len(def.Stages)),
	}
	for _, name := range run.StageOrder {
		if out, ok := outputs[name]; ok {
			run.Stages[name] = pipeline.StageResult{Name: name, Completed: true, Output: out}
		} else {
			run.Stages[name] = pipeline.StageResult{Name: name, Err: "provider unreachable"}
		}
	}
	return run
}

func TestDefinitionValid(t *testing.T) {
	def := Definition()
	if err := def.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	names := def.StageNames()
	want := []string{StageAboveTheLine, StageBelowTheLine, StagePost, StageContingency, StageSynthesis}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("stage %d: expected %q, got %q", i, name, names[i])
		}
	}
}

func TestAggregateSynthesisWins(t *testing.T) {
	run := runWith(t, map[string]pipeline.StageOutput{
		StageAboveTheLine: &AboveTheLine{Total: 900_000, Conf: 0.5},
		StageSynthesis: &Synthesis{
			AboveTheLine:   1_000_000,
			BelowTheLine:   2_500_000,
			PostProduction: 600_000,
			Contingency:    410_000,
			GrandTotal:     4_510_000,
			Summary:        "Below the line dominates.",
			Conf:           0.7,
		},
	})
	breakdown := Definition().Aggregate(run, 0.7).(Breakdown)
	if breakdown.GrandTotal != 4_510_000 || breakdown.AboveTheLine != 1_000_000 {
		t.Fatalf("synthesis totals must win: %+v", breakdown)
	}
	if breakdown.Summary != "Below the line dominates." {
		t.Fatalf("unexpected summary %q", breakdown.Summary)
	}
}

func TestAggregateSumsCompletedCategories(t *testing.T) {
	run := runWith(t, map[string]pipeline.StageOutput{
		StageAboveTheLine: &AboveTheLine{Total: 900_000, Conf: 0.5},
		StagePost:         &Post{Total: 500_000, Weeks: 10, Conf: 0.6},
		StageContingency:  &Contingency{Percent: 10, Total: 140_000, Conf: 0.4},
	})
	breakdown := Definition().Aggregate(run, 0.6).(Breakdown)
	if breakdown.BelowTheLine != 0 {
		t.Fatalf("failed category must default to zero, got %d", breakdown.BelowTheLine)
	}
	if breakdown.GrandTotal != 1_540_000 {
		t.Fatalf("grand total must sum completed categories, got %d", breakdown.GrandTotal)
	}
	if breakdown.Summary != "TBD" {
		t.Fatalf("summary must default when synthesis failed, got %q", breakdown.Summary)
	}
}
