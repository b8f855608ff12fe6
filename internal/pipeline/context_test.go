package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"slate/internal/breakdown"
)

func TestSceneSummaryEmpty(t *testing.T) {
	rc := NewRenderContext("Untitled Production", nil)
	summary := rc.SceneSummary()
	if !strings.Contains(summary, "No scene data is available") {
		t.Fatalf("empty context must state the absence explicitly:\n%s", summary)
	}
	if !strings.Contains(summary, "Untitled Production") {
		t.Fatalf("summary missing title:\n%s", summary)
	}
}

func TestSceneSummaryRendersScenes(t *testing.T) {
	rc := NewRenderContext("Heist", []breakdown.Scene{
		{
			ID:           "S1",
			LocationType: breakdown.LocationInterior,
			Location:     "WAREHOUSE",
			TimeOfDay:    "NIGHT",
			Description:  "Two guards argue.",
			Cast:         []string{"GUARD A"},
			Props:        []string{"gun"},
			Complexity:   breakdown.ClassMedium,
			Priority:     breakdown.ClassLow,
		},
	})
	summary := rc.SceneSummary()
	for _, want := range []string{"Scenes (1):", "S1", "Warehouse", "GUARD A", "props: gun", "complexity: MEDIUM"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestPriorStagesMarkers(t *testing.T) {
	rc := NewRenderContext("Heist", nil)
	rc.record(StageResult{Name: "first", Completed: true, Raw: json.RawMessage(`{"value":"alpha"}`)})
	rc.record(StageResult{Name: "second", Err: "provider unreachable"})

	prior := rc.PriorStages()
	if !strings.Contains(prior, `Output of the "first" analysis stage`) || !strings.Contains(prior, "alpha") {
		t.Fatalf("completed stage output missing:\n%s", prior)
	}
	if !strings.Contains(prior, `The "second" analysis stage failed and produced no data (provider unreachable)`) {
		t.Fatalf("failed stage marker missing:\n%s", prior)
	}
}

func TestExecutorRecoversPanic(t *testing.T) {
	gen := newScriptedGenerator()
	gen.succeed("a", "alpha", 0.5)
	stage := testStage("a", 1)
	stage.Decode = func(raw json.RawMessage) (StageOutput, error) {
		panic("decoder bug")
	}
	exec := NewExecutor(gen, "", 0)

	result := exec.Execute(context.Background(), stage, NewRenderContext("Heist", nil))
	if result.Completed {
		t.Fatal("panicking decoder must fail the stage")
	}
	if !strings.Contains(result.Err, "panic") {
		t.Fatalf("expected panic detail, got %q", result.Err)
	}
}
