package pipeline

import (
	"fmt"
	"strings"

	"slate/internal/breakdown"
)

// RenderContext carries everything a stage prompt can see: the normalized
// scene summary plus the final result of every previously attempted stage.
// Failed stages are rendered as explicit no-data markers so the collaborator
// is never left to guess at missing information.
type RenderContext struct {
	Title  string
	Scenes []breakdown.Scene

	attempted []StageResult
}

// NewRenderContext builds the context for a fresh run.
func NewRenderContext(title string, scenes []breakdown.Scene) *RenderContext {
	return &RenderContext{Title: title, Scenes: scenes}
}

// record appends a finished stage result. The orchestrator calls this between
// ranks, in declaration order; prompts only ever read the context.
func (rc *RenderContext) record(result StageResult) {
	rc.attempted = append(rc.attempted, result)
}

// Attempted returns the results recorded so far, in declaration order.
func (rc *RenderContext) Attempted() []StageResult {
	return rc.attempted
}

// SceneSummary renders the normalized scenes into prompt text. With no
// scenes it states that explicitly rather than omitting the section.
func (rc *RenderContext) SceneSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Production: %s\n", rc.Title)
	if len(rc.Scenes) == 0 {
		b.WriteString("No scene data is available for this document.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Scenes (%d):\n", len(rc.Scenes))
	for _, scene := range rc.Scenes {
		fmt.Fprintf(&b, "- %s %s", scene.ID, scene.DisplayLabel())
		if scene.Description != "" {
			fmt.Fprintf(&b, ": %s", scene.Description)
		}
		if len(scene.Cast) > 0 {
			fmt.Fprintf(&b, " | cast: %s", strings.Join(scene.Cast, ", "))
		}
		writeCategory(&b, "props", scene.Props)
		writeCategory(&b, "equipment", scene.Equipment)
		writeCategory(&b, "effects", scene.Effects)
		writeCategory(&b, "stunts", scene.Stunts)
		writeCategory(&b, "vehicles", scene.Vehicles)
		fmt.Fprintf(&b, " | complexity: %s, priority: %s\n", scene.Complexity, scene.Priority)
	}
	return b.String()
}

func writeCategory(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, " | %s: %s", label, strings.Join(items, ", "))
}

// PriorStages renders every previously attempted stage: its validated payload
// when it completed, or an explicit failure sentence when it did not.
func (rc *RenderContext) PriorStages() string {
	if len(rc.attempted) == 0 {
		return ""
	}
	var b strings.Builder
	for _, result := range rc.attempted {
		if result.Completed {
			fmt.Fprintf(&b, "Output of the %q analysis stage:\n%s\n", result.Name, string(result.Raw))
		} else {
			fmt.Fprintf(&b, "The %q analysis stage failed and produced no data (%s). Do not assume its results; state lower confidence where its output would have helped.\n", result.Name, result.Err)
		}
	}
	return b.String()
}

// Render produces the standard full context block used by most prompts.
func (rc *RenderContext) Render() string {
	summary := rc.SceneSummary()
	prior := rc.PriorStages()
	if prior == "" {
		return summary
	}
	return summary + "\n" + prior
}
