// Package budget defines the budget estimation pipeline: three independent
// cost category passes, a contingency pass over their totals, and a synthesis
// stage that reconciles everything into one budget artifact.
package budget

import (
	"encoding/json"

	"slate/internal/pipeline"
	"slate/internal/schema"
)

const (
	StageAboveTheLine = "above_the_line"
	StageBelowTheLine = "below_the_line"
	StagePost         = "post_production"
	StageContingency  = "contingency"
	StageSynthesis    = "budget_synthesis"
)

const defaultSummary = "TBD"

const systemRole = "You are a film production budget estimator. All amounts are whole US dollars. Work only from the scene data provided; never invent scenes."

// Definition returns the budget estimation pipeline.
func Definition() pipeline.Definition {
	return pipeline.Definition{
		Kind: pipeline.KindBudget,
		Stages: []pipeline.Stage{
			{
				Name:   StageAboveTheLine,
				Rank:   1,
				System: systemRole,
				Schema: aboveTheLineSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Estimate the above-the-line costs: cast, director, producers, and writing. Base the cast cost on the roles the scenes actually require.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out AboveTheLine
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageBelowTheLine,
				Rank:   1,
				System: systemRole,
				Schema: belowTheLineSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Estimate the below-the-line costs: crew, equipment, locations, stunts, effects, and transport, driven by the scene complexity and element data.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out BelowTheLine
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StagePost,
				Rank:   1,
				System: systemRole,
				Schema: postSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Estimate the post-production costs: editorial, sound, music, color, and visual effects finishing, with the number of weeks post will take.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Post
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageContingency,
				Rank:   2,
				System: systemRole,
				Schema: contingencySchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Set a contingency for this production using the category estimates above: the percentage of the combined budget to reserve and the resulting dollar amount. Riskier productions warrant a higher percentage.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Contingency
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageSynthesis,
				Rank:   3,
				System: systemRole,
				Schema: synthesisSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Reconcile the category estimates and contingency above into the final budget: per-category totals, the grand total including contingency, and a summary of where the money goes. Where an earlier stage failed, estimate that category from the scene data directly and say so in the summary.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Synthesis
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
		},
		Aggregate: aggregate,
	}
}

// AboveTheLine is the above-the-line cost estimate payload.
type AboveTheLine struct {
	Total int     `json:"total"`
	Notes string  `json:"notes"`
	Conf  float64 `json:"confidence"`
}

func (a *AboveTheLine) Confidence() float64 { return a.Conf }

// BelowTheLine is the below-the-line cost estimate payload.
type BelowTheLine struct {
	Total    int     `json:"total"`
	CrewSize int     `json:"crew_size"`
	Conf     float64 `json:"confidence"`
}

func (b *BelowTheLine) Confidence() float64 { return b.Conf }

// Post is the post-production cost estimate payload.
type Post struct {
	Total int     `json:"total"`
	Weeks int     `json:"weeks"`
	Conf  float64 `json:"confidence"`
}

func (p *Post) Confidence() float64 { return p.Conf }

// Contingency is the contingency reserve payload.
type Contingency struct {
	Percent float64 `json:"percent"`
	Total   int     `json:"total"`
	Conf    float64 `json:"confidence"`
}

func (c *Contingency) Confidence() float64 { return c.Conf }

// Synthesis is the final reconciled budget payload.
type Synthesis struct {
	AboveTheLine   int     `json:"above_the_line"`
	BelowTheLine   int     `json:"below_the_line"`
	PostProduction int     `json:"post_production"`
	Contingency    int     `json:"contingency"`
	GrandTotal     int     `json:"grand_total"`
	Summary        string  `json:"summary"`
	Conf           float64 `json:"confidence"`
}

func (s *Synthesis) Confidence() float64 { return s.Conf }

func aboveTheLineSchema() schema.Schema {
	return schema.Schema{
		Name: StageAboveTheLine,
		Fields: []schema.Field{
			{Name: "total", Kind: schema.KindInteger, Required: true, Description: "above-the-line total in whole dollars"},
			{Name: "notes", Kind: schema.KindString, Required: true, Description: "what drives the cast and creative costs"},
			schema.Confidence(),
		},
	}
}

func belowTheLineSchema() schema.Schema {
	return schema.Schema{
		Name: StageBelowTheLine,
		Fields: []schema.Field{
			{Name: "total", Kind: schema.KindInteger, Required: true, Description: "below-the-line total in whole dollars"},
			{Name: "crew_size", Kind: schema.KindInteger, Required: true, Description: "crew headcount the estimate assumes"},
			schema.Confidence(),
		},
	}
}

func postSchema() schema.Schema {
	return schema.Schema{
		Name: StagePost,
		Fields: []schema.Field{
			{Name: "total", Kind: schema.KindInteger, Required: true, Description: "post-production total in whole dollars"},
			{Name: "weeks", Kind: schema.KindInteger, Required: true, Description: "weeks of post the estimate assumes"},
			schema.Confidence(),
		},
	}
}

func contingencySchema() schema.Schema {
	min, max := schema.Range(0, 30)
	return schema.Schema{
		Name: StageContingency,
		Fields: []schema.Field{
			{Name: "percent", Kind: schema.KindNumber, Required: true, Min: min, Max: max, Description: "contingency as a percentage of the combined budget"},
			{Name: "total", Kind: schema.KindInteger, Required: true, Description: "contingency reserve in whole dollars"},
			schema.Confidence(),
		},
	}
}

func synthesisSchema() schema.Schema {
	return schema.Schema{
		Name: StageSynthesis,
		Fields: []schema.Field{
			{Name: "above_the_line", Kind: schema.KindInteger, Required: true, Description: "reconciled above-the-line total"},
			{Name: "below_the_line", Kind: schema.KindInteger, Required: true, Description: "reconciled below-the-line total"},
			{Name: "post_production", Kind: schema.KindInteger, Required: true, Description: "reconciled post-production total"},
			{Name: "contingency", Kind: schema.KindInteger, Required: true, Description: "reconciled contingency reserve"},
			{Name: "grand_total", Kind: schema.KindInteger, Required: true, Description: "sum of every category including contingency"},
			{Name: "summary", Kind: schema.KindString, Required: true, Description: "budget summary for a producer"},
			schema.Confidence(),
		},
	}
}

// Breakdown is the aggregated budget artifact.
type Breakdown struct {
	AboveTheLine   int     `json:"above_the_line"`
	BelowTheLine   int     `json:"below_the_line"`
	PostProduction int     `json:"post_production"`
	Contingency    int     `json:"contingency"`
	GrandTotal     int     `json:"grand_total"`
	Summary        string  `json:"summary"`
	Confidence     float64 `json:"confidence"`
}

// ArtifactKind identifies the artifact's pipeline.
func (Breakdown) ArtifactKind() pipeline.Kind { return pipeline.KindBudget }

// aggregate resolves each category through the stage precedence: synthesis,
// then the category's own stage, then zero. When the synthesis failed the
// grand total is the sum of whatever categories completed.
func aggregate(run *pipeline.Run, confidence float64) pipeline.Artifact {
	breakdown := Breakdown{
		Summary:    defaultSummary,
		Confidence: confidence,
	}
	if out, ok := run.Output(StageAboveTheLine).(*AboveTheLine); ok {
		breakdown.AboveTheLine = out.Total
	}
	if out, ok := run.Output(StageBelowTheLine).(*BelowTheLine); ok {
		breakdown.BelowTheLine = out.Total
	}
	if out, ok := run.Output(StagePost).(*Post); ok {
		breakdown.PostProduction = out.Total
	}
	if out, ok := run.Output(StageContingency).(*Contingency); ok {
		breakdown.Contingency = out.Total
	}
	breakdown.GrandTotal = breakdown.AboveTheLine + breakdown.BelowTheLine +
		breakdown.PostProduction + breakdown.Contingency
	if out, ok := run.Output(StageSynthesis).(*Synthesis); ok {
		breakdown.AboveTheLine = out.AboveTheLine
		breakdown.BelowTheLine = out.BelowTheLine
		breakdown.PostProduction = out.PostProduction
		breakdown.Contingency = out.Contingency
		breakdown.GrandTotal = out.GrandTotal
		breakdown.Summary = out.Summary
	}
	return breakdown
}
