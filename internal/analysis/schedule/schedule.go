// Package schedule defines the shooting schedule pipeline: complexity and
// location grouping passes feed a cast day-out-of-days estimate, a draft
// schedule, and a final synthesis that owns the authoritative day count.
package schedule

import (
	"encoding/json"

	"slate/internal/pipeline"
	"slate/internal/schema"
)

const (
	StageComplexity = "scene_complexity"
	StageGroups     = "location_groups"
	StageCastDays   = "cast_days"
	StageDraft      = "schedule_draft"
	StageSynthesis  = "schedule_synthesis"
)

const (
	defaultSummary = "TBD"
	defaultRisk    = "MEDIUM"
)

const systemRole = "You are a film production scheduler. Work only from the scene data provided; never invent scenes."

// Definition returns the shooting schedule pipeline. Both the draft and the
// synthesis stages emit total_days; the synthesis value wins whenever that
// stage completes.
func Definition() pipeline.Definition {
	return pipeline.Definition{
		Kind: pipeline.KindSchedule,
		Stages: []pipeline.Stage{
			{
				Name:   StageComplexity,
				Rank:   1,
				System: systemRole,
				Schema: complexitySchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Review every scene's complexity classification and explain which scenes will consume the most shooting time and why.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Complexity
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageGroups,
				Rank:   1,
				System: systemRole,
				Schema: groupsSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Group the scenes by location so scenes sharing a location shoot consecutively. List each group and note any location that forces a company move.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Groups
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageCastDays,
				Rank:   2,
				System: systemRole,
				Schema: castDaysSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Estimate the day-out-of-days for the cast using the complexity and location grouping analyses above: how many workdays the principal cast needs and which actors drive the count.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out CastDays
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageDraft,
				Rank:   3,
				System: systemRole,
				Schema: draftSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Draft the shooting schedule from the analyses above: total shooting days and the order locations should shoot in.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Draft
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageSynthesis,
				Rank:   4,
				System: systemRole,
				Schema: synthesisSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Finalize the schedule. Reconcile the draft against the cast and location analyses, correct the total day count if the draft missed anything, and summarize the plan. Where an earlier stage failed, work from the scene data directly and say so in the summary.\n\n" + rc.Render()
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

// Complexity is the scene complexity review payload.
type Complexity struct {
	HighComplexityCount int     `json:"high_complexity_count"`
	Notes               string  `json:"notes"`
	Conf                float64 `json:"confidence"`
}

func (c *Complexity) Confidence() float64 { return c.Conf }

// Groups is the location grouping payload.
type Groups struct {
	GroupCount   int      `json:"group_count"`
	Groups       []string `json:"groups"`
	CompanyMoves int      `json:"company_moves"`
	Conf         float64  `json:"confidence"`
}

func (g *Groups) Confidence() float64 { return g.Conf }

// CastDays is the day-out-of-days estimate payload.
type CastDays struct {
	PrincipalDays int     `json:"principal_days"`
	Notes         string  `json:"notes"`
	Conf          float64 `json:"confidence"`
}

func (c *CastDays) Confidence() float64 { return c.Conf }

// Draft is the draft schedule payload.
type Draft struct {
	TotalDays     int      `json:"total_days"`
	ShootingOrder []string `json:"shooting_order"`
	Conf          float64  `json:"confidence"`
}

func (d *Draft) Confidence() float64 { return d.Conf }

// Synthesis is the final schedule payload. Its total_days supersedes the
// draft's.
type Synthesis struct {
	TotalDays    int     `json:"total_days"`
	CompanyMoves int     `json:"company_moves"`
	ScheduleRisk string  `json:"schedule_risk"`
	Summary      string  `json:"summary"`
	Conf         float64 `json:"confidence"`
}

func (s *Synthesis) Confidence() float64 { return s.Conf }

func complexitySchema() schema.Schema {
	return schema.Schema{
		Name: StageComplexity,
		Fields: []schema.Field{
			{Name: "high_complexity_count", Kind: schema.KindInteger, Required: true, Description: "number of high complexity scenes"},
			{Name: "notes", Kind: schema.KindString, Required: true, Description: "which scenes dominate shooting time and why"},
			schema.Confidence(),
		},
	}
}

func groupsSchema() schema.Schema {
	return schema.Schema{
		Name: StageGroups,
		Fields: []schema.Field{
			{Name: "group_count", Kind: schema.KindInteger, Required: true, Description: "number of location groups"},
			{Name: "groups", Kind: schema.KindStringArray, Required: true, Description: "one entry per group, location plus scene ids"},
			{Name: "company_moves", Kind: schema.KindInteger, Required: true, Description: "moves between locations the grouping implies"},
			schema.Confidence(),
		},
	}
}

func castDaysSchema() schema.Schema {
	return schema.Schema{
		Name: StageCastDays,
		Fields: []schema.Field{
			{Name: "principal_days", Kind: schema.KindInteger, Required: true, Description: "total workdays across the principal cast"},
			{Name: "notes", Kind: schema.KindString, Required: true, Description: "which actors drive the day count"},
			schema.Confidence(),
		},
	}
}

func draftSchema() schema.Schema {
	return schema.Schema{
		Name: StageDraft,
		Fields: []schema.Field{
			{Name: "total_days", Kind: schema.KindInteger, Required: true, Description: "estimated total shooting days"},
			{Name: "shooting_order", Kind: schema.KindStringArray, Required: true, Description: "locations in shooting order"},
			schema.Confidence(),
		},
	}
}

func synthesisSchema() schema.Schema {
	return schema.Schema{
		Name: StageSynthesis,
		Fields: []schema.Field{
			{Name: "total_days", Kind: schema.KindInteger, Required: true, Description: "final total shooting days"},
			{Name: "company_moves", Kind: schema.KindInteger, Required: true, Description: "company moves in the final plan"},
			{Name: "schedule_risk", Kind: schema.KindString, Required: true, Enum: []string{"LOW", "MEDIUM", "HIGH"}, Description: "risk the schedule slips"},
			{Name: "summary", Kind: schema.KindString, Required: true, Description: "schedule summary for a first assistant director"},
			schema.Confidence(),
		},
	}
}

// Plan is the aggregated shooting schedule artifact.
type Plan struct {
	TotalDays    int     `json:"total_days"`
	CompanyMoves int     `json:"company_moves"`
	ScheduleRisk string  `json:"schedule_risk"`
	Summary      string  `json:"summary"`
	Confidence   float64 `json:"confidence"`
}

// ArtifactKind identifies the artifact's pipeline.
func (Plan) ArtifactKind() pipeline.Kind { return pipeline.KindSchedule }

// aggregate resolves each field through the stage precedence: synthesis,
// then the earlier stage owning the field, then a fixed default. TotalDays
// in particular falls back from synthesis to the draft before defaulting.
func aggregate(run *pipeline.Run, confidence float64) pipeline.Artifact {
	plan := Plan{
		ScheduleRisk: defaultRisk,
		Summary:      defaultSummary,
		Confidence:   confidence,
	}
	if out, ok := run.Output(StageGroups).(*Groups); ok {
		plan.CompanyMoves = out.CompanyMoves
	}
	if out, ok := run.Output(StageDraft).(*Draft); ok {
		plan.TotalDays = out.TotalDays
	}
	if out, ok := run.Output(StageSynthesis).(*Synthesis); ok {
		plan.TotalDays = out.TotalDays
		plan.CompanyMoves = out.CompanyMoves
		plan.ScheduleRisk = out.ScheduleRisk
		plan.Summary = out.Summary
	}
	return plan
}
