// Package script defines the script breakdown pipeline: three independent
// first-pass analyses (elements, characters, locations), a risk pass over
// their results, and a synthesis stage that folds everything into one
// breakdown artifact.
package script

import (
	"encoding/json"

	"slate/internal/pipeline"
	"slate/internal/schema"
)

const (
	StageElements   = "elements"
	StageCharacters = "characters"
	StageLocations  = "locations"
	StageRisks      = "risks"
	StageSynthesis  = "breakdown_synthesis"
)

const (
	defaultSummary   = "TBD"
	defaultRiskLevel = "MEDIUM"
)

const systemRole = "You are a film production script breakdown analyst. Work only from the scene data provided; never invent scenes or elements."

// Definition returns the script breakdown pipeline.
func Definition() pipeline.Definition {
	return pipeline.Definition{
		Kind: pipeline.KindScript,
		Stages: []pipeline.Stage{
			{
				Name:   StageElements,
				Rank:   1,
				System: systemRole,
				Schema: elementsSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Tally the production elements required across all scenes: props, effects, wardrobe, and any special requirements.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Elements
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageCharacters,
				Rank:   1,
				System: systemRole,
				Schema: charactersSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Analyze the cast: how many speaking roles appear, which are principal roles, and how much background talent the scenes imply.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Characters
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageLocations,
				Rank:   1,
				System: systemRole,
				Schema: locationsSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Analyze the location requirements: count distinct locations, split interiors from exteriors, and flag the locations that will dominate scouting.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Locations
					if err := json.Unmarshal(raw, &out); err != nil {
						return nil, err
					}
					return &out, nil
				},
			},
			{
				Name:   StageRisks,
				Rank:   2,
				System: systemRole,
				Schema: risksSchema(),
				Prompt: func(rc *pipeline.RenderContext) string {
					return "Assess production risk using the scene data and the element, character, and location analyses above. Rate overall risk and list the specific flags driving it.\n\n" + rc.Render()
				},
				Decode: func(raw json.RawMessage) (pipeline.StageOutput, error) {
					var out Risks
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
					return "Synthesize the full breakdown from every analysis above into a single summary a line producer could act on. Where an earlier stage failed, work from the scene data directly and say so in the summary.\n\n" + rc.Render()
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

func elementsSchema() schema.Schema {
	return schema.Schema{
		Name: StageElements,
		Fields: []schema.Field{
			{Name: "total_props", Kind: schema.KindInteger, Required: true, Description: "count of distinct props across all scenes"},
			{Name: "total_effects", Kind: schema.KindInteger, Required: true, Description: "count of practical and visual effects"},
			{Name: "wardrobe_notes", Kind: schema.KindString, Required: true, Description: "wardrobe considerations in one or two sentences"},
			{Name: "special_requirements", Kind: schema.KindStringArray, Required: true, Description: "equipment or permits beyond a standard package"},
			schema.Confidence(),
		},
	}
}

func charactersSchema() schema.Schema {
	return schema.Schema{
		Name: StageCharacters,
		Fields: []schema.Field{
			{Name: "cast_size", Kind: schema.KindInteger, Required: true, Description: "number of distinct speaking roles"},
			{Name: "principal_roles", Kind: schema.KindStringArray, Required: true, Description: "characters appearing in the most scenes"},
			{Name: "background_count", Kind: schema.KindInteger, Required: true, Description: "estimated background performers needed"},
			schema.Confidence(),
		},
	}
}

func locationsSchema() schema.Schema {
	return schema.Schema{
		Name: StageLocations,
		Fields: []schema.Field{
			{Name: "location_count", Kind: schema.KindInteger, Required: true, Description: "number of distinct locations"},
			{Name: "interior_count", Kind: schema.KindInteger, Required: true, Description: "scenes set in interiors"},
			{Name: "exterior_count", Kind: schema.KindInteger, Required: true, Description: "scenes set in exteriors"},
			{Name: "notable_locations", Kind: schema.KindStringArray, Required: true, Description: "locations that need early scouting"},
			schema.Confidence(),
		},
	}
}

func risksSchema() schema.Schema {
	return schema.Schema{
		Name: StageRisks,
		Fields: []schema.Field{
			{Name: "risk_level", Kind: schema.KindString, Required: true, Enum: []string{"LOW", "MEDIUM", "HIGH"}, Description: "overall production risk"},
			{Name: "flags", Kind: schema.KindStringArray, Required: true, Description: "specific risk drivers, e.g. stunts, night exteriors"},
			{Name: "mitigation", Kind: schema.KindString, Required: true, Description: "the single most important mitigation step"},
			schema.Confidence(),
		},
	}
}

func synthesisSchema() schema.Schema {
	return schema.Schema{
		Name: StageSynthesis,
		Fields: []schema.Field{
			{Name: "summary", Kind: schema.KindString, Required: true, Description: "breakdown summary for a line producer"},
			{Name: "total_elements", Kind: schema.KindInteger, Required: true, Description: "props plus effects across all scenes"},
			{Name: "cast_size", Kind: schema.KindInteger, Required: true, Description: "number of distinct speaking roles"},
			{Name: "location_count", Kind: schema.KindInteger, Required: true, Description: "number of distinct locations"},
			{Name: "risk_level", Kind: schema.KindString, Required: true, Enum: []string{"LOW", "MEDIUM", "HIGH"}, Description: "overall production risk"},
			schema.Confidence(),
		},
	}
}

// Breakdown is the aggregated script analysis artifact.
type Breakdown struct {
	Summary       string  `json:"summary"`
	TotalElements int     `json:"total_elements"`
	CastSize      int     `json:"cast_size"`
	LocationCount int     `json:"location_count"`
	RiskLevel     string  `json:"risk_level"`
	Confidence    float64 `json:"confidence"`
}

// ArtifactKind identifies the artifact's pipeline.
func (Breakdown) ArtifactKind() pipeline.Kind { return pipeline.KindScript }

// aggregate assembles the artifact field by field: the synthesis value when
// that stage completed, otherwise the earlier stage that owns the field,
// otherwise a fixed default.
func aggregate(run *pipeline.Run, confidence float64) pipeline.Artifact {
	breakdown := Breakdown{
		Summary:    defaultSummary,
		RiskLevel:  defaultRiskLevel,
		Confidence: confidence,
	}

	if out, ok := run.Output(StageElements).(*Elements); ok {
		breakdown.TotalElements = out.TotalProps + out.TotalEffects
	}
	if out, ok := run.Output(StageCharacters).(*Characters); ok {
		breakdown.CastSize = out.CastSize
	}
	if out, ok := run.Output(StageLocations).(*Locations); ok {
		breakdown.LocationCount = out.LocationCount
	}
	if out, ok := run.Output(StageRisks).(*Risks); ok {
		breakdown.RiskLevel = out.RiskLevel
	}
	if out, ok := run.Output(StageSynthesis).(*Synthesis); ok {
		breakdown.Summary = out.Summary
		breakdown.TotalElements = out.TotalElements
		breakdown.CastSize = out.CastSize
		breakdown.LocationCount = out.LocationCount
		breakdown.RiskLevel = out.RiskLevel
	}
	return breakdown
}
