package script

// Typed stage payloads. Each is a distinct record so the aggregator's
// fallback precedence is compiler-checked instead of traversing loose maps.

// Elements is the production-element tally produced by the elements stage.
type Elements struct {
	TotalProps          int      `json:"total_props"`
	TotalEffects        int      `json:"total_effects"`
	WardrobeNotes       string   `json:"wardrobe_notes"`
	SpecialRequirements []string `json:"special_requirements"`
	Conf                float64  `json:"confidence"`
}

func (e *Elements) Confidence() float64 { return e.Conf }

// Characters is the cast analysis produced by the characters stage.
type Characters struct {
	CastSize        int      `json:"cast_size"`
	PrincipalRoles  []string `json:"principal_roles"`
	BackgroundCount int      `json:"background_count"`
	Conf            float64  `json:"confidence"`
}

func (c *Characters) Confidence() float64 { return c.Conf }

// Locations is the location requirements analysis.
type Locations struct {
	LocationCount    int      `json:"location_count"`
	InteriorCount    int      `json:"interior_count"`
	ExteriorCount    int      `json:"exterior_count"`
	NotableLocations []string `json:"notable_locations"`
	Conf             float64  `json:"confidence"`
}

func (l *Locations) Confidence() float64 { return l.Conf }

// Risks is the production risk assessment.
type Risks struct {
	RiskLevel  string   `json:"risk_level"`
	Flags      []string `json:"flags"`
	Mitigation string   `json:"mitigation"`
	Conf       float64  `json:"confidence"`
}

func (r *Risks) Confidence() float64 { return r.Conf }

// Synthesis is the final breakdown summary stage payload.
type Synthesis struct {
	Summary       string  `json:"summary"`
	TotalElements int     `json:"total_elements"`
	CastSize      int     `json:"cast_size"`
	LocationCount int     `json:"location_count"`
	RiskLevel     string  `json:"risk_level"`
	Conf          float64 `json:"confidence"`
}

func (s *Synthesis) Confidence() float64 { return s.Conf }
