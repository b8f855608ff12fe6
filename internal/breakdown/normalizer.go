package breakdown

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"slate/internal/document"
)

// LocationType classifies where a scene shoots.
type LocationType string

const (
	LocationInterior LocationType = "INTERIOR"
	LocationExterior LocationType = "EXTERIOR"
	LocationMixed    LocationType = "MIXED"
	LocationUnknown  LocationType = "UNKNOWN"
)

// Class grades complexity and priority.
type Class string

const (
	ClassLow    Class = "LOW"
	ClassMedium Class = "MEDIUM"
	ClassHigh   Class = "HIGH"
)

// UnknownLocation is substituted when a record carries no location at all.
const UnknownLocation = "UNKNOWN LOCATION"

// Scene is the canonical normalized record every pipeline consumes.
type Scene struct {
	ID           string
	Heading      string
	Location     string
	LocationType LocationType
	TimeOfDay    string
	Description  string
	Cast         []string
	Props        []string
	Equipment    []string
	Effects      []string
	Stunts       []string
	Vehicles     []string
	Complexity   Class
	Priority     Class
	// EstimatedHours is derived from the complexity class (high=6, medium=4,
	// low=2) so normalization stays deterministic.
	EstimatedHours float64
	PageEighths    float64
}

// Options controls normalization.
type Options struct {
	// Cap bounds the number of records normalized; records past the cap are
	// dropped, order preserved. Zero or negative falls back to 20.
	Cap int
	// DefaultTimeOfDay is assumed when a record carries no marker. Empty
	// falls back to DAY.
	DefaultTimeOfDay string
}

const defaultCap = 20

// Normalize converts a source document into at most Cap canonical scenes,
// preferring the scene list, then shots, then sequences. It never fails:
// missing fields are replaced with explicit placeholders. Empty input yields
// an empty slice.
func Normalize(src *document.Source, opts Options) []Scene {
	limit := opts.Cap
	if limit <= 0 {
		limit = defaultCap
	}
	defaultTOD := strings.ToUpper(strings.TrimSpace(opts.DefaultTimeOfDay))
	if defaultTOD == "" {
		defaultTOD = "DAY"
	}
	if src == nil {
		return []Scene{}
	}

	scenes := []Scene{}
	switch {
	case len(src.Scenes) > 0:
		for i, raw := range src.Scenes {
			if len(scenes) >= limit {
				break
			}
			scenes = append(scenes, normalizeScene(raw, i, defaultTOD))
		}
	case len(src.Shots) > 0:
		for i, raw := range src.Shots {
			if len(scenes) >= limit {
				break
			}
			scenes = append(scenes, normalizeShot(raw, i, defaultTOD))
		}
	case len(src.Sequences) > 0:
		for i, raw := range src.Sequences {
			if len(scenes) >= limit {
				break
			}
			scenes = append(scenes, normalizeSequence(raw, i, defaultTOD))
		}
	}
	return scenes
}

func normalizeScene(raw document.Scene, index int, defaultTOD string) Scene {
	id := strings.TrimSpace(raw.Number)
	if id == "" {
		id = fmt.Sprintf("S%d", index+1)
	}
	heading := strings.TrimSpace(raw.Heading)
	location := strings.TrimSpace(raw.Location)
	if location == "" {
		location = locationFromHeading(heading)
	}
	tod := strings.ToUpper(strings.TrimSpace(raw.TimeOfDay))
	if tod == "" {
		tod = timeOfDayFromHeading(heading, defaultTOD)
	}
	return finishScene(Scene{
		ID:           id,
		Heading:      heading,
		Location:     location,
		LocationType: locationTypeFromHeading(heading),
		TimeOfDay:    tod,
		Description:  strings.TrimSpace(raw.Description),
		Cast:         normalizeCast(raw.Cast),
		PageEighths:  raw.PageEighths,
	})
}

func normalizeShot(raw document.Shot, index int, defaultTOD string) Scene {
	id := strings.TrimSpace(raw.Number)
	if id == "" {
		id = fmt.Sprintf("SH%d", index+1)
	}
	heading := strings.TrimSpace(raw.Setup)
	return finishScene(Scene{
		ID:           id,
		Heading:      heading,
		Location:     strings.TrimSpace(raw.Location),
		LocationType: locationTypeFromHeading(heading),
		TimeOfDay:    timeOfDayFromHeading(heading, defaultTOD),
		Description:  strings.TrimSpace(raw.Description),
		Cast:         normalizeCast(raw.Cast),
	})
}

func normalizeSequence(raw document.Sequence, index int, defaultTOD string) Scene {
	id := strings.TrimSpace(raw.Name)
	if id == "" {
		id = fmt.Sprintf("SEQ%d", index+1)
	}
	return finishScene(Scene{
		ID:           id,
		Heading:      id,
		Location:     strings.TrimSpace(raw.Location),
		LocationType: LocationUnknown,
		TimeOfDay:    defaultTOD,
		Description:  strings.TrimSpace(raw.Description),
		Cast:         normalizeCast(raw.Cast),
	})
}

func finishScene(scene Scene) Scene {
	if scene.Location == "" {
		scene.Location = UnknownLocation
	}
	text := scene.Heading + " " + scene.Description
	scene.Props = matchKeywords(text, propKeywords)
	scene.Equipment = matchKeywords(text, equipmentKeywords)
	scene.Effects = matchKeywords(text, effectKeywords)
	scene.Stunts = matchKeywords(text, stuntKeywords)
	scene.Vehicles = matchKeywords(text, vehicleKeywords)
	scene.Complexity = classifyComplexity(scene)
	scene.Priority = classifyPriority(scene)
	scene.EstimatedHours = estimatedHoursFor(scene.Complexity)
	return scene
}

func normalizeCast(cast []string) []string {
	out := make([]string, 0, len(cast))
	for _, member := range cast {
		if trimmed := strings.TrimSpace(member); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func locationTypeFromHeading(heading string) LocationType {
	upper := strings.ToUpper(heading)
	switch {
	case strings.Contains(upper, "INT/EXT") || strings.Contains(upper, "I/E"):
		return LocationMixed
	case strings.Contains(upper, "INT."), strings.HasPrefix(upper, "INT "):
		return LocationInterior
	case strings.Contains(upper, "EXT."), strings.HasPrefix(upper, "EXT "):
		return LocationExterior
	default:
		return LocationUnknown
	}
}

func locationFromHeading(heading string) string {
	upper := strings.ToUpper(strings.TrimSpace(heading))
	for _, prefix := range []string{"INT/EXT.", "INT/EXT", "I/E.", "INT.", "EXT."} {
		upper = strings.TrimSpace(strings.TrimPrefix(upper, prefix))
	}
	if idx := strings.LastIndex(upper, " - "); idx >= 0 {
		upper = strings.TrimSpace(upper[:idx])
	}
	return upper
}

func timeOfDayFromHeading(heading, fallback string) string {
	upper := strings.ToUpper(heading)
	for _, marker := range timeOfDayMarkers {
		if strings.Contains(upper, marker) {
			return marker
		}
	}
	return fallback
}

func classifyComplexity(scene Scene) Class {
	score := 2*len(scene.Stunts) + 2*len(scene.Effects) + len(scene.Vehicles) + len(scene.Equipment)
	switch {
	case score >= 6:
		return ClassHigh
	case score >= 2:
		return ClassMedium
	default:
		return ClassLow
	}
}

func classifyPriority(scene Scene) Class {
	switch {
	case len(scene.Stunts) > 0 || len(scene.Effects) > 0:
		return ClassHigh
	case len(scene.Vehicles) > 0 || len(scene.Equipment) > 0 || len(scene.Cast) > 3:
		return ClassMedium
	default:
		return ClassLow
	}
}

func estimatedHoursFor(complexity Class) float64 {
	switch complexity {
	case ClassHigh:
		return 6
	case ClassMedium:
		return 4
	default:
		return 2
	}
}

var titleCaser = cases.Title(language.English)

// DisplayLabel renders a human-facing label like "Interior: Warehouse (Night)".
func (s Scene) DisplayLabel() string {
	locType := titleCaser.String(strings.ToLower(string(s.LocationType)))
	location := titleCaser.String(strings.ToLower(s.Location))
	tod := titleCaser.String(strings.ToLower(s.TimeOfDay))
	return fmt.Sprintf("%s: %s (%s)", locType, location, tod)
}

func containsFold(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}
