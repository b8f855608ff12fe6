package document

import (
	"errors"
	"strings"
)

// Source is a raw production-planning import: a script breakdown, shot list,
// or sequence list. Every field is optional; normalization substitutes
// placeholders for anything missing.
type Source struct {
	Title     string     `json:"title,omitempty" yaml:"title,omitempty"`
	Scenes    []Scene    `json:"scenes,omitempty" yaml:"scenes,omitempty"`
	Shots     []Shot     `json:"shots,omitempty" yaml:"shots,omitempty"`
	Sequences []Sequence `json:"sequences,omitempty" yaml:"sequences,omitempty"`
}

// Scene is one raw scene record from a script breakdown.
type Scene struct {
	Number      string   `json:"number,omitempty" yaml:"number,omitempty"`
	Heading     string   `json:"heading,omitempty" yaml:"heading,omitempty"`
	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	TimeOfDay   string   `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Cast        []string `json:"cast,omitempty" yaml:"cast,omitempty"`
	PageEighths float64  `json:"page_eighths,omitempty" yaml:"page_eighths,omitempty"`
}

// Shot is one raw shot-list record.
type Shot struct {
	Number      string   `json:"number,omitempty" yaml:"number,omitempty"`
	SceneNumber string   `json:"scene_number,omitempty" yaml:"scene_number,omitempty"`
	Setup       string   `json:"setup,omitempty" yaml:"setup,omitempty"`
	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Cast        []string `json:"cast,omitempty" yaml:"cast,omitempty"`
}

// Sequence is one raw sequence-list record.
type Sequence struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	Cast        []string `json:"cast,omitempty" yaml:"cast,omitempty"`
	SceneCount  int      `json:"scene_count,omitempty" yaml:"scene_count,omitempty"`
}

// ErrEmptyDocument is returned by Validate when the source carries none of the
// record arrays at all.
var ErrEmptyDocument = errors.New("document contains no scenes, shots, or sequences")

// Validate performs the pre-flight shape check run before any pipeline stage.
// A failing document surfaces as a top-level run error with no stages
// attempted. A document that declares one of the record arrays but leaves it
// empty is still shaped like a planning document: it passes, and the
// pipelines run against an explicit no-scene-data context instead.
func (s *Source) Validate() error {
	if s == nil {
		return errors.New("document missing")
	}
	if s.Scenes == nil && s.Shots == nil && s.Sequences == nil {
		return ErrEmptyDocument
	}
	return nil
}

// DisplayTitle returns the document title or a placeholder when absent.
func (s *Source) DisplayTitle() string {
	if s == nil {
		return "Untitled Production"
	}
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return "Untitled Production"
}

// RecordCount reports how many raw records the document carries.
func (s *Source) RecordCount() int {
	if s == nil {
		return 0
	}
	return len(s.Scenes) + len(s.Shots) + len(s.Sequences)
}
