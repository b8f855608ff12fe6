package runstore

import (
	"encoding/json"
	"time"
)

// Record is the persisted form of one pipeline run. Stage results and the
// artifact are stored as JSON documents; everything the CLI lists or filters
// on is broken out into columns.
type Record struct {
	ID             string
	Kind           string
	Title          string
	SceneCount     int
	Success        bool
	Error          string
	Confidence     float64
	Stages         json.RawMessage
	Artifact       json.RawMessage
	StartedAt      time.Time
	FinishedAt     time.Time
	ProcessingTime time.Duration
}

// CompletedStages counts the completed entries in the stored stage document.
func (r Record) CompletedStages() int {
	var stages map[string]struct {
		Completed bool `json:"completed"`
	}
	if err := json.Unmarshal(r.Stages, &stages); err != nil {
		return 0
	}
	count := 0
	for _, stage := range stages {
		if stage.Completed {
			count++
		}
	}
	return count
}
