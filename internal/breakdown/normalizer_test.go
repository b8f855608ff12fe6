package breakdown

import (
	"reflect"
	"testing"

	"slate/internal/document"
)

func sampleDoc() *document.Source {
	return &document.Source{
		Title: "Night Run",
		Scenes: []document.Scene{
			{
				Number:      "1",
				Heading:     "EXT. DOCKYARD - NIGHT",
				Description: "A car chase ends in a crash and a fire. Explosion tears through a truck.",
				Cast:        []string{"DANA", "RICK"},
				PageEighths: 6,
			},
			{
				Heading:     "INT. OFFICE - DAY",
				Description: "Dana reads documents at her laptop.",
				Cast:        []string{" DANA "},
			},
			{
				Description: "Quiet conversation.",
			},
		},
	}
}

func TestNormalizeScenes(t *testing.T) {
	scenes := Normalize(sampleDoc(), Options{Cap: 20, DefaultTimeOfDay: "DAY"})
	if len(scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(scenes))
	}

	first := scenes[0]
	if first.ID != "1" {
		t.Fatalf("id: %q", first.ID)
	}
	if first.LocationType != LocationExterior {
		t.Fatalf("location type: %q", first.LocationType)
	}
	if first.Location != "DOCKYARD" {
		t.Fatalf("location: %q", first.Location)
	}
	if first.TimeOfDay != "NIGHT" {
		t.Fatalf("time of day: %q", first.TimeOfDay)
	}
	if !reflect.DeepEqual(first.Vehicles, []string{"car", "truck"}) {
		t.Fatalf("vehicles: %v", first.Vehicles)
	}
	// "crash" sits in both the effect and stunt tables; both lists keep it.
	if !reflect.DeepEqual(first.Effects, []string{"explosion", "fire", "crash"}) {
		t.Fatalf("effects: %v", first.Effects)
	}
	if !reflect.DeepEqual(first.Stunts, []string{"chase", "crash"}) {
		t.Fatalf("stunts: %v", first.Stunts)
	}
	if first.Complexity != ClassHigh || first.Priority != ClassHigh {
		t.Fatalf("classification: %s/%s", first.Complexity, first.Priority)
	}
	if first.EstimatedHours != 6 {
		t.Fatalf("estimated hours: %v", first.EstimatedHours)
	}
	if first.PageEighths != 6 {
		t.Fatalf("page eighths: %v", first.PageEighths)
	}

	second := scenes[1]
	if second.ID != "S2" {
		t.Fatalf("placeholder id: %q", second.ID)
	}
	if second.LocationType != LocationInterior {
		t.Fatalf("location type: %q", second.LocationType)
	}
	if !reflect.DeepEqual(second.Props, []string{"laptop", "documents"}) {
		t.Fatalf("props: %v", second.Props)
	}
	if second.Complexity != ClassLow {
		t.Fatalf("complexity: %q", second.Complexity)
	}

	third := scenes[2]
	if third.Location != UnknownLocation {
		t.Fatalf("placeholder location: %q", third.Location)
	}
	if third.TimeOfDay != "DAY" {
		t.Fatalf("default time of day: %q", third.TimeOfDay)
	}
	if third.LocationType != LocationUnknown {
		t.Fatalf("location type: %q", third.LocationType)
	}
}

func TestNormalizeCap(t *testing.T) {
	doc := &document.Source{}
	for i := 0; i < 30; i++ {
		doc.Scenes = append(doc.Scenes, document.Scene{Description: "talk"})
	}
	scenes := Normalize(doc, Options{Cap: 20})
	if len(scenes) != 20 {
		t.Fatalf("expected cap of 20, got %d", len(scenes))
	}
	// Order preserved: placeholder IDs reflect input positions.
	if scenes[19].ID != "S20" {
		t.Fatalf("order not preserved: %q", scenes[19].ID)
	}
}

func TestNormalizeEmptyAndNil(t *testing.T) {
	if scenes := Normalize(nil, Options{}); len(scenes) != 0 {
		t.Fatalf("nil doc: %v", scenes)
	}
	if scenes := Normalize(&document.Source{}, Options{}); len(scenes) != 0 {
		t.Fatalf("empty doc: %v", scenes)
	}
}

func TestNormalizeShotsAndSequences(t *testing.T) {
	shots := Normalize(&document.Source{
		Shots: []document.Shot{{Setup: "INT/EXT. CAR - DAY", Description: "steadicam follow"}},
	}, Options{})
	if len(shots) != 1 {
		t.Fatalf("shots: %d", len(shots))
	}
	if shots[0].ID != "SH1" || shots[0].LocationType != LocationMixed {
		t.Fatalf("shot record: %+v", shots[0])
	}
	if !reflect.DeepEqual(shots[0].Equipment, []string{"steadicam"}) {
		t.Fatalf("equipment: %v", shots[0].Equipment)
	}

	seqs := Normalize(&document.Source{
		Sequences: []document.Sequence{{Description: "finale fight on the train"}},
	}, Options{DefaultTimeOfDay: "night"})
	if len(seqs) != 1 {
		t.Fatalf("sequences: %d", len(seqs))
	}
	if seqs[0].ID != "SEQ1" || seqs[0].TimeOfDay != "NIGHT" {
		t.Fatalf("sequence record: %+v", seqs[0])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	opts := Options{Cap: 20, DefaultTimeOfDay: "DAY"}
	a := Normalize(sampleDoc(), opts)
	b := Normalize(sampleDoc(), opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("normalization not deterministic for identical input")
	}
}

func TestDisplayLabel(t *testing.T) {
	scene := Scene{LocationType: LocationInterior, Location: "WAREHOUSE", TimeOfDay: "NIGHT"}
	if got := scene.DisplayLabel(); got != "Interior: Warehouse (Night)" {
		t.Fatalf("label: %q", got)
	}
}
