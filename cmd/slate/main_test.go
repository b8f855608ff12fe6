package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"slate/internal/config"
)

// stagePayload carries every field any script stage declares, so one canned
// completion satisfies each stage schema in turn.
const stagePayload = `{
  "total_props": 3,
  "total_effects": 1,
  "wardrobe_notes": "period suits",
  "special_requirements": ["crane"],
  "cast_size": 4,
  "principal_roles": ["VERA"],
  "background_count": 10,
  "location_count": 2,
  "interior_count": 1,
  "exterior_count": 1,
  "notable_locations": ["warehouse"],
  "risk_level": "HIGH",
  "flags": ["night exterior"],
  "mitigation": "schedule stunt rehearsal",
  "summary": "Compact two-location shoot.",
  "total_elements": 4,
  "confidence": 0.8
}`

func newStubProvider(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": stagePayload}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeTestConfig(t *testing.T, base, providerURL string) string {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.LLM.APIKey = "test"
	cfg.LLM.BaseURL = providerURL
	cfg.LLM.RetryMaxAttempts = 1
	cfg.Logging.Format = "json"

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeTestDocument(t *testing.T, base string) string {
	t.Helper()
	doc := `{
  "title": "Night Freight",
  "scenes": [
    {"number": "1", "heading": "INT. WAREHOUSE - NIGHT", "description": "Vera counts crates.", "cast": ["VERA"]},
    {"number": "2", "heading": "EXT. DOCK - DAY", "description": "A truck crash blocks the gate.", "cast": ["VERA", "DISPATCH"]}
  ]
}`
	path := filepath.Join(base, "breakdown.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeScriptEndToEnd(t *testing.T) {
	base := t.TempDir()
	server := newStubProvider(t)
	cfgPath := writeTestConfig(t, base, server.URL)
	docPath := writeTestDocument(t, base)

	out, err := runCLI(t, "--config", cfgPath, "analyze", "script", docPath, "--json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var run struct {
		Kind    string `json:"kind"`
		Success bool   `json:"success"`
		Stages  map[string]struct {
			Completed bool `json:"completed"`
		} `json:"stages"`
		Artifact struct {
			Summary   string `json:"summary"`
			RiskLevel string `json:"risk_level"`
		} `json:"artifact"`
	}
	if err := json.Unmarshal([]byte(out), &run); err != nil {
		t.Fatalf("parse run output: %v\n%s", err, out)
	}
	if !run.Success || run.Kind != "script" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if len(run.Stages) != 5 {
		t.Fatalf("expected 5 stages, got %d", len(run.Stages))
	}
	for name, stage := range run.Stages {
		if !stage.Completed {
			t.Fatalf("stage %s did not complete", name)
		}
	}
	if run.Artifact.Summary != "Compact two-location shoot." || run.Artifact.RiskLevel != "HIGH" {
		t.Fatalf("unexpected artifact: %+v", run.Artifact)
	}

	listOut, err := runCLI(t, "--config", cfgPath, "runs", "list", "--json")
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	var records []struct {
		Kind  string `json:"Kind"`
		Title string `json:"Title"`
	}
	if err := json.Unmarshal([]byte(listOut), &records); err != nil {
		t.Fatalf("parse list output: %v\n%s", err, listOut)
	}
	if len(records) != 1 || records[0].Kind != "script" || records[0].Title != "Night Freight" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestAnalyzeRejectsUnknownPipeline(t *testing.T) {
	base := t.TempDir()
	server := newStubProvider(t)
	cfgPath := writeTestConfig(t, base, server.URL)
	docPath := writeTestDocument(t, base)

	_, err := runCLI(t, "--config", cfgPath, "analyze", "casting", docPath)
	if err == nil || !strings.Contains(err.Error(), "unknown pipeline") {
		t.Fatalf("expected unknown pipeline error, got %v", err)
	}
}

func TestAnalyzeEmptyDocumentFails(t *testing.T) {
	base := t.TempDir()
	server := newStubProvider(t)
	cfgPath := writeTestConfig(t, base, server.URL)

	docPath := filepath.Join(base, "empty.json")
	if err := os.WriteFile(docPath, []byte(`{"title": "Nothing"}`), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}

	out, err := runCLI(t, "--config", cfgPath, "analyze", "script", docPath)
	if err == nil {
		t.Fatalf("empty document must fail the command, output:\n%s", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, fmt.Sprintf("Wrote sample configuration to %s", target)) {
		t.Fatalf("unexpected output: %s", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("init without --overwrite must refuse to clobber")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite: %v", err)
	}
}
