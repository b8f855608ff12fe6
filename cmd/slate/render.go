package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"slate/internal/pipeline"
	"slate/internal/runstore"
)

func renderRunsTable(records []runstore.Record) string {
	headers := []string{"ID", "Pipeline", "Title", "Scenes", "Stages", "Confidence", "Result", "Started"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			shortID(record.ID),
			record.Kind,
			record.Title,
			fmt.Sprintf("%d", record.SceneCount),
			fmt.Sprintf("%d", record.CompletedStages()),
			formatConfidence(record.Confidence),
			successLabel(record.Success),
			record.StartedAt.Format("2006-01-02 15:04"),
		})
	}
	aligns := []columnAlignment{
		alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft,
	}
	return renderTable(headers, rows, aligns)
}

func renderRunDetail(w io.Writer, run *pipeline.Run) {
	colorize := shouldColorize(w)
	fmt.Fprintf(w, "Run %s (%s) for %q\n", shortID(run.ID), run.Kind, run.Title)
	if run.Error != "" {
		fmt.Fprintln(w, renderStatusLine("document", statusError, run.Error, colorize))
		return
	}

	for _, name := range run.StageOrder {
		result, ok := run.Result(name)
		if !ok {
			continue
		}
		if result.Completed {
			fmt.Fprintln(w, renderStatusLine(name, statusOK, fmt.Sprintf("completed in %s", result.Duration.Round(timeRounding)), colorize))
		} else {
			fmt.Fprintln(w, renderStatusLine(name, statusFail, result.Err, colorize))
		}
	}

	fmt.Fprintf(w, "Completed %d of %d stages, confidence %s\n",
		run.CompletedCount(), len(run.StageOrder), formatConfidence(run.MaxConfidence()))
	if run.Artifact != nil {
		fmt.Fprintln(w, "Artifact:")
		writeIndentedJSON(w, run.Artifact)
	}
}

func renderRecordDetail(w io.Writer, record *runstore.Record) {
	colorize := shouldColorize(w)
	fmt.Fprintf(w, "Run %s (%s) for %q\n", record.ID, record.Kind, record.Title)
	fmt.Fprintf(w, "Started %s, took %s\n",
		record.StartedAt.Format("2006-01-02 15:04:05"), record.ProcessingTime.Round(timeRounding))
	if record.Error != "" {
		fmt.Fprintln(w, renderStatusLine("document", statusError, record.Error, colorize))
		return
	}

	var stages map[string]struct {
		Completed bool   `json:"completed"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(record.Stages, &stages); err == nil {
		names := make([]string, 0, len(stages))
		for name := range stages {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			stage := stages[name]
			if stage.Completed {
				fmt.Fprintln(w, renderStatusLine(name, statusOK, "completed", colorize))
			} else {
				fmt.Fprintln(w, renderStatusLine(name, statusFail, stage.Error, colorize))
			}
		}
	}

	fmt.Fprintf(w, "Confidence %s, result %s\n", formatConfidence(record.Confidence), successLabel(record.Success))
	if len(record.Artifact) > 0 {
		fmt.Fprintln(w, "Artifact:")
		writeIndentedJSON(w, record.Artifact)
	}
}

func writeIndentedJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		fmt.Fprintf(w, "  <unrenderable: %v>\n", err)
		return
	}
	fmt.Fprintf(w, "  %s\n", data)
}

func shortID(id string) string {
	if idx := strings.IndexRune(id, '-'); idx > 0 {
		return id[:idx]
	}
	return id
}

func formatConfidence(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func successLabel(success bool) string {
	if success {
		return "ok"
	}
	return "failed"
}
