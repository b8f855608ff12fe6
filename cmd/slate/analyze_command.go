package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"slate/internal/analysis"
	"slate/internal/document"
	"slate/internal/pipeline"
	"slate/internal/runstore"
	"slate/internal/services/llm"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut  bool
		sceneCap int
		model    string
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <script|schedule|budget> <document>",
		Short: "Run an analysis pipeline against a planning document",
		Long: `Analyze runs one of the staged analysis pipelines against a script
breakdown, shot list, or sequence list in JSON or YAML form. Every stage is
attempted once; failed stages are recorded and the artifact is assembled from
whatever completed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := pipeline.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown pipeline %q (expected script, schedule, or budget)", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			src, err := document.Load(args[1])
			if err != nil {
				return err
			}

			def, err := analysis.Definition(kind)
			if err != nil {
				return err
			}

			settings := cfg.GetLLM()
			client := llm.NewClient(llm.Config{
				APIKey:           settings.APIKey,
				BaseURL:          settings.BaseURL,
				Model:            settings.Model,
				Referer:          settings.Referer,
				Title:            settings.Title,
				TimeoutSeconds:   settings.TimeoutSeconds,
				RetryMaxAttempts: settings.RetryMaxAttempts,
			})

			limit := cfg.Analysis.SceneCap
			if sceneCap > 0 {
				limit = sceneCap
			}
			orch, err := pipeline.New(def, client, pipeline.Options{
				Model:            strings.TrimSpace(model),
				StageTimeout:     time.Duration(cfg.LLM.StageTimeoutSeconds) * time.Second,
				SceneCap:         limit,
				DefaultTimeOfDay: cfg.Analysis.DefaultTimeOfDay,
				Logger:           ctx.ensureLogger(),
			})
			if err != nil {
				return err
			}

			run := orch.Run(cmd.Context(), src)

			if !noSave {
				store, err := runstore.Open(cfg)
				if err != nil {
					return fmt.Errorf("open run store: %w", err)
				}
				defer store.Close()
				if err := store.Save(cmd.Context(), run); err != nil {
					return fmt.Errorf("save run: %w", err)
				}
			}

			if jsonOut {
				return writeJSON(cmd, run)
			}
			renderRunDetail(cmd.OutOrStdout(), run)
			if !run.Success {
				return fmt.Errorf("analysis produced no completed stages")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the full run as JSON")
	cmd.Flags().IntVar(&sceneCap, "scene-cap", 0, "Override the configured scene cap")
	cmd.Flags().StringVar(&model, "model", "", "Override the configured model for this run")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip recording the run in the history database")
	return cmd
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Verify the generation provider is reachable with the configured key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			settings := cfg.GetLLM()
			client := llm.NewClient(llm.Config{
				APIKey:           settings.APIKey,
				BaseURL:          settings.BaseURL,
				Model:            settings.Model,
				Referer:          settings.Referer,
				Title:            settings.Title,
				TimeoutSeconds:   settings.TimeoutSeconds,
				RetryMaxAttempts: settings.RetryMaxAttempts,
			})
			if err := client.HealthCheck(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Provider reachable; model responded")
			return nil
		},
	}
}
