package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slate/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded analysis runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsPruneCommand(ctx))
	return runsCmd
}

func (c *commandContext) withStore(fn func(*runstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := runstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		kind    string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				records, err := store.List(cmd.Context(), kind, limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, records)
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRunsTable(records))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run list as JSON")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by pipeline (script, schedule, budget)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run, including stages and artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				record, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("no run matches %q", args[0])
				}
				if jsonOut {
					return writeJSON(cmd, record)
				}
				renderRecordDetail(cmd.OutOrStdout(), record)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run as JSON")
	return cmd
}

func newRunsPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				deleted, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d run(s), kept the newest %d\n", deleted, keep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 50, "Number of recent runs to keep")
	return cmd
}
