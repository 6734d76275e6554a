package main

import (
	"fmt"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/importer"
	"github.com/spf13/cobra"
)

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove PPM tasks whose due date is invalid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.ppm.RemoveInvalid(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				notify(cmd.OutOrStdout(), "No invalid tasks found")
				return nil
			}
			notify(cmd.OutOrStdout(), fmt.Sprintf("Removed %d task(s) with invalid dates", n))
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var start string
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Import PPM tasks from an Excel workbook",
		Long: `Import PPM tasks from an Excel workbook.

Every sheet is read from row 2; column A holds the task description. Frequency
and type are inferred from keywords, and due dates are staggered from --start.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			begin := a.now()
			if start != "" {
				d, err := domain.ParseDate(start)
				if err != nil {
					return fmt.Errorf("%w: --start: %w", domain.ErrValidation, err)
				}
				begin = d
			}

			batch, err := importer.ReadFile(args[0], begin, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range batch.Sheets {
				fmt.Fprintf(out, "Imported %d tasks from %s\n", s.Tasks, s.Name)
			}

			if replace {
				stored, skipped, err := a.ppm.Replace(cmd.Context(), batch.Tasks)
				if err != nil {
					return err
				}
				notify(out, fmt.Sprintf("Replaced all PPM tasks with %d imported task(s), %d skipped", stored, skipped))
			} else {
				added, updated, skipped, err := a.ppm.Import(cmd.Context(), batch.Tasks)
				if err != nil {
					return err
				}
				notify(out, fmt.Sprintf("Added %d, updated %d, skipped %d task(s)", added, updated, skipped))
			}

			fmt.Fprintln(out, "Start Date:", batch.Start)
			fmt.Fprintln(out, "Tasks by Frequency:")
			for _, c := range batch.ByFrequency() {
				fmt.Fprintf(out, "   %s: %d tasks\n", c.Label, c.N)
			}
			fmt.Fprintln(out, "Tasks by Type:")
			for _, c := range batch.ByType() {
				fmt.Fprintf(out, "   %s: %d tasks\n", c.Label, c.N)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first due date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&replace, "replace", false, "discard existing PPM tasks instead of merging")
	return cmd
}

func newSlotsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List the storage slots present in the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := a.storage.Keys(cmd.Context())
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				hint(cmd.OutOrStdout(), "No slots stored yet")
				return nil
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}
