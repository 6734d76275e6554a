package main

import (
	"fmt"

	"github.com/aglmct/tracker/internal/application/maintenance"
	"github.com/aglmct/tracker/internal/report"
	"github.com/aglmct/tracker/internal/view"
	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show due-today, overdue, in-progress and open CM counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := maintenance.BuildDashboard(a.ppm.List(), a.cm.List(), a.now())
			fmt.Fprintln(cmd.OutOrStdout(), view.DashboardView(d))
			return nil
		},
	}
}

// rangeFlags select a report date range, defaulting to the current month.
type rangeFlags struct {
	from, to string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "first due date to include (default: first day of this month)")
	cmd.Flags().StringVar(&r.to, "to", "", "last due date to include (default: last day of this month)")
}

func (r *rangeFlags) resolve(a *app) (string, string) {
	from, to := report.CurrentMonth(a.now())
	if r.from != "" {
		from = r.from
	}
	if r.to != "" {
		to = r.to
	}
	return from, to
}

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise and export PPM tasks",
	}

	var dir string
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "output directory (default TRACKER_REPORT_DIR)")
	outDir := func() string {
		if dir != "" {
			return dir
		}
		return a.cfg.Report.Dir
	}

	var pdfRange rangeFlags
	pdf := &cobra.Command{
		Use:   "pdf",
		Short: "Generate the PDF report for tasks due in a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := pdfRange.resolve(a)
			res, err := a.exporter.ExportPDF(cmd.Context(), outDir(), a.ppm.List(), from, to, a.now())
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
	pdfRange.register(pdf)

	csv := &cobra.Command{
		Use:   "csv",
		Short: "Export every PPM task as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.exporter.ExportCSV(cmd.Context(), outDir(), a.ppm.List(), a.now())
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}

	var sumRange rangeFlags
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Print report counters for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := sumRange.resolve(a)
			tasks, err := report.FilterByDueRange(a.ppm.List(), from, to)
			if err != nil {
				return err
			}
			now := a.now()
			fmt.Fprintln(cmd.OutOrStdout(), view.SummaryView(report.Summarize(tasks, now), from, to))
			return nil
		},
	}
	sumRange.register(summary)

	cmd.AddCommand(pdf, csv, summary)
	return cmd
}

func printResult(cmd *cobra.Command, res report.Result) {
	if res.Path == "" {
		hint(cmd.OutOrStdout(), res.Notice)
		return
	}
	notify(cmd.OutOrStdout(), res.Notice)
	fmt.Fprintln(cmd.OutOrStdout(), res.Path)
}
