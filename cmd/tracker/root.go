package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/view"
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "AGL MCT airfield maintenance tracker",
		Long: `Track planned (PPM) and corrective (CM) maintenance of airfield ground lighting.

Storage, report and telemetry settings come from TRACKER_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
	}

	root.AddCommand(
		newPPMCmd(a),
		newCMCmd(a),
		newDashboardCmd(a),
		newReportCmd(a),
		newCleanCmd(a),
		newImportCmd(a),
		newSlotsCmd(a),
	)
	return root
}

func notify(w io.Writer, msg string) {
	fmt.Fprintln(w, view.SuccessStyle.Render(msg))
}

func hint(w io.Writer, msg string) {
	fmt.Fprintln(w, view.HelpStyle.Render(msg))
}

// ignoreNotFound turns a missing-record error into a silent no-op.
func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
