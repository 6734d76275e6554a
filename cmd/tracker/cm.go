package main

import (
	"fmt"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/view"
	"github.com/spf13/cobra"
)

func newCMCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cm",
		Short: "Manage corrective maintenance work orders",
	}
	cmd.AddCommand(newCMAddCmd(a), newCMListCmd(a), newCMDeleteCmd(a))
	return cmd
}

func newCMAddCmd(a *app) *cobra.Command {
	var fields domain.CMFields
	var st string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Raise a work order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields.Status = domain.CMStatus(st)
			task, err := a.cm.Add(cmd.Context(), fields)
			if err != nil {
				return err
			}
			notify(cmd.OutOrStdout(), "CM task added successfully! Work Order: "+task.WorkOrder)
			fmt.Fprintln(cmd.OutOrStdout(), "ID:", task.ID)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&fields.WorkOrder, "work-order", "", "work order number")
	fl.StringVar(&fields.Description, "description", "", "fault description")
	fl.StringVar(&fields.ReportedBy, "reported-by", "", "who reported the fault")
	fl.StringVar(&fields.DateReported, "date", "", "date reported (YYYY-MM-DD)")
	fl.StringVar(&st, "status", "", "Open, In Progress or Completed (default Open)")
	fl.StringVar(&fields.AssignedTo, "assigned-to", "", "assignee")
	fl.StringVar(&fields.Priority, "priority", "", "priority")
	fl.StringVar(&fields.Location, "location", "", "location on the airfield")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newCMListCmd(a *app) *cobra.Command {
	var st, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), view.CMTable(a.cm.Filter(st, search)))
			return nil
		},
	}
	cmd.Flags().StringVar(&st, "status", domain.FilterAll, "status to show, or All")
	cmd.Flags().StringVar(&search, "search", "", "text to find in work order, description, location, reporter or assignee")
	return cmd
}

func newCMDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.cm.Resolve(args[0])
			if err != nil {
				return ignoreNotFound(err)
			}
			if !yes && !confirm(cmd, "Are you sure you want to delete this task?") {
				return nil
			}
			removed, err := a.cm.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if removed {
				notify(cmd.OutOrStdout(), "Task deleted successfully!")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
