package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/recurring"
	"github.com/aglmct/tracker/internal/status"
	"github.com/aglmct/tracker/internal/view"
	"github.com/spf13/cobra"
)

func newPPMCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ppm",
		Short: "Manage planned preventive maintenance tasks",
	}
	cmd.AddCommand(
		newPPMAddCmd(a),
		newPPMEditCmd(a),
		newPPMDeleteCmd(a),
		newPPMListCmd(a),
		newPPMShowCmd(a),
		newPPMPhotoCmd(a),
		newPPMHistoryCmd(a),
		newPPMForecastCmd(a),
	)
	return cmd
}

// ppmFlags are the editable task fields as command-line flags.
type ppmFlags struct {
	shift       string
	description string
	taskType    string
	due         string
	frequency   string
	status      string
	dayShift    string
	nightShift  string
	photos      []string
}

func (f *ppmFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.shift, "shift", "", "shift type (Day, Night, Both)")
	fl.StringVar(&f.description, "description", "", "task description")
	fl.StringVar(&f.taskType, "type", "", "task type (Inspection, Cleaning, Repair, Service, Testing)")
	fl.StringVar(&f.due, "due", "", "due date (YYYY-MM-DD)")
	fl.StringVar(&f.frequency, "frequency", "", "recurrence: Daily, Weekly, Monthly, Quarterly, Yearly")
	fl.StringVar(&f.status, "status", "", "Not Started, In Progress or Completed")
	fl.StringVar(&f.dayShift, "day-shift", "", "day shift assignee")
	fl.StringVar(&f.nightShift, "night-shift", "", "night shift assignee")
	fl.StringSliceVar(&f.photos, "photo", nil, "image file to attach (repeatable)")
}

// apply copies every flag the user set onto fields.
func (f *ppmFlags) apply(cmd *cobra.Command, fields *domain.PPMFields) error {
	changed := cmd.Flags().Changed
	if changed("shift") {
		fields.ShiftType = f.shift
	}
	if changed("description") {
		fields.Description = f.description
	}
	if changed("type") {
		fields.Type = f.taskType
	}
	if changed("due") {
		fields.DueDate = strings.TrimSpace(f.due)
	}
	if changed("frequency") {
		freq, err := domain.NewFrequency(f.frequency)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		fields.Frequency = freq
	}
	if changed("status") {
		st, err := domain.NewManualStatus(f.status)
		if err != nil {
			return err
		}
		fields.Status = st
	}
	if changed("day-shift") {
		fields.DayShift = f.dayShift
	}
	if changed("night-shift") {
		fields.NightShift = f.nightShift
	}
	return nil
}

// loadPhotos reads the --photo files, reporting skipped ones on stderr.
func (a *app) loadPhotos(cmd *cobra.Command, paths []string) []domain.Photo {
	if len(paths) == 0 {
		return nil
	}
	photos, errs := a.photos.Load(cmd.Context(), paths...)
	for _, err := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), view.ErrorStyle.Render("Skipped photo: "+err.Error()))
	}
	return photos
}

// completionNotice describes what a submission did, mirroring the form notifications.
func completionNotice(submitted domain.ManualStatus, task domain.PPMTask, fallback string) string {
	if submitted == domain.StatusCompleted && task.Status != domain.StatusCompleted {
		return "Task completed! Next due date set to " + domain.DisplayDate(task.DueDate)
	}
	return fallback
}

func newPPMAddCmd(a *app) *cobra.Command {
	var f ppmFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a PPM task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := domain.PPMFields{Status: domain.StatusNotStarted}
			if err := f.apply(cmd, &fields); err != nil {
				return err
			}
			fields.Photos = a.loadPhotos(cmd, f.photos)

			task, err := a.ppm.Add(cmd.Context(), fields)
			if err != nil {
				return err
			}
			notify(cmd.OutOrStdout(), completionNotice(fields.Status, task, "PPM task added successfully!"))
			fmt.Fprintln(cmd.OutOrStdout(), "ID:", task.ID)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func newPPMEditCmd(a *app) *cobra.Command {
	var f ppmFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a PPM task; only the given flags change",
		Long: `Edit a PPM task; only the given flags change.

Setting --status Completed on a recurring task records the completion and
moves the task to its next due date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.ppm.Resolve(args[0])
			if err != nil {
				return ignoreNotFound(err)
			}
			existing, err := a.ppm.Get(id)
			if err != nil {
				return ignoreNotFound(err)
			}

			fields := domain.FieldsOf(existing)
			if err := f.apply(cmd, &fields); err != nil {
				return err
			}
			fields.Photos = append(fields.Photos, a.loadPhotos(cmd, f.photos)...)

			task, err := a.ppm.Update(cmd.Context(), id, fields)
			if err != nil {
				return ignoreNotFound(err)
			}
			notify(cmd.OutOrStdout(), completionNotice(fields.Status, task, "Task updated successfully!"))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newPPMDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a PPM task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.ppm.Resolve(args[0])
			if err != nil {
				return ignoreNotFound(err)
			}
			if !yes && !confirm(cmd, "Are you sure you want to delete this task?") {
				return nil
			}
			removed, err := a.ppm.Delete(cmd.Context(), id)
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

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprint(cmd.OutOrStdout(), question+" [y/N] ")
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newPPMListCmd(a *app) *cobra.Command {
	var shift, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List PPM tasks, most urgent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := a.ppm.Filter(shift, search)
			fmt.Fprintln(cmd.OutOrStdout(), view.PPMTable(status.SortByUrgency(tasks, a.now())))
			return nil
		},
	}
	cmd.Flags().StringVar(&shift, "shift", domain.FilterAll, "shift type to show, or All")
	cmd.Flags().StringVar(&search, "search", "", "text to find in description, type or status")
	return cmd
}

func newPPMShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a PPM task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.ppm.Resolve(args[0])
			if err != nil {
				return ignoreNotFound(err)
			}
			task, err := a.ppm.Get(id)
			if err != nil {
				return ignoreNotFound(err)
			}
			now := a.now()
			fmt.Fprintln(cmd.OutOrStdout(), view.TaskDetail(status.Classified{Task: task, Status: status.ClassifyTask(task, now)}, now))
			return nil
		},
	}
}

func newPPMPhotoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo",
		Short: "Attach or remove photo evidence",
	}

	add := &cobra.Command{
		Use:   "add <id> <file>...",
		Short: "Attach image files to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.ppm.Resolve(args[0])
			if err != nil {
				return ignoreNotFound(err)
			}
			photos := a.loadPhotos(cmd, args[1:])
			if len(photos) == 0 {
				hint(cmd.OutOrStdout(), "No images to attach")
				return nil
			}
			task, err := a.ppm.AddPhotos(cmd.Context(), id, photos...)
			if err != nil {
				return ignoreNotFound(err)
			}
			notify(cmd.OutOrStdout(), fmt.Sprintf("Attached %d photo(s); task now has %d", len(photos), len(task.Photos)))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id> <index>",
		Short: "Remove a photo by its index as shown by 'ppm show'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: photo index %q is not a number", domain.ErrValidation, args[1])
			}
			id, err := a.ppm.Resolve(args[0])
			if err != nil {
				return ignoreNotFound(err)
			}
			task, err := a.ppm.RemovePhoto(cmd.Context(), id, index)
			if err != nil {
				return ignoreNotFound(err)
			}
			notify(cmd.OutOrStdout(), fmt.Sprintf("Photo removed; task now has %d", len(task.Photos)))
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newPPMHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent completions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := a.ppm.History(limit)
			if len(tasks) == 0 {
				hint(cmd.OutOrStdout(), "No completed tasks in history")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.HistoryTable(tasks, a.now()))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of completions to show (default 10)")
	return cmd
}

func newPPMForecastCmd(a *app) *cobra.Command {
	var until string
	var months int
	cmd := &cobra.Command{
		Use:   "forecast <id>",
		Short: "Project upcoming due dates of a recurring task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.ppm.Resolve(args[0])
			if err != nil {
				return ignoreNotFound(err)
			}
			task, err := a.ppm.Get(id)
			if err != nil {
				return ignoreNotFound(err)
			}

			end := a.now().AddDate(0, months, 0)
			if until != "" {
				if end, err = domain.ParseDate(until); err != nil {
					return fmt.Errorf("%w: --until: %w", domain.ErrValidation, err)
				}
			}

			dates, err := recurring.Forecast(task, end)
			if err != nil {
				hint(cmd.OutOrStdout(), fmt.Sprintf("Task does not recur (%v)", err))
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", domain.OrDefault(task.Description, "No description"), task.Frequency)
			for _, d := range dates {
				fmt.Fprintln(out, "  "+domain.DisplayDate(d))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&until, "until", "", "last date to project (YYYY-MM-DD)")
	cmd.Flags().IntVar(&months, "months", 6, "months ahead to project when --until is not set")
	return cmd
}
