package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/plant"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/schedule"
	"github.com/spf13/cobra"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and inspect the production schedule",
	}

	cmd.AddCommand(newScheduleGenerateCmd())
	cmd.AddCommand(newScheduleShowCmd())
	cmd.AddCommand(newScheduleConflictsCmd())
	cmd.AddCommand(newScheduleProgressCmd())
	return cmd
}

func newScheduleGenerateCmd() *cobra.Command {
	var (
		configPath string
		apply      bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a schedule from current orders",
		Long: `Places every open order's process steps on its machines, highest
priority first. Without --apply the result is only printed; with --apply it
replaces the stored schedule and conflicts. Recorded progress is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleGenerate(cmd, configPath, apply, asJSON)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&apply, "apply", false, "store the generated schedule")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func runScheduleGenerate(cmd *cobra.Command, configPath string, apply, asJSON bool) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	res, err := schedule.Regenerate(cmd.Context(), e.db, newLocker(e.cfg), schedule.RegenerateOpts{
		Apply:    apply,
		Trigger:  schedule.TriggerCLI,
		Location: e.cfg.Location(),
		Logger:   e.log,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, res)
	}

	printItems(out, res.Schedule)
	for _, c := range res.Conflicts {
		fmt.Fprintf(out, "! %s\n", c.UserMessage)
	}
	if res.Applied {
		fmt.Fprintf(out, "\nApplied schedule version %d (%d items, %d conflicts)\n", res.Version, len(res.Schedule), len(res.Conflicts))
	} else {
		fmt.Fprintf(out, "\nGenerated %d items, %d conflicts (not applied; use --apply to store)\n", len(res.Schedule), len(res.Conflicts))
	}
	return nil
}

func newScheduleShowCmd() *cobra.Command {
	var (
		configPath string
		machineID  string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored schedule with live statuses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleShow(cmd, configPath, machineID, asJSON)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&machineID, "machine", "", "only items on this machine")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the schedule as JSON")
	return cmd
}

func runScheduleShow(cmd *cobra.Command, configPath, machineID string, asJSON bool) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	items, err := schedule.CurrentSchedule(e.db, e.cfg.Location(), time.Now())
	if err != nil {
		return err
	}
	if machineID != "" {
		var filtered []models.ScheduleItem
		for _, it := range items {
			if it.MachineID == machineID {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No scheduled items. Run 'sched schedule generate --apply' first.")
		return nil
	}

	printItems(out, items)
	run, err := schedule.LatestRun(e.db)
	if err != nil {
		return err
	}
	if run != nil {
		fmt.Fprintf(out, "\nVersion %d, generated %s (%s)\n", run.Version, run.GeneratedAt.In(e.cfg.Location()).Format(timeLayout), run.Trigger)
	}
	return nil
}

func printItems(out io.Writer, items []models.ScheduleItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tMACHINE\tORDER\tQTY\tSTART\tEND\tMINUTES\tSTATUS")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%.0f\t%s\n",
			it.ID, it.MachineID, it.OrderID, it.Quantity,
			it.StartDate.Format(timeLayout), it.EndDate.Format(timeLayout), it.AllocatedTime, it.Status)
	}
	w.Flush()
}

func newScheduleConflictsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List conflicts recorded by the latest applied schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleConflicts(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runScheduleConflicts(cmd *cobra.Command, configPath string) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	conflicts, err := schedule.CurrentConflicts(e.db)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(conflicts) == 0 {
		fmt.Fprintln(out, "No conflicts.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tMACHINE\tNEW PO\tAFFECTED PO\tSUGGESTED END\tMESSAGE")
	for _, c := range conflicts {
		suggested := "-"
		if c.SuggestedEndDate != nil {
			suggested = c.SuggestedEndDate.In(e.cfg.Location()).Format(timeLayout)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Kind, c.MachineID, c.NewPOID, c.ConflictingPOID, suggested, c.UserMessage)
	}
	w.Flush()
	return nil
}

func newScheduleProgressCmd() *cobra.Command {
	var (
		configPath string
		start      string
		end        string
	)

	cmd := &cobra.Command{
		Use:   "progress <item-id>",
		Short: "Record actual start and/or end time of a schedule item",
		Long: `Records shop-floor progress. Times are "now", RFC 3339, or
"YYYY-MM-DD HH:MM" in the plant time zone. Progress survives regeneration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduleProgress(cmd, configPath, args[0], start, end)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&start, "start", "", "actual start time")
	cmd.Flags().StringVar(&end, "end", "", "actual end time")
	cmd.MarkFlagsOneRequired("start", "end")
	return cmd
}

func runScheduleProgress(cmd *cobra.Command, configPath, itemID, start, end string) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	loc, now := e.cfg.Location(), time.Now()
	var opts plant.ProgressOpts
	if start != "" {
		t, err := parseTime(start, loc, now)
		if err != nil {
			return err
		}
		opts.Start = &t
	}
	if end != "" {
		t, err := parseTime(end, loc, now)
		if err != nil {
			return err
		}
		opts.End = &t
	}

	item, err := plant.RecordProgress(e.db, itemID, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Item %s is now %s\n", item.ID, item.Status)
	return nil
}
