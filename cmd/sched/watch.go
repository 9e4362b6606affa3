package main

import (
	"fmt"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/daemon"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		cronExpr   string
		apply      bool
		now        bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the schedule on a cron cadence",
		Long: `Runs until interrupted, regenerating the schedule at every tick of the
configured cron expression. Flags override regenerate.cron and
regenerate.apply from the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, configPath, cronExpr, apply, now)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression (default from config)")
	cmd.Flags().BoolVar(&apply, "apply", false, "store each generated schedule")
	cmd.Flags().BoolVar(&now, "now", false, "regenerate once immediately")
	return cmd
}

func runWatch(cmd *cobra.Command, configPath, cronExpr string, apply, now bool) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	if cronExpr == "" {
		cronExpr = e.cfg.Regenerate.Cron
	}
	if !cmd.Flags().Changed("apply") {
		apply = e.cfg.Regenerate.Apply
	}
	loc := e.cfg.Location()
	next, err := daemon.NextRun(cronExpr, time.Now().In(loc))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Next regeneration at %s\n", next.Format(timeLayout))

	ctx, cancel := signalContext(cmd)
	defer cancel()

	return daemon.Run(ctx, daemon.Opts{
		DB:         e.db,
		Locker:     newLocker(e.cfg),
		Cron:       cronExpr,
		Apply:      apply,
		Location:   loc,
		Logger:     e.log,
		Out:        cmd.OutOrStdout(),
		RunOnStart: now,
	})
}
