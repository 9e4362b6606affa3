package main

import (
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/dashboard"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	if port <= 0 {
		port = e.cfg.Dashboard.Port
	}
	ctx, cancel := signalContext(cmd)
	defer cancel()

	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:                     e.db,
		Port:                   port,
		Out:                    cmd.OutOrStdout(),
		Locker:                 newLocker(e.cfg),
		Location:               e.cfg.Location(),
		Logger:                 e.log,
		MaxSearchDays:          e.cfg.Scheduler.MaxSearchDays,
		HighUtilizationPercent: e.cfg.Scheduler.HighUtilizationPercent,
	})
}
