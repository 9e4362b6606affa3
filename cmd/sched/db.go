package main

import (
	"fmt"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/config"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/db"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBCreateCmd())
	cmd.AddCommand(newDBMigrateCmd())
	return cmd
}

func newDBCreateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the MySQL database if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBCreate(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runDBCreate(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		fmt.Fprintf(out, "SQLite database %s is created on first connect\n", cfg.Database.Path)
		return nil
	}

	adminDB, err := db.ConnectAdmin(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.CreateDatabase(adminDB, cfg.Database.Database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database %s ready\n", cfg.Database.Database)
	return nil
}

func newDBMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBMigrate(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runDBMigrate(cmd *cobra.Command, configPath string) error {
	e, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	if err := db.AutoMigrate(e.db); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables for plant %q\n", len(db.AllModels()), e.cfg.Plant)
	return nil
}
