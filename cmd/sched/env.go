package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/config"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/db"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/lock"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// timeLayout is how times are printed and, besides RFC 3339, accepted.
const timeLayout = "2006-01-02 15:04"

// env is what a command needs once configuration is loaded.
type env struct {
	cfg      *config.Config
	db       *gorm.DB
	log      *logrus.Logger
	closeLog func() error
}

func (e *env) close() {
	if e.closeLog != nil {
		e.closeLog()
	}
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", config.DefaultPath, "path to sched config file")
}

func connectFromConfig(cmd *cobra.Command, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		closeLog()
		return nil, err
	}
	return &env{cfg: cfg, db: gormDB, log: log, closeLog: closeLog}, nil
}

// newLocker returns a Redis-backed lock when Redis is configured, otherwise
// an in-process one.
func newLocker(cfg *config.Config) lock.Locker {
	if cfg.Redis.Addr == "" {
		return lock.NewLocal()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return lock.NewRedis(client, cfg.Redis.LockTTL)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(cmd.Context())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// parseTime accepts "now", RFC 3339, or "YYYY-MM-DD HH:MM" in loc.
func parseTime(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "now" {
		return now.In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation(timeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use \"now\", RFC 3339, or %q", s, timeLayout)
	}
	return t, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
