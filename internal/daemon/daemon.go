// Package daemon regenerates the schedule on a cron cadence.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/lock"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/schedule"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// cronParser accepts standard 5-field expressions (minute, hour, dom,
// month, dow) and descriptors such as @hourly or @every 10m.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Opts holds parameters for the regeneration daemon.
type Opts struct {
	DB       *gorm.DB
	Locker   lock.Locker
	Cron     string
	Apply    bool
	Location *time.Location
	Logger   logrus.FieldLogger
	Out      io.Writer

	// RunOnStart regenerates once before the first scheduled tick.
	RunOnStart bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// NextRun returns the first fire time of expr after now.
func NextRun(expr string, now time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("daemon: parse cron %q: %w", expr, err)
	}
	return sched.Next(now), nil
}

// Run regenerates the schedule at every cron tick until ctx is cancelled.
// Failed ticks are logged and the loop carries on.
func Run(ctx context.Context, opts Opts) error {
	if opts.DB == nil {
		return fmt.Errorf("daemon: db is required")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Locker == nil {
		opts.Locker = lock.NewLocal()
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	sched, err := cronParser.Parse(opts.Cron)
	if err != nil {
		return fmt.Errorf("daemon: parse cron %q: %w", opts.Cron, err)
	}

	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithLocation(opts.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(sched, cron.FuncJob(func() { tick(ctx, opts) }))

	fmt.Fprintf(opts.Out, "Regeneration daemon starting (cron %q, apply=%t)...\n", opts.Cron, opts.Apply)
	if opts.RunOnStart {
		tick(ctx, opts)
	}
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	fmt.Fprintf(opts.Out, "Regeneration daemon stopped.\n")
	return nil
}

// tick runs one regeneration and, when applied, refreshes stored order
// statuses. Errors are logged, never returned.
func tick(ctx context.Context, opts Opts) {
	if ctx.Err() != nil {
		return
	}
	log := opts.Logger.WithField("trigger", schedule.TriggerCron)
	now := opts.Now()

	res, err := schedule.Regenerate(ctx, opts.DB, opts.Locker, schedule.RegenerateOpts{
		Apply:    opts.Apply,
		Trigger:  schedule.TriggerCron,
		Now:      now,
		Location: opts.Location,
		Logger:   opts.Logger,
	})
	switch {
	case errors.Is(err, lock.ErrNotObtained):
		log.Info("regeneration already running; tick skipped")
		return
	case errors.Is(err, schedule.ErrVersionConflict):
		log.WithError(err).Warn("schedule changed during regeneration; tick skipped")
		return
	case err != nil:
		log.WithError(err).Error("regeneration failed")
		return
	}
	fmt.Fprintf(opts.Out, "[%s] %d items, %d conflicts (applied=%t)\n",
		now.In(opts.Location).Format(time.RFC3339), len(res.Schedule), len(res.Conflicts), res.Applied)

	if !res.Applied {
		return
	}
	n, err := schedule.SyncOrderStatuses(opts.DB, opts.Location, now)
	if err != nil {
		log.WithError(err).Error("order status sync failed")
		return
	}
	if n > 0 {
		log.WithField("orders", n).Info("order statuses updated")
	}
}
