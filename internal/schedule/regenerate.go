// Package schedule runs the scheduling engine against the database:
// regeneration under the generation lock, reads of the applied schedule,
// and feasibility checks.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/lock"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/plant"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/scheduler"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LockKey names the generation critical section.
const LockKey = "sched:generate"

// Triggers recorded on a ScheduleRun.
const (
	TriggerCLI  = "cli"
	TriggerAPI  = "api"
	TriggerCron = "cron"
)

// ErrVersionConflict is returned when another run was applied between
// reading the plant state and writing the new schedule.
var ErrVersionConflict = errors.New("schedule: version conflict")

// RegenerateOpts holds parameters for a regeneration.
type RegenerateOpts struct {
	Apply    bool
	Trigger  string
	Now      time.Time      // defaults to time.Now()
	Location *time.Location // plant time zone, defaults to time.Local
	Logger   logrus.FieldLogger

	// beforeApply runs after the version is read and before the write
	// transaction starts.
	beforeApply func()
}

// RunResult is the outcome of a regeneration. RunID and Version are set
// only when the schedule was applied.
type RunResult struct {
	RunID       string                `json:"run_id,omitempty"`
	Version     int64                 `json:"version,omitempty"`
	Applied     bool                  `json:"applied"`
	GeneratedAt time.Time             `json:"generated_at"`
	Schedule    []models.ScheduleItem `json:"schedule"`
	Conflicts   []scheduler.Conflict  `json:"conflicts"`
}

// Regenerate rebuilds the schedule from the current plant state. Progress
// recorded on existing items is carried onto the new plan. With Apply set,
// the stored schedule and conflicts are replaced atomically; the write fails
// with ErrVersionConflict if another run was applied in the meantime.
func Regenerate(ctx context.Context, db *gorm.DB, locker lock.Locker, opts RegenerateOpts) (*RunResult, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if locker == nil {
		locker = lock.NewLocal()
	}

	release, err := locker.Obtain(ctx, LockKey)
	if err != nil {
		return nil, fmt.Errorf("schedule: obtain generation lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			log.WithError(err).Warn("release generation lock")
		}
	}()

	version, err := currentVersion(db)
	if err != nil {
		return nil, err
	}
	snap, err := plant.LoadSnapshot(db, loc)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	gen := scheduler.Generate(snap.Input(), scheduler.GenerateOpts{Now: now, Logger: log})
	res := &RunResult{
		GeneratedAt: now,
		Schedule:    scheduler.Merge(snap.Schedule, gen.Schedule),
		Conflicts:   gen.Conflicts,
	}
	log.WithFields(logrus.Fields{
		"items":     len(res.Schedule),
		"conflicts": len(res.Conflicts),
		"apply":     opts.Apply,
	}).Info("schedule generated")
	if !opts.Apply {
		return res, nil
	}

	if opts.beforeApply != nil {
		opts.beforeApply()
	}
	run := models.ScheduleRun{
		ID:          uuid.NewString(),
		Version:     version + 1,
		Items:       len(res.Schedule),
		Conflicts:   len(res.Conflicts),
		Trigger:     opts.Trigger,
		GeneratedAt: now,
	}
	if err := apply(db, version, run, res); err != nil {
		return nil, err
	}
	res.RunID = run.ID
	res.Version = run.Version
	res.Applied = true
	log.WithFields(logrus.Fields{"run_id": run.ID, "version": run.Version}).Info("schedule applied")
	return res, nil
}

// apply replaces the stored schedule with res, provided the latest run is
// still at version expected.
func apply(db *gorm.DB, expected int64, run models.ScheduleRun, res *RunResult) error {
	return db.Transaction(func(tx *gorm.DB) error {
		current, err := currentVersion(tx)
		if err != nil {
			return err
		}
		if current != expected {
			return fmt.Errorf("%w: expected version %d, found %d", ErrVersionConflict, expected, current)
		}
		if err := tx.Create(&run).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: version %d already applied", ErrVersionConflict, run.Version)
			}
			return fmt.Errorf("schedule: record run: %w", err)
		}

		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&models.ScheduleItem{}).Error; err != nil {
			return fmt.Errorf("schedule: clear items: %w", err)
		}
		if err := all.Delete(&models.ScheduleConflict{}).Error; err != nil {
			return fmt.Errorf("schedule: clear conflicts: %w", err)
		}

		for i := range res.Schedule {
			res.Schedule[i].RunID = run.ID
		}
		if len(res.Schedule) > 0 {
			if err := tx.CreateInBatches(res.Schedule, 100).Error; err != nil {
				return fmt.Errorf("schedule: write items: %w", err)
			}
		}
		if len(res.Conflicts) > 0 {
			records := make([]models.ScheduleConflict, 0, len(res.Conflicts))
			for _, c := range res.Conflicts {
				records = append(records, c.Record(run.ID))
			}
			if err := tx.CreateInBatches(records, 100).Error; err != nil {
				return fmt.Errorf("schedule: write conflicts: %w", err)
			}
		}
		return nil
	})
}

func currentVersion(db *gorm.DB) (int64, error) {
	var v int64
	if err := db.Model(&models.ScheduleRun{}).Select("COALESCE(MAX(version), 0)").Scan(&v).Error; err != nil {
		return 0, fmt.Errorf("schedule: read version: %w", err)
	}
	return v, nil
}

// LatestRun returns the most recently applied run, or nil if none.
func LatestRun(db *gorm.DB) (*models.ScheduleRun, error) {
	var runs []models.ScheduleRun
	if err := db.Order("version DESC").Limit(1).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("schedule: latest run: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
