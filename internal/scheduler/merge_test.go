package scheduler

import (
	"testing"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
)

func TestMerge(t *testing.T) {
	started := monday(9, 5)
	ended := monday(11, 0)

	running := planned("PO-1", monday(9, 0), monday(12, 0))
	running.Status = models.ScheduleInProgress
	running.ActualStartTime = &started

	idle := planned("PO-2", monday(12, 0), monday(14, 0))
	idle.ID = ItemID("PO-2", "M1", 1)

	orphan := planned("PO-3", monday(6, 0), monday(8, 0))
	orphan.ID = ItemID("PO-3", "M1", 1)
	orphan.Status = models.ScheduleCompleted
	orphan.ActualStartTime = &started
	orphan.ActualEndTime = &ended

	previous := []models.ScheduleItem{running, idle, orphan}

	freshRunning := planned("PO-1", monday(10, 0), monday(13, 0))
	freshIdle := planned("PO-2", monday(13, 0), monday(15, 0))
	freshIdle.ID = idle.ID
	fresh := []models.ScheduleItem{freshRunning, freshIdle}

	got := Merge(previous, fresh)
	if len(got) != 3 {
		t.Fatalf("Merge() returned %d items, want 3", len(got))
	}

	if got[0].Status != models.ScheduleInProgress {
		t.Errorf("progress status not carried: %q", got[0].Status)
	}
	if got[0].ActualStartTime == nil || !got[0].ActualStartTime.Equal(started) {
		t.Errorf("actual start not carried: %v", got[0].ActualStartTime)
	}
	if got[0].ActualStartTime == running.ActualStartTime {
		t.Error("actual start pointer shared with previous item")
	}
	assertTime(t, "fresh plan start kept", got[0].StartDate, monday(10, 0))

	if got[1].Status != models.ScheduleScheduled || got[1].ActualStartTime != nil {
		t.Errorf("item without progress should be fresh: %+v", got[1])
	}
	assertTime(t, "fresh start", got[1].StartDate, monday(13, 0))

	if got[2].ID != orphan.ID || got[2].Status != models.ScheduleCompleted {
		t.Errorf("orphaned progress item not carried forward: %+v", got[2])
	}

	if fresh[0].Status != models.ScheduleScheduled {
		t.Error("fresh input was modified")
	}
}

func TestMerge_Empty(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %v, want empty", got)
	}
	fresh := []models.ScheduleItem{planned("PO-1", monday(9, 0), monday(10, 0))}
	if got := Merge(nil, fresh); len(got) != 1 || got[0].ID != fresh[0].ID {
		t.Errorf("Merge(nil, fresh) = %v", got)
	}
}
