package scheduler

import "github.com/itzmeahammed/automate-schdeule-sub000/internal/models"

func hasProgress(it models.ScheduleItem) bool {
	switch it.Status {
	case models.ScheduleInProgress, models.ScheduleCompleted:
		return true
	case models.ScheduleScheduled, models.ScheduleDelayed:
		return false
	}
	return false
}

// Merge carries real-world progress from previous onto a freshly generated
// schedule. For every fresh item whose ID matches a previous in-progress or
// completed item, Status and the actual times are copied over while the
// fresh plan dates are kept. Previous items with progress that the fresh
// schedule no longer contains (for example, their order has since been
// completed) are appended unchanged. Neither input is modified.
func Merge(previous, fresh []models.ScheduleItem) []models.ScheduleItem {
	prev := make(map[string]models.ScheduleItem, len(previous))
	for _, p := range previous {
		if hasProgress(p) {
			prev[p.ID] = p
		}
	}

	out := make([]models.ScheduleItem, 0, len(fresh))
	seen := make(map[string]bool, len(fresh))
	for _, f := range fresh {
		seen[f.ID] = true
		if p, ok := prev[f.ID]; ok {
			f.Status = p.Status
			f.ActualStartTime = copyTime(p.ActualStartTime)
			f.ActualEndTime = copyTime(p.ActualEndTime)
		}
		out = append(out, f)
	}
	for _, p := range previous {
		if _, ok := prev[p.ID]; ok && !seen[p.ID] {
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}
