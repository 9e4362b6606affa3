package plant

import (
	"testing"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
)

func TestLoadSnapshot(t *testing.T) {
	gdb := openTestDB(t)
	seedPlant(t, gdb)

	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	items := []models.ScheduleItem{
		{ID: "PO-1-MILL-1-2", OrderID: "PO-1", ProductID: "BRK-100", MachineID: "MILL-1", Sequence: 2,
			StartDate: start.Add(24 * time.Hour), EndDate: start.Add(26 * time.Hour), Status: models.ScheduleScheduled},
		{ID: "PO-1-LATHE-1-1", OrderID: "PO-1", ProductID: "BRK-100", MachineID: "LATHE-1", Sequence: 1,
			StartDate: start, EndDate: start.Add(2 * time.Hour), Status: models.ScheduleScheduled},
		{ID: "PO-9-LATHE-1-1", OrderID: "PO-9", ProductID: "BRK-100", MachineID: "LATHE-1", Sequence: 1,
			StartDate: start.Add(3 * time.Hour), EndDate: start.Add(4 * time.Hour), Status: models.ScheduleScheduled},
	}
	if err := gdb.Create(&items).Error; err != nil {
		t.Fatalf("seed schedule: %v", err)
	}

	loc := time.FixedZone("IST", 5*3600+1800)
	snap, err := LoadSnapshot(gdb, loc)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if len(snap.Machines) != 3 || snap.Machines[0].ID != "LATHE-1" {
		t.Errorf("machines = %+v", snap.Machines)
	}
	p := snap.Product("BRK-100")
	if p == nil || len(p.ProcessFlow) != 2 {
		t.Fatalf("product = %+v", p)
	}
	if p.ProcessFlow[0].Sequence != 1 || p.ProcessFlow[1].MachineID != "MILL-1" {
		t.Errorf("process flow out of order: %+v", p.ProcessFlow)
	}
	if snap.Product("NOPE") != nil || snap.Machine("NOPE") != nil {
		t.Error("lookup of unknown ID should be nil")
	}
	if m := snap.Machine("PRESS-1"); m == nil || m.Status != models.MachineMaintenance {
		t.Errorf("machine PRESS-1 = %+v", m)
	}

	if got := snap.HolidayDates(); len(got) != 1 || got[0] != "2026-12-25" {
		t.Errorf("HolidayDates = %v", got)
	}
	if len(snap.Shifts) != 1 || snap.Shifts[0].BreakTimes[0].Duration != 30 {
		t.Errorf("shifts = %+v", snap.Shifts)
	}

	if len(snap.Schedule) != 3 || snap.Schedule[0].ID != "PO-1-LATHE-1-1" {
		t.Fatalf("schedule order = %+v", snap.Schedule)
	}
	first := snap.Schedule[0]
	if first.StartDate.Location().String() != "IST" {
		t.Errorf("start location = %s, want IST", first.StartDate.Location())
	}
	if !first.StartDate.Equal(start) {
		t.Errorf("start = %s, want %s", first.StartDate, start)
	}

	in := snap.Input()
	if len(in.Orders) != 1 || len(in.Existing) != 3 || len(in.Holidays) != 1 {
		t.Errorf("Input = %d orders, %d existing, %d holidays", len(in.Orders), len(in.Existing), len(in.Holidays))
	}

	req := snap.FeasibilityRequest(snap.Orders[0])
	if req.Product == nil || req.Product.ID != "BRK-100" {
		t.Errorf("request product = %+v", req.Product)
	}
	if len(req.Existing) != 1 || req.Existing[0].OrderID != "PO-9" {
		t.Errorf("request existing = %+v, want only other orders' items", req.Existing)
	}
}

func TestLoadSnapshot_Empty(t *testing.T) {
	gdb := openTestDB(t)
	snap, err := LoadSnapshot(gdb, nil)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Machines)+len(snap.Products)+len(snap.Orders)+len(snap.Schedule) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if got := snap.HolidayDates(); len(got) != 0 {
		t.Errorf("HolidayDates = %v", got)
	}
}
