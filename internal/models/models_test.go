package models

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestMachine_Fields(t *testing.T) {
	typ := reflect.TypeOf(Machine{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:64")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "Status", "default:active")
	assertGormTag(t, typ, "Status", "index")
	assertGormTag(t, typ, "Efficiency", "default:100")
	assertGormTag(t, typ, "ShiftTiming", "size:16")

	assertFieldType(t, typ, "Status", "models.MachineStatus")
	assertFieldType(t, typ, "WorkingHours", "*float64")
}

func TestProduct_Relations(t *testing.T) {
	typ := reflect.TypeOf(Product{})

	assertGormTag(t, typ, "ProcessFlow", "foreignKey:ProductID")
	assertGormTag(t, typ, "EstimatedCost", "type:decimal(12,2)")
	assertGormTag(t, typ, "Priority", "default:medium")

	assertFieldType(t, typ, "ProcessFlow", "[]models.ProcessStep")
	assertFieldType(t, typ, "EstimatedCost", "decimal.Decimal")
}

func TestProcessStep_Fields(t *testing.T) {
	typ := reflect.TypeOf(ProcessStep{})

	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "ProductID", "index")
	assertGormTag(t, typ, "MachineID", "not null")
	assertGormTag(t, typ, "Sequence", "not null")

	assertFieldType(t, typ, "NextProcessDelay", "models.ProcessDelayKind")
}

func TestPurchaseOrder_Fields(t *testing.T) {
	typ := reflect.TypeOf(PurchaseOrder{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "PODate", "column:po_date")
	assertGormTag(t, typ, "DeliveryDate", "size:10")
	assertGormTag(t, typ, "Priority", "default:medium")
	assertGormTag(t, typ, "Status", "default:pending")

	assertFieldType(t, typ, "PODate", "string")
	assertFieldType(t, typ, "Status", "models.OrderStatus")
}

func TestShift_Fields(t *testing.T) {
	typ := reflect.TypeOf(Shift{})

	assertGormTag(t, typ, "Timing", "embedded")
	assertGormTag(t, typ, "BreakTimes", "serializer:json")
	assertGormTag(t, typ, "WorkingDays", "serializer:json")

	assertFieldType(t, typ, "BreakTimes", "[]models.BreakTime")
	assertFieldType(t, typ, "WorkingDays", "[]string")

	assertGormTag(t, reflect.TypeOf(Holiday{}), "Date", "primaryKey")
}

func TestScheduleItem_Fields(t *testing.T) {
	typ := reflect.TypeOf(ScheduleItem{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:192")
	assertGormTag(t, typ, "OrderID", "index")
	assertGormTag(t, typ, "MachineID", "index")
	assertGormTag(t, typ, "Status", "default:scheduled")

	assertFieldType(t, typ, "StartDate", "time.Time")
	assertFieldType(t, typ, "ActualStartTime", "*time.Time")
	assertFieldType(t, typ, "ActualEndTime", "*time.Time")
}

func TestScheduleConflict_Fields(t *testing.T) {
	typ := reflect.TypeOf(ScheduleConflict{})

	assertGormTag(t, typ, "ConflictingPOID", "column:conflicting_po_id")
	assertGormTag(t, typ, "NewPOID", "column:new_po_id")
	assertGormTag(t, typ, "Kind", "not null")
	assertFieldType(t, typ, "SuggestedEndDate", "*time.Time")
}

func TestScheduleRun_Fields(t *testing.T) {
	typ := reflect.TypeOf(ScheduleRun{})

	assertGormTag(t, typ, "ID", "size:36")
	assertGormTag(t, typ, "Version", "uniqueIndex")
	assertFieldType(t, typ, "Version", "int64")
}

func TestPriority_Rank(t *testing.T) {
	tests := []struct {
		p    Priority
		want int
	}{
		{PriorityUrgent, 4},
		{PriorityHigh, 3},
		{PriorityMedium, 2},
		{PriorityLow, 1},
		{"critical", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := tt.p.Rank(); got != tt.want {
			t.Errorf("Priority(%q).Rank() = %d, want %d", tt.p, got, tt.want)
		}
		if got := tt.p.Valid(); got != (tt.want > 0) {
			t.Errorf("Priority(%q).Valid() = %v", tt.p, got)
		}
	}
}

func TestOrderStatus_Schedulable(t *testing.T) {
	tests := []struct {
		s    OrderStatus
		want bool
	}{
		{OrderPending, true},
		{OrderInProgress, true},
		{OrderDelayed, true},
		{OrderCompleted, false},
		{OrderCancelled, false},
	}
	for _, tt := range tests {
		if got := tt.s.Schedulable(); got != tt.want {
			t.Errorf("OrderStatus(%q).Schedulable() = %v, want %v", tt.s, got, tt.want)
		}
		if !tt.s.Valid() {
			t.Errorf("OrderStatus(%q).Valid() = false", tt.s)
		}
	}
	if OrderStatus("archived").Valid() {
		t.Error("unknown order status reported valid")
	}
}

func TestEnums_Valid(t *testing.T) {
	for _, s := range []MachineStatus{MachineActive, MachineIdle, MachineMaintenance, MachineInactive, MachineBreakdown} {
		if !s.Valid() {
			t.Errorf("MachineStatus(%q).Valid() = false", s)
		}
	}
	if MachineStatus("running").Valid() {
		t.Error("unknown machine status reported valid")
	}
	for _, s := range []ScheduleStatus{ScheduleScheduled, ScheduleInProgress, ScheduleDelayed, ScheduleCompleted} {
		if !s.Valid() {
			t.Errorf("ScheduleStatus(%q).Valid() = false", s)
		}
	}
	for _, k := range []ProcessDelayKind{"", DelayImmediate, DelayFixed24h, DelayFixed48h, DelayChainComplete, DelayCustomHours} {
		if !k.Valid() {
			t.Errorf("ProcessDelayKind(%q).Valid() = false", k)
		}
	}
	if ProcessDelayKind("72h").Valid() {
		t.Error("unknown delay kind reported valid")
	}
}

func TestProduct_Instantiation(t *testing.T) {
	p := Product{
		ID:            "P-100",
		Name:          "Bracket",
		Priority:      PriorityHigh,
		EstimatedCost: decimal.RequireFromString("12.50"),
		ProcessFlow: []ProcessStep{
			{Sequence: 1, MachineID: "LATHE-1", CycleTimePerPart: 2, SetupTime: 15},
			{Sequence: 2, MachineID: "MILL-1", CycleTimePerPart: 3, NextProcessDelay: DelayFixed24h},
		},
	}
	if len(p.ProcessFlow) != 2 {
		t.Fatalf("len(ProcessFlow) = %d, want 2", len(p.ProcessFlow))
	}
	if !p.EstimatedCost.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("EstimatedCost = %s, want 12.50", p.EstimatedCost)
	}
}

func TestScheduleItem_Instantiation(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	it := ScheduleItem{
		ID:              "PO-1-M1-1",
		OrderID:         "PO-1",
		MachineID:       "M1",
		Sequence:        1,
		StartDate:       start,
		EndDate:         start.Add(390 * time.Minute),
		AllocatedTime:   390,
		Status:          ScheduleInProgress,
		ActualStartTime: &start,
	}
	if it.ActualEndTime != nil {
		t.Error("ActualEndTime should be nil")
	}
	if got := it.EndDate.Sub(it.StartDate); got != 390*time.Minute {
		t.Errorf("span = %v, want 6h30m", got)
	}
}
