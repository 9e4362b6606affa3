package plant

import (
	"testing"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const plantYAML = `
machines:
  - id: LATHE-1
    name: CNC Lathe
    type: lathe
    efficiency: 90
  - id: MILL-1
    name: Vertical Mill
    shift_timing: "08:00-16:00"
  - id: PRESS-1
    name: Press
    status: maintenance

products:
  - id: BRK-100
    name: Bracket
    priority: high
    estimated_cost: "12.50"
    process_flow:
      - name: turn
        machine_id: LATHE-1
        sequence: 1
        cycle_time_per_part: 2
        setup_time: 30
        next_process_delay: 24h
      - name: mill
        machine_id: MILL-1
        sequence: 2
        cycle_time_per_part: 3
        setup_time: 15

shifts:
  - id: day
    name: Day shift
    timing:
      start_time: "09:00"
      end_time: "17:00"
    break_times:
      - start: "12:00"
        end: "12:30"
        duration: 30
    working_days: [monday, tuesday, wednesday, thursday, friday]
    is_active: true

holidays:
  - date: "2026-12-25"
    name: Christmas

orders:
  - id: PO-1
    product_id: BRK-100
    customer: Acme
    quantity: 40
    po_date: "2026-10-16"
    delivery_date: "2026-10-30"
    priority: urgent
`

// openTestDB returns a migrated in-memory SQLite database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// seedPlant imports plantYAML into gdb.
func seedPlant(t *testing.T, gdb *gorm.DB) *File {
	t.Helper()
	f, err := ParsePlantFile([]byte(plantYAML))
	if err != nil {
		t.Fatalf("ParsePlantFile: %v", err)
	}
	if _, err := Import(gdb, f); err != nil {
		t.Fatalf("Import: %v", err)
	}
	return f
}
