package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPlant = `
machines:
  - id: M1
    name: Lathe
products:
  - id: P1
    name: Bracket
    process_flow:
      - machine_id: M1
        sequence: 1
        cycle_time_per_part: 1
        setup_time: 30
shifts:
  - id: day
    timing:
      start_time: "09:00"
      end_time: "17:00"
    working_days: [monday, tuesday, wednesday, thursday, friday]
    is_active: true
orders:
  - id: PO-1
    product_id: P1
    quantity: 120
    po_date: "2026-10-16"
    delivery_date: "2099-12-31"
`

// setupWorkspace writes a SQLite config and a plant file to a temp dir.
func setupWorkspace(t *testing.T) (configPath, plantPath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "sched.yaml")
	cfg := fmt.Sprintf("plant: test\ntimezone: UTC\ndatabase:\n  driver: sqlite\n  path: %s\nlog:\n  level: error\n",
		filepath.Join(dir, "sched.db"))
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	plantPath = filepath.Join(dir, "plant.yaml")
	if err := os.WriteFile(plantPath, []byte(testPlant), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath, plantPath
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("sched %s: %v\n%s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDBCreate_SQLite(t *testing.T) {
	cfg, _ := setupWorkspace(t)
	out := mustRun(t, "db", "create", "-c", cfg)
	assertContains(t, out, "created on first connect")
}

func TestPlantImport_DryRun(t *testing.T) {
	cfg, plantFile := setupWorkspace(t)
	out := mustRun(t, "plant", "import", plantFile, "--dry-run", "-c", cfg)
	assertContains(t, out, "is valid: 1 machines, 1 products, 1 shifts, 0 holidays, 1 orders")
}

func TestPlantImport_Invalid(t *testing.T) {
	cfg, _ := setupWorkspace(t)
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("machines:\n  - id: M1\n"), 0644)
	_, _, err := runCmd(t, "plant", "import", bad, "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v", err)
	}
}

func TestEndToEnd(t *testing.T) {
	cfg, plantFile := setupWorkspace(t)

	assertContains(t, mustRun(t, "db", "migrate", "-c", cfg), "Migrated 9 tables")
	assertContains(t, mustRun(t, "plant", "import", plantFile, "-c", cfg),
		"Imported 1 machines, 1 products (1 steps), 1 shifts, 0 holidays, 1 orders")
	assertContains(t, mustRun(t, "plant", "show", "-c", cfg), "M1", "480 min", "1 products, 1 active shifts")

	out := mustRun(t, "order", "create", "--id", "PO-2", "--product", "P1", "--quantity", "10",
		"--delivery", "2099-06-30", "--priority", "high", "-c", cfg)
	assertContains(t, out, "Created order PO-2: 10 x P1, delivery 2099-06-30 (high)")

	_, _, err := runCmd(t, "order", "create", "--product", "NOPE", "--quantity", "1", "--delivery", "2099-01-01", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "product not found") {
		t.Errorf("unknown product err = %v", err)
	}

	out = mustRun(t, "order", "list", "-c", cfg)
	assertContains(t, out, "PO-1", "PO-2", "2 order(s)")
	out = mustRun(t, "order", "list", "--priority", "high", "-c", cfg)
	assertContains(t, out, "PO-2", "1 order(s)")

	out = mustRun(t, "schedule", "generate", "-c", cfg)
	assertContains(t, out, "PO-1-M1-1", "PO-2-M1-1", "not applied")
	assertContains(t, mustRun(t, "schedule", "show", "-c", cfg), "No scheduled items")

	out = mustRun(t, "schedule", "generate", "--apply", "-c", cfg)
	assertContains(t, out, "Applied schedule version 1 (2 items, 0 conflicts)")
	out = mustRun(t, "schedule", "show", "-c", cfg)
	assertContains(t, out, "PO-1-M1-1", "Version 1", "(cli)")
	out = mustRun(t, "schedule", "show", "--machine", "M9", "-c", cfg)
	assertContains(t, out, "No scheduled items")
	assertContains(t, mustRun(t, "schedule", "conflicts", "-c", cfg), "No conflicts.")

	out = mustRun(t, "schedule", "show", "--json", "-c", cfg)
	assertContains(t, out, `"id": "PO-2-M1-1"`)

	out = mustRun(t, "schedule", "progress", "PO-2-M1-1", "--start", "2026-10-19 09:05", "-c", cfg)
	assertContains(t, out, "Item PO-2-M1-1 is now in-progress")
	_, _, err = runCmd(t, "schedule", "progress", "PO-2-M1-1", "--end", "2026-10-19 08:00", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "before start") {
		t.Errorf("end before start err = %v", err)
	}
	out = mustRun(t, "schedule", "progress", "PO-2-M1-1", "--end", "2026-10-19 09:45", "-c", cfg)
	assertContains(t, out, "is now completed")

	out = mustRun(t, "feasibility", "check", "--product", "P1", "--quantity", "10",
		"--po-date", "2099-01-05", "--delivery", "2099-01-09", "--json", "-c", cfg)
	assertContains(t, out, `"feasible": true`, `"working_days": 3`)
	out = mustRun(t, "feasibility", "check", "--order", "PO-1", "-c", cfg)
	assertContains(t, out, "FEASIBLE", "production:")
	_, _, err = runCmd(t, "feasibility", "check", "-c", cfg)
	if err == nil {
		t.Error("expected error without --order or --product")
	}

	assertContains(t, mustRun(t, "order", "cancel", "PO-1", "-c", cfg), "Cancelled order PO-1")
	_, _, err = runCmd(t, "order", "cancel", "PO-1", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "invalid status transition") {
		t.Errorf("second cancel err = %v", err)
	}
	out = mustRun(t, "order", "summary", "-c", cfg)
	assertContains(t, out, "cancelled", "completed", "total")
}

func TestWatch_BadCron(t *testing.T) {
	cfg, _ := setupWorkspace(t)
	mustRun(t, "db", "migrate", "-c", cfg)
	_, _, err := runCmd(t, "watch", "--cron", "not a cron", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "parse cron") {
		t.Errorf("err = %v", err)
	}
}
