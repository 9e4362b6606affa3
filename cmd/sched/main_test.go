package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/config"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/lock"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "sched dev") || !strings.Contains(out, "commit: none") {
		t.Errorf("unexpected version output: %s", out)
	}
}

func TestVersionCmdWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "sched 1.0.0 (commit: abc123, built: 2026-01-01)") {
		t.Errorf("unexpected version output: %s", out)
	}
}

func TestRootCmdHelp(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"places purchase orders onto shop-floor machines", "schedule", "feasibility", "order", "plant", "watch", "serve"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestExecute_ReturnsExitCode(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"order", "cancel"})
	if code := execute(cmd); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestMissingConfig(t *testing.T) {
	_, _, err := runCmd(t, "order", "list", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Errorf("err = %v", err)
	}
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("PLANT", 2*3600)
	now := time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"now", now, false},
		{"2026-10-19T09:05:00Z", time.Date(2026, 10, 19, 9, 5, 0, 0, time.UTC), false},
		{"2026-10-19 09:05", time.Date(2026, 10, 19, 9, 5, 0, 0, loc), false},
		{"9:05", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in, loc, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseTime = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewLocker(t *testing.T) {
	cfg := &config.Config{}
	if _, ok := newLocker(cfg).(*lock.Local); !ok {
		t.Error("expected in-process locker without redis")
	}
	cfg.Redis.Addr = "127.0.0.1:6379"
	if _, ok := newLocker(cfg).(*lock.Redis); !ok {
		t.Error("expected redis locker when redis.addr is set")
	}
}
