package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/config"
	"github.com/sirupsen/logrus"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"ERROR", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"chatty", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l, closeFn, err := New(config.LogConfig{Level: tt.level, Format: "text"}, &buf)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer closeFn()
			if l.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", l.GetLevel(), tt.want)
			}
		})
	}
}

func TestNew_InvalidLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	if _, _, err := New(config.LogConfig{Level: "chatty"}, &buf); err != nil {
		t.Fatalf("New: %v", err)
	}
	if !strings.Contains(buf.String(), `invalid log level \"chatty\"`) {
		t.Errorf("expected warning about invalid level, got %q", buf.String())
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.WithField("order_id", "PO-1").Info("placed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "placed" || entry["order_id"] != "PO-1" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("missing timestamp field")
	}
}

func TestNew_TextFormatWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(config.LogConfig{Level: "info", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hello")
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colors written to a non-terminal: %q", out)
	}
	if !strings.Contains(out, "msg=hello") {
		t.Errorf("output = %q", out)
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	if _, _, err := New(config.LogConfig{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sched.log")
	l, closeFn, err := New(config.LogConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1}, os.Stdout)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("to file")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
}
