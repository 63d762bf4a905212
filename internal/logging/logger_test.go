package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dcimsort/internal/config"
	"dcimsort/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("scan finished", logging.Int("files", 3))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "dcimsort.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "scan finished") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerFormatsSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "sorter")
	logger.Info("file copied",
		logging.String(logging.FieldWorker, "pipeline001"),
		logging.String(logging.FieldFile, "/src/DCIM/IMG1.jpg"),
		logging.Int64("copied_bytes", 2048),
		logging.String(logging.FieldRequestID, "abc"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(content)
	if !strings.Contains(out, "INFO [sorter] pipeline001 · IMG1.jpg – file copied") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "- Copied: 2.0 kB") {
		t.Fatalf("expected humanized byte field, got %q", out)
	}
	if !strings.Contains(out, "+ 1 more field hidden") {
		t.Fatalf("expected request id to be hidden at info level, got %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("duplicate skipped", logging.String("target", "/out/a.jpg"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &payload); err != nil {
		t.Fatalf("decode json line: %v (%q)", err, content)
	}
	if payload["level"] != "warn" || payload["msg"] != "duplicate skipped" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestComponentLevelsFilterTaggedLoggers(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "levels.log")
	base, err := logging.New(logging.Options{
		Format:          "json",
		Level:           "info",
		ComponentLevels: map[string]string{"scanner": "warn", "sorter": "debug"},
		OutputPaths:     []string{logPath}, ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	base.Debug("base debug")
	logging.NewComponentLogger(base, "scanner").Info("scanner info")
	logging.NewComponentLogger(base, "scanner").Warn("scanner warn")
	sorter := logging.NewComponentLogger(base, "sorter")
	sorter.Debug("sorter debug")
	sorter.With(logging.String(logging.FieldFile, "a.jpg")).Debug("sorter file debug")
	logging.NewComponentLogger(sorter, "pipeline").Debug("nested pipeline debug")
	logging.NewComponentLogger(base, "pipeline").Info("pipeline info")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(content)
	for _, absent := range []string{"base debug", "scanner info", "nested pipeline debug"} {
		if strings.Contains(out, absent) {
			t.Fatalf("did not expect %q in %q", absent, out)
		}
	}
	for _, present := range []string{"scanner warn", "sorter debug", "sorter file debug", "pipeline info"} {
		if !strings.Contains(out, present) {
			t.Fatalf("expected %q in %q", present, out)
		}
	}
}

func TestComponentLevelsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "warn"
	cfg.Logging.ComponentLevels = map[string]string{"history": "debug"}

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("root info")
	logging.NewComponentLogger(logger, "history").Debug("history debug")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "dcimsort.log"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(content), "root info") || !strings.Contains(string(content), "history debug") {
		t.Fatalf("unexpected log content %q", content)
	}
}

func TestWithRunIDStampsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.WithRunID(slog.New(slog.NewJSONHandler(&buf, nil)), "run-123").With("extra", "value")
	logger.Info("started")
	out := buf.String()
	if !strings.Contains(out, `"run_id":"run-123"`) || !strings.Contains(out, `"extra":"value"`) {
		t.Fatalf("expected run_id and extra attrs, got %s", out)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "comparison failed", "comparison_failed")
	out := buf.String()
	for _, key := range []string{`"event_type":"comparison_failed"`, `"error_hint"`, `"impact"`} {
		if !strings.Contains(out, key) {
			t.Fatalf("expected %s in %s", key, out)
		}
	}
}
