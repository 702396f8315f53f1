package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/logging"
	"scribe/internal/services"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", logging.String("video_id", "abc"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "hello" || record["video_id"] != "abc" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unknown format to fail")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("info record should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatal("warn record missing")
	}
}

func TestLogFileOutput(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "scribe.log")
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf, LogFilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("persisted")
	if !strings.Contains(buf.String(), "persisted") {
		t.Fatal("writer output missing")
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	base, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithItemID(context.Background(), 7)
	ctx = services.WithVideoID(ctx, "vid-1")
	ctx = services.WithStage(ctx, "transcribe")

	logging.WithContext(ctx, base).Info("working")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatal(err)
	}
	if record[logging.FieldItemID] != float64(7) {
		t.Fatalf("item_id = %v", record[logging.FieldItemID])
	}
	if record[logging.FieldVideoID] != "vid-1" {
		t.Fatalf("video_id = %v", record[logging.FieldVideoID])
	}
	if record[logging.FieldStage] != "transcribe" {
		t.Fatalf("stage = %v", record[logging.FieldStage])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic")
	component := logging.NewComponentLogger(nil, "fetch")
	component.Info("also fine")
}
