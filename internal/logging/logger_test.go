package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filmintel/internal/logging"
	"filmintel/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filmintel.log")

	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello", logging.String("component", "test"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"component":"test"`) {
		t.Fatalf("expected structured field in output, got %q", string(data))
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctx.log")

	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRequestID(context.Background(), "req-42")
	logging.WithContext(ctx, logger).Info("handled")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"correlation_id":"req-42"`) {
		t.Fatalf("expected correlation id in output, got %q", string(data))
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}
