package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWriterOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New("", &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closer.Close()

	logger.Printf("probe %d", 1)
	if !strings.Contains(buf.String(), "patchstatus: ") || !strings.Contains(buf.String(), "probe 1") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func TestNewDiscard(t *testing.T) {
	logger, closer, err := New("", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closer.Close()
	logger.Printf("dropped")
}

func TestNewFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	logger, closer, err := New(dir, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Printf("hello file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".log") {
		t.Fatalf("expected one .log file, got %v", entries)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("log file content = %q", data)
	}
	if !strings.Contains(buf.String(), "hello file") {
		t.Fatalf("expected tee to writer, got %q", buf.String())
	}
}
