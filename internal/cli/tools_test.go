package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"patchstatus/internal/tools"
)

func TestPrintStatusTable(t *testing.T) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	printStatusTable(cmd, []tools.Status{
		{Tool: "curl", Version: "8.5.0", Path: "/usr/bin/curl", Satisfied: true},
		{Tool: "patch", Required: true, Error: "patch not found in PATH"},
	})

	text := out.String()
	if !strings.Contains(text, "Tool") || !strings.Contains(text, "/usr/bin/curl") {
		t.Fatalf("missing header or path:\n%s", text)
	}
	if !strings.Contains(text, "(missing)") || !strings.Contains(text, "error: patch not found in PATH") {
		t.Fatalf("missing tool not reported:\n%s", text)
	}
}

func TestPrintStatusTableEmpty(t *testing.T) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	printStatusTable(cmd, nil)
	if !strings.Contains(out.String(), "no tool statuses") {
		t.Fatalf("got %q", out.String())
	}
}
