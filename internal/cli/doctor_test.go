package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"patchstatus/internal/config"
	"patchstatus/internal/paths"
	"patchstatus/internal/runner"
)

func TestJoinComma(t *testing.T) {
	tests := []struct {
		input []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a, b"},
		{[]string{"a", "b", "c"}, "a, b, c"},
	}

	for _, tt := range tests {
		got := joinComma(tt.input)
		if got != tt.want {
			t.Errorf("joinComma(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCheckConfigValid(t *testing.T) {
	result := checkConfig(config.Default())
	if result.Status != "ok" {
		t.Errorf("got status=%q, want ok (%s)", result.Status, result.Summary)
	}
	if result.Name != "Config" {
		t.Errorf("got name=%q, want Config", result.Name)
	}
}

func TestCheckConfigInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Patch.Levels = []int{}
	result := checkConfig(cfg)
	if result.Status != "error" {
		t.Errorf("got status=%q, want error", result.Status)
	}
}

func TestCheckManifestAndLockMissing(t *testing.T) {
	pp, _ := paths.Resolve(filepath.Join(t.TempDir(), "web"))

	m, mc := checkManifest(pp)
	if m != nil || mc.Status != "error" {
		t.Errorf("manifest check = %+v", mc)
	}
	l, lc := checkLock(pp)
	if l != nil || lc.Status != "error" {
		t.Errorf("lock check = %+v", lc)
	}
}

func TestCheckCoverage(t *testing.T) {
	root := setupShowProject(t)
	pp, err := paths.Resolve(root)
	if err != nil {
		t.Fatal(err)
	}

	m, mc := checkManifest(pp)
	if mc.Status != "ok" || !strings.Contains(mc.Summary, "2 patches for 2 packages") {
		t.Fatalf("manifest check = %+v", mc)
	}
	l, lc := checkLock(pp)
	if lc.Status != "ok" {
		t.Fatalf("lock check = %+v", lc)
	}

	cov := checkCoverage(pp, m, l)
	if cov.Status != "warning" || !strings.Contains(cov.Summary, "not in lock: vendor/ghost") {
		t.Fatalf("coverage = %+v", cov)
	}
	if strings.Contains(cov.Summary, "not installed") {
		t.Fatalf("vendor/foo is installed, got %+v", cov)
	}
}

// toolsRunner fails every version probe so tool detection depends only on
// PATH lookups.
type toolsRunner struct{}

func (toolsRunner) Run(context.Context, string, []string, runner.Options) (runner.Result, error) {
	return runner.Result{}, errors.New("not run in tests")
}

func TestCheckToolsReportsError(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	result := checkTools(context.Background(), toolsRunner{})
	if result.Status != "error" || !strings.Contains(result.Summary, "patch") {
		t.Fatalf("tools check = %+v", result)
	}
}

func TestWriteDoctorResult(t *testing.T) {
	prev := doctorJSON
	defer func() { doctorJSON = prev }()

	checks := []healthCheck{
		{Name: "Tools", Status: "ok", Summary: "patch 2.7.6"},
		{Name: "Lock", Status: "error", Summary: "read lock: missing"},
	}

	doctorJSON = false
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	if err := writeDoctorResult(cmd, "/srv/site/web", checks); err != nil {
		t.Fatalf("write: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "PATCH HEALTH:") || !strings.Contains(text, "Tools:") || !strings.Contains(text, "ERROR") {
		t.Fatalf("unexpected doctor output:\n%s", text)
	}

	doctorJSON = true
	out.Reset()
	if err := writeDoctorResult(cmd, "/srv/site/web", checks); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var decoded []healthCheck
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Status != "error" {
		t.Fatalf("decoded = %+v", decoded)
	}
}
