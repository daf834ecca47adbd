package patchcheck

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"patchstatus/internal/runner"
)

// scriptedRunner succeeds for the argument lists in ok and exits 1 for
// everything else.
type scriptedRunner struct {
	ok    map[string]bool
	calls []string
	dirs  []string
	stdin []string
}

func (s *scriptedRunner) Run(_ context.Context, _ string, args []string, opts runner.Options) (runner.Result, error) {
	key := strings.Join(args, " ")
	s.calls = append(s.calls, key)
	s.dirs = append(s.dirs, opts.Dir)
	if opts.Stdin != nil {
		data, _ := io.ReadAll(opts.Stdin)
		s.stdin = append(s.stdin, string(data))
	}
	if s.ok[key] {
		return runner.Result{}, nil
	}
	return runner.Result{}, runner.ExitError{Code: 1}
}

const (
	reverseP1 = "-p1 -R --dry-run --force"
	reverseP0 = "-p0 -R --dry-run --force"
	forwardP1 = "-p1 --dry-run --force"
	forwardP0 = "-p0 --dry-run --force"
)

func fakeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patch")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write fake patch: %v", err)
	}
	return path
}

func fixture(t *testing.T) (dir, patchFile string) {
	t.Helper()
	dir = t.TempDir()
	patchFile = filepath.Join(t.TempDir(), "foo.patch")
	if err := os.WriteFile(patchFile, []byte("--- a/foo.txt\n+++ b/foo.txt\n"), 0o644); err != nil {
		t.Fatalf("write patch: %v", err)
	}
	return dir, patchFile
}

func TestCheckDecisionTable(t *testing.T) {
	tests := []struct {
		name      string
		ok        []string
		want      Status
		wantCalls []string
	}{
		{
			name:      "reverse at p1",
			ok:        []string{reverseP1},
			want:      StatusApplied,
			wantCalls: []string{reverseP1},
		},
		{
			name:      "reverse at p0",
			ok:        []string{reverseP0},
			want:      StatusApplied,
			wantCalls: []string{reverseP1, reverseP0},
		},
		{
			name:      "forward at p1 only",
			ok:        []string{forwardP1},
			want:      StatusNotApplied,
			wantCalls: []string{reverseP1, reverseP0, forwardP1},
		},
		{
			name:      "forward at p0 only",
			ok:        []string{forwardP0},
			want:      StatusNotApplied,
			wantCalls: []string{reverseP1, reverseP0, forwardP1, forwardP0},
		},
		{
			name:      "forward p1 and reverse p0 prefers applied",
			ok:        []string{forwardP1, reverseP0},
			want:      StatusApplied,
			wantCalls: []string{reverseP1, reverseP0},
		},
		{
			name:      "nothing succeeds",
			want:      StatusUnsure,
			wantCalls: []string{reverseP1, reverseP0, forwardP1, forwardP0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, patchFile := fixture(t)
			ok := map[string]bool{}
			for _, k := range tt.ok {
				ok[k] = true
			}
			r := &scriptedRunner{ok: ok}
			c := &Checker{Runner: r, Binary: fakeBinary(t)}

			got, err := c.Check(context.Background(), dir, patchFile)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if got != tt.want {
				t.Fatalf("status = %q, want %q", got, tt.want)
			}
			if strings.Join(r.calls, "|") != strings.Join(tt.wantCalls, "|") {
				t.Fatalf("calls = %v, want %v", r.calls, tt.wantCalls)
			}
			for i, d := range r.dirs {
				if d != dir {
					t.Fatalf("call %d ran in %s, want %s", i, d, dir)
				}
			}
			for i, in := range r.stdin {
				if !strings.HasPrefix(in, "--- a/foo.txt") {
					t.Fatalf("call %d stdin = %q", i, in)
				}
			}
		})
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	dir, patchFile := fixture(t)
	r := &scriptedRunner{ok: map[string]bool{forwardP0: true}}
	c := &Checker{Runner: r, Binary: fakeBinary(t)}

	first, err := c.Check(context.Background(), dir, patchFile)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	second, err := c.Check(context.Background(), dir, patchFile)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if first != second || first != StatusNotApplied {
		t.Fatalf("statuses = %q, %q", first, second)
	}
	if len(r.calls) != 8 {
		t.Fatalf("expected 8 probes across two checks, got %d", len(r.calls))
	}
}

func TestCheckMissingBinary(t *testing.T) {
	dir, patchFile := fixture(t)
	c := &Checker{Runner: &scriptedRunner{}, Binary: filepath.Join(t.TempDir(), "no-such-patch")}

	_, err := c.Check(context.Background(), dir, patchFile)
	if !errors.Is(err, ErrPatchToolMissing) {
		t.Fatalf("expected ErrPatchToolMissing, got %v", err)
	}
}

func TestCheckMissingInstallDir(t *testing.T) {
	_, patchFile := fixture(t)
	r := &scriptedRunner{}
	c := &Checker{Runner: r, Binary: fakeBinary(t)}

	got, err := c.Check(context.Background(), filepath.Join(t.TempDir(), "gone"), patchFile)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got != StatusUnsure {
		t.Fatalf("status = %q, want Unsure", got)
	}
	if len(r.calls) != 0 {
		t.Fatalf("expected no probes, got %v", r.calls)
	}
}

func TestCheckMissingPatchFileIsUnsure(t *testing.T) {
	dir, _ := fixture(t)
	r := &scriptedRunner{}
	c := &Checker{Runner: r, Binary: fakeBinary(t)}

	got, err := c.Check(context.Background(), dir, filepath.Join(dir, "missing.patch"))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got != StatusUnsure {
		t.Fatalf("status = %q, want Unsure", got)
	}
}

func TestCheckCustomLevels(t *testing.T) {
	dir, patchFile := fixture(t)
	r := &scriptedRunner{ok: map[string]bool{"-p2 --dry-run --force": true}}
	c := &Checker{Runner: r, Binary: fakeBinary(t), Levels: []int{2}}

	got, err := c.Check(context.Background(), dir, patchFile)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got != StatusNotApplied {
		t.Fatalf("status = %q", got)
	}
}

func TestProbeArgs(t *testing.T) {
	if got := strings.Join(ProbeArgs(1, true), " "); got != reverseP1 {
		t.Fatalf("reverse args = %q", got)
	}
	if got := strings.Join(ProbeArgs(0, false), " "); got != forwardP0 {
		t.Fatalf("forward args = %q", got)
	}
}
