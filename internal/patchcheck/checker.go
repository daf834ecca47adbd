// Package patchcheck decides whether a patch is applied to a package
// directory by dry-running patch(1) in both directions.
package patchcheck

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"patchstatus/internal/runner"
	"patchstatus/internal/tools"
)

// Status is the report label for a single patch.
type Status string

const (
	StatusApplied    Status = "Applied"
	StatusNotApplied Status = "Not applied"
	StatusUnsure     Status = "Unsure"
)

// DefaultLevels are the strip levels probed, most likely first.
var DefaultLevels = []int{1, 0}

// ErrPatchToolMissing is returned when the patch binary cannot be found.
var ErrPatchToolMissing = errors.New("patch tool not found")

// Checker runs the dry-run probes. The zero value uses the system "patch"
// binary, real processes, and DefaultLevels.
type Checker struct {
	Runner runner.Runner
	Binary string
	Levels []int
	Logger *log.Logger

	resolved string
}

// Check returns the status of patchFile against dir. Reverse dry-runs are
// tried at every strip level before any forward dry-run, so a patch that
// reverses cleanly at any level is reported as applied. A non-zero exit from
// patch is a negative probe, not an error.
func (c *Checker) Check(ctx context.Context, dir, patchFile string) (Status, error) {
	bin, err := c.binary()
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		c.logf("patch check: install dir %s missing, skipping probes", dir)
		return StatusUnsure, nil
	}

	for _, step := range []struct {
		reverse bool
		status  Status
	}{
		{reverse: true, status: StatusApplied},
		{reverse: false, status: StatusNotApplied},
	} {
		for _, level := range c.levels() {
			ok, err := c.probe(ctx, bin, dir, patchFile, level, step.reverse)
			if err != nil {
				return "", err
			}
			if ok {
				return step.status, nil
			}
		}
	}
	return StatusUnsure, nil
}

func (c *Checker) probe(ctx context.Context, bin, dir, patchFile string, level int, reverse bool) (bool, error) {
	in, err := os.Open(patchFile)
	if err != nil {
		c.logf("patch check: open %s: %v", patchFile, err)
		return false, nil
	}
	defer in.Close()

	args := ProbeArgs(level, reverse)
	_, runErr := c.runner().Run(ctx, bin, args, runner.Options{Dir: dir, Stdin: in})
	code, exited := runner.ExitCode(runErr)
	if !exited {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		c.logf("patch check: %s %v in %s: %v", bin, args, dir, runErr)
		return false, nil
	}
	c.logf("patch check: %s %v in %s -> exit %d", bin, args, dir, code)
	return code == 0, nil
}

// ProbeArgs builds the patch(1) argument list for one probe. --force keeps
// patch from prompting about hunks that look reversed.
func ProbeArgs(level int, reverse bool) []string {
	args := []string{"-p" + strconv.Itoa(level)}
	if reverse {
		args = append(args, "-R")
	}
	return append(args, "--dry-run", "--force")
}

// binary resolves the patch executable once per Checker.
func (c *Checker) binary() (string, error) {
	if c.resolved != "" {
		return c.resolved, nil
	}
	name := c.Binary
	if name == "" {
		name = "patch"
	}
	path, err := tools.Lookup(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPatchToolMissing, err)
	}
	c.resolved = path
	return path, nil
}

func (c *Checker) levels() []int {
	if len(c.Levels) == 0 {
		return DefaultLevels
	}
	return c.Levels
}

func (c *Checker) runner() runner.Runner {
	if c.Runner == nil {
		return runner.CmdRunner{}
	}
	return c.Runner
}

func (c *Checker) logf(format string, args ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Printf(format, args...)
}
