package tools

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"time"

	"patchstatus/internal/runner"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Lookup returns the absolute path of the named tool's executable. name may
// be a known tool or any executable name.
func Lookup(name string) (string, error) {
	exe := name
	if def, ok := Definition(name); ok {
		exe = def.Executable
	}
	path, err := lookPath(exe)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH", exe)
	}
	return path, nil
}

// Detect returns the status of each known tool.
func Detect(ctx context.Context, r runner.Runner) []Status {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if r == nil {
		r = runner.CmdRunner{}
	}

	var statuses []Status
	for _, name := range KnownTools() {
		def, _ := Definition(name)
		statuses = append(statuses, detectOne(ctx, r, def))
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Tool < statuses[j].Tool })
	return statuses
}

func detectOne(ctx context.Context, r runner.Runner, def ToolDefinition) Status {
	status := Status{Tool: def.Name, Minimum: def.MinimumVersion, Required: def.Required}

	path, err := Lookup(def.Name)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Path = path

	version, err := readVersion(ctx, r, def, path)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Version = version
	status.Satisfied = meetsMinimum(version, def.MinimumVersion)
	if !status.Satisfied {
		status.Error = fmt.Sprintf("version %s below minimum %s", version, def.MinimumVersion)
	}
	return status
}
