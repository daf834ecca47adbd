package tools

import (
	"runtime"
	"sort"
)

var toolDefinitions = map[string]ToolDefinition{
	"patch": {
		Name:           "patch",
		Executable:     executableName("patch"),
		VersionSwitch:  "--version",
		MinimumVersion: "2.5",
		Required:       true,
	},
	"wget": {
		Name:          "wget",
		Executable:    executableName("wget"),
		VersionSwitch: "--version",
	},
	"curl": {
		Name:          "curl",
		Executable:    executableName("curl"),
		VersionSwitch: "--version",
	},
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// KnownTools returns the list of known tool names.
func KnownTools() []string {
	names := make([]string, 0, len(toolDefinitions))
	for name := range toolDefinitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition returns the tool definition for the provided name.
func Definition(name string) (ToolDefinition, bool) {
	def, ok := toolDefinitions[name]
	return def, ok
}
