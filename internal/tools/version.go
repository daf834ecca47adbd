package tools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"patchstatus/internal/runner"
)

func readVersion(ctx context.Context, r runner.Runner, def ToolDefinition, path string) (string, error) {
	res, err := r.Run(ctx, path, []string{def.VersionSwitch}, runner.Options{})
	if err != nil {
		return "", fmt.Errorf("%s version: %w", def.Name, err)
	}
	return normalizeVersion(firstLine(strings.TrimSpace(string(res.Stdout)))), nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

var versionRegex = regexp.MustCompile(`([0-9]+)(?:\.([0-9]+))?(?:\.([0-9]+))?`)

// normalizeVersion pulls the first dotted number out of a banner such as
// "GNU patch 2.7.6" or "curl 8.5.0 (x86_64-pc-linux-gnu) ...".
func normalizeVersion(line string) string {
	match := versionRegex.FindString(line)
	if match == "" {
		return line
	}
	return match
}

func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}

	vParts := numericParts(version)
	mParts := numericParts(minimum)
	for len(vParts) < len(mParts) {
		vParts = append(vParts, 0)
	}
	for len(mParts) < len(vParts) {
		mParts = append(mParts, 0)
	}
	for i := 0; i < len(vParts) && i < len(mParts); i++ {
		if vParts[i] > mParts[i] {
			return true
		}
		if vParts[i] < mParts[i] {
			return false
		}
	}
	return true
}

func numericParts(version string) []int {
	var parts []int
	current := strings.Builder{}
	for _, r := range version {
		if r >= '0' && r <= '9' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			val, _ := strconv.Atoi(current.String())
			parts = append(parts, val)
			current.Reset()
		}
	}
	if current.Len() > 0 {
		val, _ := strconv.Atoi(current.String())
		parts = append(parts, val)
	}
	return parts
}
