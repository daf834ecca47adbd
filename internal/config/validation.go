package config

import (
	"fmt"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

var knownDownloadTools = map[string]bool{"wget": true, "curl": true}

// Validate returns every finding for c; an empty result means the
// configuration is usable.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult

	if len(c.Patch.Levels) == 0 {
		results = append(results, ValidationResult{Level: "error", Message: "patch.levels must list at least one strip level"})
	}
	for _, lvl := range c.Patch.Levels {
		if lvl < 0 {
			results = append(results, ValidationResult{Level: "error", Message: fmt.Sprintf("patch.levels: negative strip level %d", lvl)})
		}
	}
	for _, tool := range c.Download.Tools {
		if !knownDownloadTools[tool] {
			results = append(results, ValidationResult{Level: "error", Message: fmt.Sprintf("download.tools: unsupported tool %q", tool)})
		}
	}
	if c.Download.TimeoutS <= 0 {
		results = append(results, ValidationResult{Level: "error", Message: "download.timeout_s must be positive"})
	}
	if (c.Download.User == "") != (c.Download.Password == "") {
		results = append(results, ValidationResult{Level: "warning", Message: "download credentials are ignored unless both user and password are set"})
	}
	return results
}

// Err folds error-level findings into a single error.
func (c Config) Err() error {
	var msgs []string
	for _, r := range c.Validate() {
		if r.Level == "error" {
			msgs = append(msgs, r.Message)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	if len(msgs) == 1 {
		return fmt.Errorf("invalid config: %s", msgs[0])
	}
	return fmt.Errorf("invalid config: %d errors, first: %s", len(msgs), msgs[0])
}
