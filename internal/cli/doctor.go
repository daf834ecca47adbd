package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"patchstatus/internal/composer"
	"patchstatus/internal/config"
	"patchstatus/internal/installpath"
	"patchstatus/internal/paths"
	"patchstatus/internal/runner"
	"patchstatus/internal/tools"
)

var doctorJSON bool

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check tools and composer files before a report",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
	cmd.Flags().BoolVar(&doctorJSON, "json", false, "Output machine-readable JSON")
	return cmd
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	pp, cfg, err := loadProject()
	if err != nil {
		return err
	}

	var checks []healthCheck
	checks = append(checks, checkTools(cmd.Context(), runner.CmdRunner{}))
	checks = append(checks, checkConfig(cfg))

	manifest, manifestCheck := checkManifest(pp)
	checks = append(checks, manifestCheck)
	lock, lockCheck := checkLock(pp)
	checks = append(checks, lockCheck)

	if manifest != nil && lock != nil {
		checks = append(checks, checkCoverage(pp, manifest, lock))
	}

	if err := writeDoctorResult(cmd, pp.Root, checks); err != nil {
		return err
	}
	for _, c := range checks {
		if c.Status == "error" {
			return fmt.Errorf("doctor: %s check failed", c.Name)
		}
	}
	return nil
}

func checkTools(ctx context.Context, r runner.Runner) healthCheck {
	statuses := tools.Detect(ctx, r)

	var found []string
	var missingRequired []string
	downloaders := 0
	for _, st := range statuses {
		if st.Satisfied {
			label := st.Tool
			if st.Version != "" {
				label += " " + st.Version
			}
			found = append(found, label)
			if !st.Required {
				downloaders++
			}
			continue
		}
		if st.Required {
			missingRequired = append(missingRequired, st.Tool)
		}
	}

	if len(missingRequired) > 0 {
		return healthCheck{Name: "Tools", Status: "error", Summary: "missing " + joinComma(missingRequired)}
	}
	if downloaders == 0 {
		return healthCheck{Name: "Tools", Status: "warning", Summary: joinComma(found) + "; no wget or curl, remote patches use the built-in fetch"}
	}
	return healthCheck{Name: "Tools", Status: "ok", Summary: joinComma(found)}
}

func checkConfig(cfg config.Config) healthCheck {
	var warnings, errors int
	var first string
	for _, v := range cfg.Validate() {
		switch v.Level {
		case "warning":
			warnings++
		case "error":
			errors++
		}
		if first == "" {
			first = v.Message
		}
	}

	if errors > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%d errors: %s", errors, first)}
	}
	if warnings > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%d warnings: %s", warnings, first)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: fmt.Sprintf("strip levels %v", cfg.Patch.Levels)}
}

func checkManifest(pp paths.ProjectPaths) (*composer.Manifest, healthCheck) {
	m, err := composer.LoadManifest(pp.ManifestFile)
	if err != nil {
		return nil, healthCheck{Name: "Manifest", Status: "error", Summary: err.Error()}
	}
	summary := fmt.Sprintf("%d patches for %d packages, %d installer paths",
		len(m.Patches), len(m.PatchedPackages()), len(m.InstallerPaths))
	if len(m.Patches) == 0 {
		return m, healthCheck{Name: "Manifest", Status: "warning", Summary: summary}
	}
	return m, healthCheck{Name: "Manifest", Status: "ok", Summary: summary}
}

func checkLock(pp paths.ProjectPaths) (*composer.Lock, healthCheck) {
	l, err := composer.LoadLock(pp.LockFile)
	if err != nil {
		return nil, healthCheck{Name: "Lock", Status: "error", Summary: err.Error()}
	}
	return l, healthCheck{
		Name:    "Lock",
		Status:  "ok",
		Summary: fmt.Sprintf("%d packages, %d dev packages", len(l.Packages), len(l.PackagesDev)),
	}
}

// checkCoverage flags patched packages that are absent from the lock or
// whose install directory does not exist.
func checkCoverage(pp paths.ProjectPaths, m *composer.Manifest, l *composer.Lock) healthCheck {
	resolver := installpath.NewResolver(pp.Root, m.InstallerPaths, nil)
	locked := make(map[string]composer.Package)
	for _, pkg := range l.All() {
		locked[pkg.Name] = pkg
	}

	var unlocked, missing []string
	for _, name := range m.PatchedPackages() {
		pkg, ok := locked[name]
		if !ok {
			unlocked = append(unlocked, name)
			continue
		}
		dir, err := resolver.Resolve(pkg)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		if exists, _ := paths.DirExists(dir); !exists {
			missing = append(missing, name)
		}
	}

	if len(unlocked) == 0 && len(missing) == 0 {
		return healthCheck{Name: "Packages", Status: "ok", Summary: "all patched packages are installed"}
	}
	var parts []string
	if len(unlocked) > 0 {
		parts = append(parts, fmt.Sprintf("not in lock: %s", joinComma(unlocked)))
	}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("not installed: %s", joinComma(missing)))
	}
	return healthCheck{Name: "Packages", Status: "warning", Summary: joinSemi(parts)}
}

func writeDoctorResult(cmd *cobra.Command, projectRoot string, checks []healthCheck) error {
	if doctorJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("PATCH HEALTH:")+" "+projectRoot)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-12s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}

func joinComma(items []string) string {
	return joinWith(items, ", ")
}

func joinSemi(items []string) string {
	return joinWith(items, "; ")
}

func joinWith(items []string, sep string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for _, item := range items[1:] {
		result += sep + item
	}
	return result
}
