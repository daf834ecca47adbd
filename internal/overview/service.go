// Package overview joins the manifest, lock file, install-path rules,
// patch locator and status checker into one report pass.
package overview

import (
	"context"
	"fmt"
	"log"
	"time"

	"patchstatus/internal/composer"
	"patchstatus/internal/config"
	"patchstatus/internal/installpath"
	"patchstatus/internal/locate"
	"patchstatus/internal/patchcheck"
	"patchstatus/internal/paths"
	"patchstatus/internal/runner"
)

// Record is the outcome for one declared patch.
type Record struct {
	Module      string            `json:"module"`
	InstallPath string            `json:"install_path"`
	Source      string            `json:"source"`
	Location    string            `json:"location"`
	PatchFile   string            `json:"patch_file"`
	Remote      bool              `json:"remote"`
	Status      patchcheck.Status `json:"status"`
}

// PatchLocator resolves a declared location to a readable file.
type PatchLocator interface {
	Locate(ctx context.Context, location string) (*locate.Located, error)
}

// StatusChecker decides whether a patch file is applied in a directory.
type StatusChecker interface {
	Check(ctx context.Context, dir, patchFile string) (patchcheck.Status, error)
}

// Service produces Records for a project.
type Service struct {
	Paths   paths.ProjectPaths
	Locator PatchLocator
	Checker StatusChecker
	Logger  *log.Logger
	// Packages limits the run to these package names when non-empty.
	Packages []string
}

// NewService wires the default locator and checker from cfg.
func NewService(pp paths.ProjectPaths, cfg config.Config, r runner.Runner, logger *log.Logger) *Service {
	if r == nil {
		r = runner.CmdRunner{}
	}
	return &Service{
		Paths: pp,
		Locator: &locate.Locator{
			Base:     pp.PatchBase,
			Runner:   r,
			Tools:    cfg.Download.Tools,
			Timeout:  time.Duration(cfg.Download.TimeoutS) * time.Second,
			User:     cfg.Download.User,
			Password: cfg.Download.Password,
			Logger:   logger,
		},
		Checker: &patchcheck.Checker{
			Runner: r,
			Binary: cfg.Patch.Binary,
			Levels: cfg.Patch.Levels,
			Logger: logger,
		},
		Logger: logger,
	}
}

// Collect loads the manifest and lock file and checks every declared patch
// whose package is present in the lock. Rows follow lock-file package order,
// then manifest declaration order. The first input, retrieval, or tool error
// aborts the run.
func (s *Service) Collect(ctx context.Context) ([]Record, error) {
	manifest, err := composer.LoadManifest(s.Paths.ManifestFile)
	if err != nil {
		return nil, err
	}
	lock, err := composer.LoadLock(s.Paths.LockFile)
	if err != nil {
		return nil, err
	}

	resolver := installpath.NewResolver(s.Paths.Root, manifest.InstallerPaths, s.Logger)
	filter := toSet(s.Packages)

	var records []Record
	for _, pkg := range lock.All() {
		if len(filter) > 0 && !filter[pkg.Name] {
			continue
		}
		declared := manifest.PatchesFor(pkg.Name)
		if len(declared) == 0 {
			continue
		}

		dir, err := resolver.Resolve(pkg)
		if err != nil {
			return nil, err
		}
		s.logf("package %s (%s) -> %s, %d patch(es)", pkg.Name, pkg.Type, dir, len(declared))

		for _, patch := range declared {
			rec, err := s.check(ctx, dir, patch)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	s.logUnmatched(manifest, lock)
	return records, nil
}

func (s *Service) check(ctx context.Context, dir string, patch composer.Patch) (Record, error) {
	located, err := s.Locator.Locate(ctx, patch.Location)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", patch.Package, err)
	}
	defer func() {
		if cerr := located.Close(); cerr != nil {
			s.logf("remove temporary patch %s: %v", located.Path, cerr)
		}
	}()

	status, err := s.Checker.Check(ctx, dir, located.Path)
	if err != nil {
		return Record{}, fmt.Errorf("check %s for %s: %w", patch.Source, patch.Package, err)
	}
	s.logf("  %s: %s", patch.Source, status)

	return Record{
		Module:      patch.Package,
		InstallPath: dir,
		Source:      patch.Source,
		Location:    patch.Location,
		PatchFile:   located.Path,
		Remote:      located.Remote,
		Status:      status,
	}, nil
}

func (s *Service) logUnmatched(manifest *composer.Manifest, lock *composer.Lock) {
	if s.Logger == nil {
		return
	}
	locked := make(map[string]bool)
	for _, pkg := range lock.All() {
		locked[pkg.Name] = true
	}
	for _, name := range manifest.PatchedPackages() {
		if !locked[name] {
			s.logf("package %s declares patches but is not in the lock file; skipped", name)
		}
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Printf(format, args...)
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
