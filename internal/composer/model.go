package composer

// Manifest is the subset of composer.json patchstatus needs.
type Manifest struct {
	Name           string
	InstallerPaths []InstallerPath
	Patches        []Patch
	// PatchesFile is the raw extra.patches-file value, if any.
	PatchesFile string
}

// InstallerPath maps one path template to the qualifiers it applies to.
// Qualifiers look like "type:drupal-module"; see Type.
type InstallerPath struct {
	Template   string
	Qualifiers []string
}

// Patch is a single declared patch for a package.
type Patch struct {
	Package string
	// Source is the key the patch is declared under and is what the report
	// shows.
	Source string
	// Location is the local path or URL the patch content is read from.
	Location    string
	Description string
}

// Lock is the subset of composer.lock patchstatus needs.
type Lock struct {
	Packages    []Package
	PackagesDev []Package
}

// Package is a resolved package from the lock file.
type Package struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// All returns runtime packages followed by dev packages, in lock-file order.
func (l *Lock) All() []Package {
	out := make([]Package, 0, len(l.Packages)+len(l.PackagesDev))
	out = append(out, l.Packages...)
	out = append(out, l.PackagesDev...)
	return out
}

// PatchesFor returns the declarations for pkg in manifest order.
func (m *Manifest) PatchesFor(pkg string) []Patch {
	var out []Patch
	for _, p := range m.Patches {
		if p.Package == pkg {
			out = append(out, p)
		}
	}
	return out
}

// PatchedPackages returns the distinct package names that declare patches,
// in first-seen order.
func (m *Manifest) PatchedPackages() []string {
	seen := make(map[string]bool, len(m.Patches))
	var out []string
	for _, p := range m.Patches {
		if seen[p.Package] {
			continue
		}
		seen[p.Package] = true
		out = append(out, p.Package)
	}
	return out
}
