package installpath

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"patchstatus/internal/composer"
)

// Resolver maps lock-file packages to their install directory.
type Resolver struct {
	root      string
	templates map[string]string
	logger    *log.Logger
}

// NewResolver flattens the installer-path rules into a type -> template map.
// Rules are applied in declaration order, so a type listed under more than
// one template resolves to the last one.
func NewResolver(root string, rules []composer.InstallerPath, logger *log.Logger) *Resolver {
	r := &Resolver{
		root:      root,
		templates: make(map[string]string),
		logger:    logger,
	}
	for _, rule := range rules {
		for _, q := range rule.Qualifiers {
			typ := Type(q)
			if prev, ok := r.templates[typ]; ok && prev != rule.Template {
				r.logf("installer-paths: type %q remapped from %q to %q (last rule wins)", typ, prev, rule.Template)
			}
			r.templates[typ] = rule.Template
		}
	}
	return r
}

// Template returns the template registered for typ.
func (r *Resolver) Template(typ string) (string, bool) {
	t, ok := r.templates[typ]
	return t, ok
}

// Resolve returns the absolute install directory of pkg. Templated paths and
// the vendor fallback are both relative to the parent of the project root.
func (r *Resolver) Resolve(pkg composer.Package) (string, error) {
	name := ShortName(pkg.Name)
	base := filepath.Join(r.root, "..")

	var dir string
	if tmpl, ok := r.templates[pkg.Type]; ok {
		dir = filepath.Join(base, filepath.FromSlash(Expand(tmpl, pkg)))
	} else {
		dir = filepath.Join(base, "vendor", name)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve install path for %s: %w", pkg.Name, err)
	}
	return abs, nil
}

// Expand substitutes the package placeholders in tmpl.
func Expand(tmpl string, pkg composer.Package) string {
	vendor := ""
	if i := strings.LastIndex(pkg.Name, "/"); i >= 0 {
		vendor = pkg.Name[:i]
	}
	return strings.NewReplacer(
		"{$name}", ShortName(pkg.Name),
		"{$vendor}", vendor,
		"{$type}", pkg.Type,
	).Replace(tmpl)
}

// ShortName returns the part of a scoped package name after the last "/".
func ShortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Type returns the final colon-delimited segment of an installer-path
// qualifier, so "type:drupal-module" yields "drupal-module".
func Type(qualifier string) string {
	if i := strings.LastIndex(qualifier, ":"); i >= 0 {
		return qualifier[i+1:]
	}
	return qualifier
}

func (r *Resolver) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
