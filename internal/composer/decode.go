package composer

import (
	"github.com/mailru/easyjson/jlexer"
)

// UnmarshalEasyJSON decodes composer.json, keeping only the fields under
// "name" and "extra" that the report needs.
func (m *Manifest) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "name":
			m.Name = in.String()
		case "extra":
			m.decodeExtra(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func (m *Manifest) decodeExtra(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "installer-paths":
			m.InstallerPaths = append(m.InstallerPaths, decodeInstallerPaths(in)...)
		case "patches":
			m.Patches = append(m.Patches, decodePatches(in)...)
		case "patches-file":
			m.PatchesFile = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func decodeInstallerPaths(in *jlexer.Lexer) []InstallerPath {
	var out []InstallerPath
	in.Delim('{')
	for !in.IsDelim('}') {
		rule := InstallerPath{Template: in.String()}
		in.WantColon()
		if in.IsNull() {
			in.Skip()
		} else {
			in.Delim('[')
			for !in.IsDelim(']') {
				rule.Qualifiers = append(rule.Qualifiers, in.String())
				in.WantComma()
			}
			in.Delim(']')
		}
		out = append(out, rule)
		in.WantComma()
	}
	in.Delim('}')
	return out
}

// decodePatches reads the package -> patches object. Per-package values may
// be an object keyed by source or a list of {description, url} entries.
func decodePatches(in *jlexer.Lexer) []Patch {
	var out []Patch
	in.Delim('{')
	for !in.IsDelim('}') {
		pkg := in.String()
		in.WantColon()
		switch {
		case in.IsNull():
			in.Skip()
		case in.IsDelim('['):
			in.Delim('[')
			for !in.IsDelim(']') {
				p := decodePatchObject(in)
				p.Package = pkg
				if p.Source == "" {
					p.Source = p.Location
				}
				out = append(out, p)
				in.WantComma()
			}
			in.Delim(']')
		default:
			in.Delim('{')
			for !in.IsDelim('}') {
				source := in.String()
				in.WantColon()
				var p Patch
				if in.IsDelim('{') {
					p = decodePatchObject(in)
				} else {
					p.Location = in.String()
				}
				p.Package = pkg
				p.Source = source
				out = append(out, p)
				in.WantComma()
			}
			in.Delim('}')
		}
		in.WantComma()
	}
	in.Delim('}')
	return out
}

func decodePatchObject(in *jlexer.Lexer) Patch {
	var p Patch
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "url":
			p.Location = in.String()
		case "description":
			p.Description = in.String()
			p.Source = p.Description
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	return p
}

// patchesDocument is the top level of an extra.patches-file document.
type patchesDocument struct {
	Patches []Patch
}

func (d *patchesDocument) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "patches":
			d.Patches = append(d.Patches, decodePatches(in)...)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

// UnmarshalEasyJSON decodes composer.lock.
func (l *Lock) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "packages":
			l.Packages = decodePackages(in)
		case "packages-dev":
			l.PackagesDev = decodePackages(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func decodePackages(in *jlexer.Lexer) []Package {
	var out []Package
	in.Delim('[')
	for !in.IsDelim(']') {
		var p Package
		p.UnmarshalEasyJSON(in)
		out = append(out, p)
		in.WantComma()
	}
	in.Delim(']')
	return out
}

func (p *Package) UnmarshalEasyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "name":
			p.Name = in.String()
		case "type":
			p.Type = in.String()
		case "version":
			p.Version = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}
