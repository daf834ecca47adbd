package composer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mailru/easyjson"
)

// LoadManifest reads composer.json and, when extra.patches-file is set, the
// external patches document it points to. Declarations from the external
// document follow the inline ones.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if m.PatchesFile != "" {
		extPath := m.PatchesFile
		if !filepath.IsAbs(extPath) {
			extPath = filepath.Join(filepath.Dir(path), extPath)
		}
		ext, err := loadPatchesFile(extPath)
		if err != nil {
			return nil, err
		}
		m.Patches = append(m.Patches, ext...)
	}
	return m, nil
}

// ParseManifest parses composer.json content.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := easyjson.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func loadPatchesFile(path string) ([]Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patches file %s: %w", path, err)
	}
	var doc patchesDocument
	if err := easyjson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse patches file %s: %w", path, err)
	}
	return doc.Patches, nil
}

// LoadLock reads composer.lock.
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lock %s: %w", path, err)
	}
	l, err := ParseLock(data)
	if err != nil {
		return nil, fmt.Errorf("parse lock %s: %w", path, err)
	}
	return l, nil
}

// ParseLock parses composer.lock content.
func ParseLock(data []byte) (*Lock, error) {
	var l Lock
	if err := easyjson.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
