package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data
var builtin embed.FS

const manifestFile = "catalog.yaml"

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadEmbedded loads the catalog compiled into the binary.
func (l *FSLoader) LoadEmbedded() (*Catalog, error) {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		return nil, err
	}
	return l.Load(sub)
}

// LoadDir loads a catalog from a directory holding catalog.yaml.
func (l *FSLoader) LoadDir(root string) (*Catalog, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	return l.Load(os.DirFS(root))
}

func (l *FSLoader) Load(fsys fs.FS) (*Catalog, error) {
	manifest, err := readManifest(fsys)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	challenges := make([]Challenge, 0, len(manifest.Challenges))
	for _, ref := range manifest.Challenges {
		if ref.Enabled != nil && !*ref.Enabled {
			continue
		}
		ch, err := loadChallengeFile(fsys, ref.Path)
		if err != nil {
			return nil, err
		}
		if ch.ID != ref.ID {
			return nil, fmt.Errorf("challenge id mismatch for %s: manifest=%d file=%d", ref.Path, ref.ID, ch.ID)
		}
		challenges = append(challenges, ch)
	}
	sort.Slice(challenges, func(i, j int) bool { return challenges[i].ID < challenges[j].ID })

	if len(challenges) == 0 {
		return nil, fmt.Errorf("catalog %s has no challenges", manifest.CatalogID)
	}
	for i, ch := range challenges {
		if ch.ID != i+1 {
			return nil, fmt.Errorf("challenge ids must be dense 1..%d: expected %d, got %d", len(challenges), i+1, ch.ID)
		}
	}
	if err := validateMilestones(manifest.Milestones, len(challenges)); err != nil {
		return nil, fmt.Errorf("validate milestones: %w", err)
	}
	return newCatalog(manifest, challenges), nil
}

func readManifest(fsys fs.FS) (Manifest, error) {
	var m Manifest
	b, err := fs.ReadFile(fsys, manifestFile)
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("parse %s: %w", manifestFile, err)
	}
	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("validate %s: %w", manifestFile, err)
	}
	return m, nil
}

func loadChallengeFile(fsys fs.FS, p string) (Challenge, error) {
	var ch Challenge
	b, err := fs.ReadFile(fsys, path.Clean(p))
	if err != nil {
		return ch, err
	}
	if err := yaml.Unmarshal(b, &ch); err != nil {
		return ch, fmt.Errorf("parse %s: %w", p, err)
	}
	if err := ch.Validate(); err != nil {
		return ch, fmt.Errorf("validate %s: %w", p, err)
	}
	ch.Path = p
	return ch, nil
}
