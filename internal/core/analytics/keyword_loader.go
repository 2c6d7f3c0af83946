package analytics

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeywordSet is a named keyword list loaded at startup from a YAML file and
// fingerprinted for staleness detection. Sets are immutable after load, no
// hot reload.
type KeywordSet struct {
	Name        string
	Keywords    []string
	Fingerprint string // SHA-256 of the raw YAML file
}

// rawKeywordSet is the on-disk YAML shape.
type rawKeywordSet struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// KeywordRepository defines the interface for loading keyword sets.
type KeywordRepository interface {
	// Get returns the set with the given name, or an error if not found.
	Get(ctx context.Context, name string) (*KeywordSet, error)

	// Sets returns all loaded sets, ordered by name.
	Sets() []KeywordSet

	// Keywords returns the union of all sets' keywords, ordered by set name
	// then file order. Duplicates are left for the tracker to collapse.
	Keywords() []string
}

// FileSystemKeywordRepository loads keyword sets from *.yaml files in a
// directory. Each file contains exactly one set at the top level. Sets are
// loaded once at startup and cached in memory.
type FileSystemKeywordRepository struct {
	dir  string
	sets map[string]KeywordSet // keyed by Name
}

// NewFileSystemKeywordRepository creates a new repository and eagerly loads
// all sets from dir. Returns an error if any set file is malformed.
func NewFileSystemKeywordRepository(dir string) (*FileSystemKeywordRepository, error) {
	repo := &FileSystemKeywordRepository{
		dir:  dir,
		sets: make(map[string]KeywordSet),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FileSystemKeywordRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil // no keyword directory — valid (zero sets configured)
	}
	if err != nil {
		return fmt.Errorf("keyword set dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("keyword set path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading keyword set dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading keyword set file %s: %w", path, err)
		}

		var raw rawKeywordSet
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing keyword set file %s: %w", path, err)
		}
		if raw.Name == "" {
			continue // skip empty / comment-only files
		}

		keywords := make([]string, 0, len(raw.Keywords))
		for _, kw := range raw.Keywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			keywords = append(keywords, strings.TrimSpace(kw))
		}
		if len(keywords) == 0 {
			return fmt.Errorf("keyword set %q: must list at least one keyword", raw.Name)
		}

		if _, exists := r.sets[raw.Name]; exists {
			return fmt.Errorf("keyword set %q: duplicate set name (check multiple YAML files)", raw.Name)
		}

		r.sets[raw.Name] = KeywordSet{
			Name:        raw.Name,
			Keywords:    keywords,
			Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data)),
		}
	}
	return nil
}

// Get returns the set with the given name, or an error if not found.
func (r *FileSystemKeywordRepository) Get(_ context.Context, name string) (*KeywordSet, error) {
	set, ok := r.sets[name]
	if !ok {
		return nil, fmt.Errorf("keyword set %q not found", name)
	}
	return &set, nil
}

// Sets returns all loaded sets, ordered by name.
func (r *FileSystemKeywordRepository) Sets() []KeywordSet {
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]KeywordSet, 0, len(names))
	for _, name := range names {
		out = append(out, r.sets[name])
	}
	return out
}

// Keywords returns the union of all sets' keywords, ordered by set name then
// file order.
func (r *FileSystemKeywordRepository) Keywords() []string {
	var out []string
	for _, set := range r.Sets() {
		out = append(out, set.Keywords...)
	}
	return out
}
