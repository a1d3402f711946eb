// Package catalog holds the physical parameters of celestial bodies, read
// from CSV or YAML tables.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Lookup for unknown bodies.
var ErrNotFound = errors.New("body not in catalog")

// Entry is one catalog row. Periods are in hours (rotation) and days
// (orbital); a zero period means the angle never advances.
type Entry struct {
	Name           string  `yaml:"name"`
	Radius         float32 `yaml:"radius"`
	Distance       float32 `yaml:"distance"`
	RotationPeriod float32 `yaml:"rotation_period"`
	OrbitalPeriod  float32 `yaml:"orbital_period"`
	AxialTilt      float32 `yaml:"axial_tilt"`
}

// Catalog is an immutable, case-insensitive table of entries.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

//go:embed default.csv
var defaultCSV string

// New builds a catalog. Names must be unique ignoring case.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		key := normalize(e.Name)
		if key == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", len(c.entries))
		}
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", e.Name)
		}
		if e.Radius <= 0 {
			return nil, fmt.Errorf("catalog entry %q: radius must be positive, got %v", e.Name, e.Radius)
		}
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Default returns the built-in solar system catalog.
func Default() *Catalog {
	c, err := ParseCSV(strings.NewReader(defaultCSV))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file, choosing the format by extension.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return parse(f, path)
}

// LoadFS is Load for a file in fsys.
func LoadFS(fsys fs.FS, name string) (*Catalog, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return parse(f, name)
}

func parse(r io.Reader, name string) (*Catalog, error) {
	var (
		c   *Catalog
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		c, err = ParseCSV(r)
	case ".yaml", ".yml":
		c, err = ParseYAML(r)
	default:
		return nil, fmt.Errorf("catalog %s: unsupported format %q", name, filepath.Ext(name))
	}
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", name, err)
	}
	return c, nil
}

// Lookup returns the entry for name, ignoring case.
func (c *Catalog) Lookup(name string) (Entry, error) {
	i, ok := c.index[normalize(name)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.entries[i], nil
}

// Contains reports whether name is in the catalog.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[normalize(name)]
	return ok
}

// Names returns entry names in file order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
