package layout

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed layouts/*.yaml
var builtin embed.FS

// ErrUnknownLayout means the requested layout name is not in the catalog.
// Nothing about the screenshot can be recovered from it, so the request
// fails fast.
var ErrUnknownLayout = errors.New("unknown table layout")

// Catalog holds every loaded layout. It is built once and read-only after
// that, safe for concurrent lookups.
type Catalog struct {
	layouts map[string]*Layout
}

// NewCatalog loads the built-in layouts plus every *.yaml file found in the
// extra directories. A layout that fails validation aborts the whole load:
// a miscalibrated catalog would silently misread every screenshot.
func NewCatalog(extraDirs ...string) (*Catalog, error) {
	c := &Catalog{layouts: make(map[string]*Layout)}

	entries, err := builtin.ReadDir("layouts")
	if err != nil {
		return nil, fmt.Errorf("builtin layouts: %w", err)
	}
	for _, entry := range entries {
		data, err := builtin.ReadFile("layouts/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("builtin layout %s: %w", entry.Name(), err)
		}
		if err := c.add(data, entry.Name()); err != nil {
			return nil, err
		}
	}

	for _, dir := range extraDirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("layout dir %s: %w", dir, err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
				continue
			}
			path := filepath.Join(dir, f.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("layout %s: %w", path, err)
			}
			if err := c.add(data, path); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (c *Catalog) add(data []byte, origin string) error {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("layout %s: %w", origin, err)
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("layout %s: %w", origin, err)
	}
	if _, dup := c.layouts[l.Name]; dup {
		return fmt.Errorf("layout %s: duplicate layout name %q", origin, l.Name)
	}
	c.layouts[l.Name] = &l
	return nil
}

// Lookup returns the named layout.
func (c *Catalog) Lookup(name string) (*Layout, error) {
	l, ok := c.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return l, nil
}

// Names lists the loaded layouts, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.layouts))
	for name := range c.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteLayout saves a layout as YAML, for calibration tooling.
func WriteLayout(l *Layout, path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayout loads and validates a single layout file.
func ReadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}
