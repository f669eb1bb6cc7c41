package dungeon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for catalog files.
type yamlCatalogFile struct {
	Catalog yamlCatalog `yaml:"catalog"`
}

type yamlCatalog struct {
	Start  string     `yaml:"start"`
	Target string     `yaml:"target"`
	Rooms  []yamlRoom `yaml:"rooms"`
}

type yamlRoom struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Doors  []string `yaml:"doors"`
	Weight int      `yaml:"weight"`
}

// LoadCatalogFromFile reads and validates a catalog YAML file.
//
// Precondition: path must point to a valid YAML catalog file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	return LoadCatalogFromBytes(data)
}

// LoadCatalogFromBytes parses and validates a catalog from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the catalog schema.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}

	templates := make([]*RoomTemplate, 0, len(file.Catalog.Rooms))
	for _, yr := range file.Catalog.Rooms {
		t, err := convertYAMLRoom(yr)
		if err != nil {
			return nil, fmt.Errorf("validating catalog: %w", err)
		}
		templates = append(templates, t)
	}

	catalog, err := NewCatalog(templates, file.Catalog.Start, file.Catalog.Target)
	if err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	return catalog, nil
}

// LoadCatalog loads path as a single catalog file, or, when path is a
// directory, the first *.yaml/*.yml file in it by name.
//
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalog(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat catalog %s: %w", path, err)
	}
	if !info.IsDir() {
		return LoadCatalogFromFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", path, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		return LoadCatalogFromFile(filepath.Join(path, name))
	}
	return nil, fmt.Errorf("no catalog files found in %s", path)
}

func convertYAMLRoom(yr yamlRoom) (*RoomTemplate, error) {
	t := &RoomTemplate{
		ID:     yr.ID,
		Title:  strings.TrimSpace(yr.Title),
		Weight: yr.Weight,
	}
	for _, raw := range yr.Doors {
		d, err := ParseDirection(strings.ToLower(strings.TrimSpace(raw)))
		if err != nil {
			return nil, fmt.Errorf("room %q: %w", yr.ID, err)
		}
		t.Doors = append(t.Doors, d)
	}
	return t, nil
}
