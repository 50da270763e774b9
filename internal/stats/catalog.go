package stats

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Statistic is one row of the statistics table.
type Statistic struct {
	Name string   `yaml:"name"`
	OIDs []string `yaml:"oids"`
	// Base and Count describe the counters Base.0 .. Base.(Count-1).
	Base  string `yaml:"base"`
	Count int    `yaml:"count"`
}

// Counters returns every counter summed into this statistic.
func (s Statistic) Counters() []string {
	out := append([]string(nil), s.OIDs...)
	for i := 0; i < s.Count; i++ {
		out = append(out, fmt.Sprintf("%s.%d", s.Base, i))
	}
	return out
}

// Catalog maps a node role to its statistics.
type Catalog map[string][]Statistic

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in statistics catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog file. An empty path gives the built-in one.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statistics catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse statistics catalog: %w", err)
	}
	for role, stats := range c {
		for i, st := range stats {
			if st.Name == "" {
				return nil, fmt.Errorf("%s statistic %d has no name", role, i+1)
			}
			if st.Count > 0 && st.Base == "" {
				return nil, fmt.Errorf("%s statistic %q has a count but no base", role, st.Name)
			}
			if len(st.Counters()) == 0 {
				return nil, fmt.Errorf("%s statistic %q has no counters", role, st.Name)
			}
		}
	}
	return c, nil
}

// For returns the statistics configured for role.
func (c Catalog) For(role string) ([]Statistic, bool) {
	stats, ok := c[role]
	return stats, ok && len(stats) > 0
}
