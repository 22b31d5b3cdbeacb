package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk catalog layout:
//
//	tables:
//	  orders: [id, total, customer_id]
//	  customers: [id, name]
type file struct {
	Tables map[string][]string `yaml:"tables"`
}

// ParseYAML builds a catalog from YAML data.
func ParseYAML(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for name := range f.Tables {
		if name == "" {
			return nil, fmt.Errorf("catalog has a table with an empty name")
		}
	}
	return New(f.Tables), nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
