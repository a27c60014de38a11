package preset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wavekit/synthdeck/internal/param"
)

// File is the YAML interchange form of a preset, for sharing snapshots
// between installations without copying the database.
type File struct {
	Name   string        `yaml:"name"`
	Values map[int]uint8 `yaml:"values"`
}

// ExportFile writes a preset as YAML to path.
func ExportFile(path, name string, values map[param.Address]uint8) error {
	byInt := make(map[int]uint8, len(values))
	for a, v := range values {
		byInt[int(a)] = v
	}

	data, err := yaml.Marshal(File{Name: name, Values: byInt})
	if err != nil {
		return fmt.Errorf("export preset %q: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export preset %q: %w", name, err)
	}
	return nil
}

// ImportFile reads a YAML preset file back into a name and snapshot.
func ImportFile(path string) (string, map[param.Address]uint8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("import preset: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", nil, fmt.Errorf("import preset: %w", err)
	}

	values := make(map[param.Address]uint8, len(f.Values))
	for a, v := range f.Values {
		if a < 0 || a > param.DomainMax {
			return "", nil, fmt.Errorf("import preset: address %d outside protocol value space", a)
		}
		values[param.Address(a)] = v
	}
	return f.Name, values, nil
}
