package gen

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest enumerates the files written by one generation run. Paths are
// slash-separated, relative to the output root, in the order they were
// written.
type Manifest struct {
	SQL      []string `yaml:"sql,omitempty"`
	Transfer []string `yaml:"transfer,omitempty"`
	Access   []string `yaml:"access,omitempty"`
}

// Len returns the number of listed files.
func (m *Manifest) Len() int {
	return len(m.SQL) + len(m.Transfer) + len(m.Access)
}

// Paths returns every listed path: SQL files first, then transfer files,
// then access files.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, m.Len())
	paths = append(paths, m.SQL...)
	paths = append(paths, m.Transfer...)
	return append(paths, m.Access...)
}

// Encode writes the YAML form of m to w.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// ReadManifest reads a manifest written by Generate.
func ReadManifest(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", file, err)
	}
	return m, nil
}
