package taxonomy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTable []byte

type table struct {
	Categories []Category `yaml:"categories"`
}

// Default returns the classifier built from the embedded category table.
func Default() (*Classifier, error) {
	cats, err := decode(bytes.NewReader(defaultTable))
	if err != nil {
		return nil, fmt.Errorf("embedded taxonomy: %w", err)
	}
	return New(cats), nil
}

// LoadFile reads a category table from a YAML file. An empty path returns
// the embedded default.
func LoadFile(path string) (*Classifier, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cats, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return New(cats), nil
}

func decode(r io.Reader) ([]Category, error) {
	var t table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}
	if len(t.Categories) == 0 {
		return nil, errors.New("no categories defined")
	}

	seen := make(map[string]struct{}, len(t.Categories))
	for _, c := range t.Categories {
		if c.Name == "" {
			return nil, errors.New("category with empty name")
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	return t.Categories, nil
}
