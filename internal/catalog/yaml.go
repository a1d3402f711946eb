package catalog

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlFile is the YAML catalog layout:
//
//	bodies:
//	  - name: earth
//	    radius: 4
//	    ...
type yamlFile struct {
	Bodies []Entry `yaml:"bodies"`
}

// ParseYAML reads a YAML catalog.
func ParseYAML(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f yamlFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return New(f.Bodies...)
}
