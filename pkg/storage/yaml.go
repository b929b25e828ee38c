package storage

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// YAML stores objects in a human-editable document:
//
//	objects:
//	  jets/pt:
//	    kind: hist1d
//	    x_edges: [0, 10, 20]
//	    values: [4, 2]
type YAML struct{}

type yamlDocument struct {
	Objects map[string]*binned.Record `yaml:"objects"`
}

// Open reads the document at path.
func (YAML) Open(ctx context.Context, path string) (Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, types.StorageError.Wrap(err)
	}
	var doc yamlDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, types.StorageError.New("parsing %q: %v", path, err)
	}
	if doc.Objects == nil {
		doc.Objects = map[string]*binned.Record{}
	}
	return &recordSession{path: path, records: doc.Objects}, nil
}

// Write replaces the document at path with objects.
func (YAML) Write(ctx context.Context, path string, objects map[string]binned.Object) error {
	records, err := toRecords(objects)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(yamlDocument{Objects: records})
	if err != nil {
		return types.StorageError.Wrap(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return types.StorageError.Wrap(err)
	}
	return nil
}
