package importer

import (
	"fmt"
	"io"

	"liftlog/internal/storage"
)

// JSONImporter reads a document in the persisted format. Ids in the file
// are ignored; imported items get fresh ones.
type JSONImporter struct{}

// Name returns the importer name.
func (j *JSONImporter) Name() string {
	return "json"
}

// Preview decodes the document. The format is strict, so any problem fails
// the whole file.
func (j *JSONImporter) Preview(r io.Reader) ([]PreviewGroup, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	c, err := storage.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("not a workout document: %w", err)
	}

	groups := make([]PreviewGroup, 0, len(c))
	for _, g := range c {
		groups = append(groups, PreviewGroup{Name: g.Name, Exercises: g.Exercises})
	}
	return groups, nil, nil
}
