package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// Source supplies the catalog consumed by a sync run.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// FileSource reads a catalog from a YAML or JSON file on disk.
type FileSource struct {
	Path string
}

// NewFileSource returns a Source backed by path.
func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

// Load reads and decodes the catalog file.
func (s *FileSource) Load(_ context.Context) (*Catalog, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("catalog not found").
				WithCause(err).
				WithContext("path", s.Path).
				Build()
		}
		return nil, errors.IOError("failed to read catalog").
			WithCause(err).
			WithContext("path", s.Path).
			Build()
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, errors.ValidationError("failed to decode catalog").
			WithCause(err).
			WithContext("path", s.Path).
			Build()
	}
	return cat, nil
}

// Parse decodes catalog data. JSON documents are accepted since they are valid YAML.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cat Catalog
	if err := dec.Decode(&cat); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, err
	}
	return &cat, nil
}

// StaticSource returns a fixed catalog; handy for tests and the render command.
type StaticSource struct {
	Catalog *Catalog
}

// Load implements Source.
func (s StaticSource) Load(_ context.Context) (*Catalog, error) {
	if s.Catalog == nil {
		return nil, errors.NotFoundError("catalog not provided").Build()
	}
	return s.Catalog, nil
}
