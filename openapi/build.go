// Package openapi assembles an OpenAPI document describing every model type
// in a registry. The document carries one component schema per type; the
// engine introduces no HTTP surface, so no paths are declared.
package openapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/armature-io/armature/model"
)

// Config controls the document metadata
type Config struct {
	Title       string
	Description string
	Version     string
}

// Build renders the registry's model types into a complete document. Types
// are emitted in sorted name order so output is deterministic.
func Build(reg *model.Registry, cfg Config) (*openapi3.T, error) {
	if reg == nil {
		reg = model.DefaultRegistry()
	}
	if cfg.Title == "" {
		cfg.Title = "Configuration Schema"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       cfg.Title,
			Description: cfg.Description,
			Version:     cfg.Version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}

	for _, name := range reg.Names() {
		m, err := reg.New(name)
		if err != nil {
			return nil, fmt.Errorf("describing %s: %w", name, err)
		}
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", m.ObjectSchema())
	}
	return doc, nil
}
