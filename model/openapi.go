package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// SchemaRefPrefix is where component schemas live in a published document
const SchemaRefPrefix = "#/components/schemas/"

// OpenAPIProperty renders the field as a property schema. The base field is
// untyped; concrete field types refine the item schema with their own
// constraints.
func (b *BaseField) OpenAPIProperty() *openapi3.SchemaRef {
	return b.wrap(&openapi3.Schema{})
}

// wrap finishes a property schema: nullability on the item, the array
// envelope with cardinality bounds for many-valued fields, and the shared
// metadata on the outside.
func (b *BaseField) wrap(item *openapi3.Schema) *openapi3.SchemaRef {
	item.Nullable = b.AllowNull

	outer := item
	if b.Many {
		outer = &openapi3.Schema{
			Type:     &openapi3.Types{openapi3.TypeArray},
			Items:    openapi3.NewSchemaRef("", item),
			MinItems: uint64(b.ManyMinimum),
		}
		if b.ManyMaximum > 0 {
			max := uint64(b.ManyMaximum)
			outer.MaxItems = &max
		}
	}
	outer.Description = b.description()
	outer.ReadOnly = b.ReadOnly
	outer.WriteOnly = b.WriteOnly
	if b.Default != nil {
		outer.Default = b.Default
	}
	return openapi3.NewSchemaRef("", outer)
}

// description assembles the property description from help text and the
// field's conditions
func (b *BaseField) description() string {
	parts := make([]string, 0, 2)
	if b.HelpText != "" {
		parts = append(parts, b.HelpText)
	}
	if cond := renderConditions(b.Conditions); cond != "" {
		parts = append(parts, cond)
	}
	return strings.Join(parts, " ")
}

// renderConditions flattens a condition map into schema prose. Keys are
// sorted so output is deterministic.
func renderConditions(conditions map[string]any) string {
	if len(conditions) == 0 {
		return ""
	}
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)

	clauses := make([]string, 0, len(names))
	for _, name := range names {
		clauses = append(clauses, fmt.Sprintf("%s is %v", name, conditions[name]))
	}
	return fmt.Sprintf("Only applies when %s.", strings.Join(clauses, " and "))
}

// OpenAPIProperty renders the string constraints as a schema
func (f *StringField) OpenAPIProperty() *openapi3.SchemaRef {
	item := &openapi3.Schema{
		Type:      &openapi3.Types{openapi3.TypeString},
		MinLength: uint64(f.MinLength),
		Pattern:   f.Pattern,
	}
	if f.MaxLength > 0 {
		max := uint64(f.MaxLength)
		item.MaxLength = &max
	}
	if len(f.Choices) > 0 {
		item.Enum = make([]any, 0, len(f.Choices))
		for _, choice := range f.Choices {
			item.Enum = append(item.Enum, choice)
		}
	}
	return f.wrap(item)
}

// OpenAPIProperty renders the integer constraints as a schema
func (f *IntegerField) OpenAPIProperty() *openapi3.SchemaRef {
	item := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}}
	if f.Minimum != nil {
		min := float64(*f.Minimum)
		item.Min = &min
	}
	if f.Maximum != nil {
		max := float64(*f.Maximum)
		item.Max = &max
	}
	return f.wrap(item)
}

// OpenAPIProperty renders a boolean schema
func (f *BooleanField) OpenAPIProperty() *openapi3.SchemaRef {
	return f.wrap(&openapi3.Schema{Type: &openapi3.Types{openapi3.TypeBoolean}})
}

// OpenAPIProperty renders the nested field as a reference to the nested
// type's component schema. Many-valued fields become arrays of references
// with the descriptor's cardinality bounds; single-valued fields reference
// the schema directly, via allOf when metadata or the nested required list
// must ride along.
func (f *NestedModelField) OpenAPIProperty() *openapi3.SchemaRef {
	ref := openapi3.NewSchemaRef(SchemaRefPrefix+f.desc.Name, nil)

	if f.Many {
		outer := &openapi3.Schema{
			Type:        &openapi3.Types{openapi3.TypeArray},
			Items:       ref,
			MinItems:    uint64(f.ManyMinimum),
			Description: f.description(),
			Nullable:    f.AllowNull,
			ReadOnly:    f.ReadOnly,
			WriteOnly:   f.WriteOnly,
			Required:    append([]string(nil), f.requiredNames...),
		}
		if f.ManyMaximum > 0 {
			max := uint64(f.ManyMaximum)
			outer.MaxItems = &max
		}
		return openapi3.NewSchemaRef("", outer)
	}

	// A $ref ignores sibling keys when marshalled, so a plain reference
	// only works when there is nothing else to say.
	if f.description() == "" && !f.AllowNull && !f.ReadOnly && !f.WriteOnly && len(f.requiredNames) == 0 {
		return ref
	}
	return openapi3.NewSchemaRef("", &openapi3.Schema{
		AllOf:       openapi3.SchemaRefs{ref},
		Description: f.description(),
		Nullable:    f.AllowNull,
		ReadOnly:    f.ReadOnly,
		WriteOnly:   f.WriteOnly,
		Required:    append([]string(nil), f.requiredNames...),
	})
}

// ObjectSchema renders a full component schema for a model type: every
// field as a property plus the required-field list, in declaration order.
func (m *Model) ObjectSchema() *openapi3.Schema {
	schema := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: make(openapi3.Schemas, len(m.fields)),
		Required:   m.RequiredFieldNames(),
	}
	if m.VerboseName != "" {
		schema.Title = m.VerboseName
	}
	if m.Many {
		id := &openapi3.Schema{
			Type:        &openapi3.Types{openapi3.TypeInteger},
			Description: "Position of this record in its collection.",
			ReadOnly:    true,
		}
		schema.Properties["id"] = openapi3.NewSchemaRef("", id)
	}
	if m.ParentType != "" {
		parentID := &openapi3.Schema{
			Type:        &openapi3.Types{openapi3.TypeInteger},
			Description: fmt.Sprintf("Position of the %s record this belongs to.", m.ParentType),
			ReadOnly:    true,
		}
		schema.Properties["parent_id"] = openapi3.NewSchemaRef("", parentID)
	}
	for _, f := range m.fields {
		schema.Properties[f.Base().Name] = f.OpenAPIProperty()
	}
	return schema
}
