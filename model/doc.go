// Package model implements a nested-object validation and serialization
// engine for structured configuration records.
//
// # Overview
//
// A Model is one config record: an ordered collection of named, typed,
// validated Fields plus a location in the persisted config tree. Records
// exist in two shapes that the engine converts between:
//
//   - Representation form: the API-facing shape. Rich, includes derived
//     identity (id, parent_id), omits write-only data.
//   - Internal form: the persisted shape. Keyed by internal field names,
//     carries no identity; position in the stored sequence is the identity.
//
// Model types are declared once against a Registry: a Descriptor carries
// the static metadata (config path, cardinality, sort configuration) and a
// Factory produces the field set. Instances are built per request via
// Registry.New, validated, converted, and discarded.
//
// # Nested Models
//
// NestedModelField embeds records of one registered type inside another.
// Validation instantiates a full nested Model per candidate object, so
// nested records get the complete validation walk of their own type,
// recursively. Identity is never trusted from input: each nested record's
// id is its position among the siblings validated in the same pass, and its
// parent_id points at the enclosing record.
//
// # Example Usage
//
// Declaring a type and validating a record:
//
//	reg := model.NewRegistry()
//	err := reg.Register(model.Descriptor{
//		Name:       "Rule",
//		ConfigPath: "filter/rules/rule",
//		Many:       true,
//		SortBy:     "priority",
//	}, func() ([]model.Field, error) {
//		return []model.Field{
//			&model.StringField{BaseField: model.BaseField{Name: "name", Required: true}},
//			&model.IntegerField{BaseField: model.BaseField{Name: "priority", Required: true}},
//		}, nil
//	})
//
//	rule, _ := reg.New("Rule")
//	err = rule.SetRepresentation(map[string]any{"name": "allow-dns", "priority": 10})
//	if err == nil {
//		err = rule.Validate(model.ValidateOptions{})
//	}
//
// Converting between shapes:
//
//	internal, err := rule.Internal()     // persisted form, no identity keys
//	rep := rule.Representation()         // API form, identity included
//
// # Validation Failures
//
// Failures are structured: every *ValidationError carries the offending
// field name, a human-readable message, and a stable machine code. Nested
// failures are re-wrapped with the outer field's name while the inner code
// survives, so callers see one coherent error chain:
//
//	if ve, ok := model.AsValidationError(err); ok {
//		fmt.Println(ve.Field, ve.Code, ve.Message)
//	}
//
// # Concurrency
//
// Registries are safe for concurrent use. Model and Field instances are
// not: each holds per-pass state, and the intended pattern is one freshly
// built instance per request.
package model
