package model

import (
	"fmt"
	"testing"
)

// benchRegistry declares a rule type plus a policy embedding it, sized like
// a realistic firewall config
func benchRegistry(b *testing.B) *Registry {
	b.Helper()

	reg := NewRegistry()
	err := reg.Register(Descriptor{
		Name:       "Rule",
		ConfigPath: "filter/rules/rule",
		Many:       true,
		SortBy:     "priority",
		SortOrder:  SortAscending,
		ParentType: "Policy",
	}, func() ([]Field, error) {
		return []Field{
			&StringField{BaseField: BaseField{Name: "name", Required: true}, MaxLength: 64},
			&IntegerField{BaseField: BaseField{Name: "priority", Required: true}},
			&StringField{BaseField: BaseField{Name: "protocol", Default: "any"}, Choices: []string{"tcp", "udp", "icmp", "any"}},
			&BooleanField{BaseField: BaseField{Name: "enabled", Default: true}},
		}, nil
	})
	if err != nil {
		b.Fatalf("Register(Rule) error = %v", err)
	}

	err = reg.Register(Descriptor{
		Name:       "Policy",
		ConfigPath: "filter/policy",
	}, func() ([]Field, error) {
		rules, err := NewNestedModelField(reg, "Rule", BaseField{Name: "rules", AllowEmpty: true})
		if err != nil {
			return nil, err
		}
		return []Field{
			&StringField{BaseField: BaseField{Name: "name", Required: true}},
			rules,
		}, nil
	})
	if err != nil {
		b.Fatalf("Register(Policy) error = %v", err)
	}
	return reg
}

// benchRules fabricates n rule objects in reverse priority order so sorting
// always has work to do
func benchRules(n int) []any {
	items := make([]any, 0, n)
	for i := n - 1; i >= 0; i-- {
		items = append(items, map[string]any{
			"name":     fmt.Sprintf("rule-%d", i),
			"priority": i,
			"protocol": "tcp",
		})
	}
	return items
}

// BenchmarkValidateNested100 measures a full validation pass over a policy
// embedding 100 rules
func BenchmarkValidateNested100(b *testing.B) {
	reg := benchRegistry(b)
	rules := benchRules(100)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		policy, err := reg.New("Policy")
		if err != nil {
			b.Fatal(err)
		}
		if err := policy.SetRepresentation(map[string]any{"name": "edge", "rules": rules}); err != nil {
			b.Fatal(err)
		}
		if err := policy.Validate(ValidateOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkToInternal100 measures sorting plus conversion of a validated
// 100-rule policy to its persisted form
func BenchmarkToInternal100(b *testing.B) {
	reg := benchRegistry(b)

	policy, err := reg.New("Policy")
	if err != nil {
		b.Fatal(err)
	}
	if err := policy.SetRepresentation(map[string]any{"name": "edge", "rules": benchRules(100)}); err != nil {
		b.Fatal(err)
	}
	if err := policy.Validate(ValidateOptions{}); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := policy.Internal(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFromInternal100 measures hydrating a 100-rule policy from its
// persisted form
func BenchmarkFromInternal100(b *testing.B) {
	reg := benchRegistry(b)

	policy, err := reg.New("Policy")
	if err != nil {
		b.Fatal(err)
	}
	if err := policy.SetRepresentation(map[string]any{"name": "edge", "rules": benchRules(100)}); err != nil {
		b.Fatal(err)
	}
	if err := policy.Validate(ValidateOptions{}); err != nil {
		b.Fatal(err)
	}
	internal, err := policy.Internal()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		fresh, err := reg.New("Policy")
		if err != nil {
			b.Fatal(err)
		}
		if err := fresh.FromInternalObject(internal); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRegistryNew measures instantiating a model type from the registry
func BenchmarkRegistryNew(b *testing.B) {
	reg := benchRegistry(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := reg.New("Rule"); err != nil {
			b.Fatal(err)
		}
	}
}
