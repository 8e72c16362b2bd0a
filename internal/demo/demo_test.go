package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armature-io/armature/model"
	"github.com/armature-io/armature/openapi"
	"github.com/armature-io/armature/store"
)

func TestRegistryDeclaresTypes(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"Policy", "Rule"}, reg.Names())
}

func TestPolicyRoundTrip(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	s := store.NewMemStore()

	policy, err := reg.New("Policy")
	require.NoError(t, err)
	policy.Bind(s)
	require.NoError(t, policy.SetRepresentation(map[string]any{
		"name":           "edge",
		"default_action": "allow",
		"rules": []any{
			map[string]any{"name": "allow-ssh", "priority": 20, "protocol": "tcp"},
			map[string]any{"name": "allow-dns", "priority": 10, "protocol": "udp"},
		},
	}))
	require.NoError(t, policy.Create(model.ValidateOptions{}))

	// Plain fields land in the policy record under their internal names
	rec, ok := s.GetAt("filter/policy")
	require.True(t, ok)
	policyRec := rec.(map[string]any)
	assert.Equal(t, "edge", policyRec["name"])
	assert.Equal(t, "allow", policyRec["defaultaction"])
	assert.NotContains(t, policyRec, "logdefault", "condition unmet, value dropped")

	// Rules land at their own path, sorted by priority, identity stripped
	require.Equal(t, 2, s.CountAt("filter/rules/rule"))
	first, ok := s.GetAt("filter/rules/rule/0")
	require.True(t, ok)
	firstRec := first.(map[string]any)
	assert.Equal(t, "allow-dns", firstRec["name"])
	assert.Equal(t, 10, firstRec["priority"])
	assert.NotContains(t, firstRec, "id")

	// Reading back reproduces the representation with dense identity
	loaded, err := reg.New("Policy")
	require.NoError(t, err)
	loaded.Bind(s)
	require.NoError(t, loaded.Read())

	rep := loaded.Representation()
	assert.Equal(t, "edge", rep["name"])
	assert.Equal(t, "allow", rep["default_action"])

	rules, ok := rep["rules"].([]any)
	require.True(t, ok)
	require.Len(t, rules, 2)
	for i, item := range rules {
		rule := item.(map[string]any)
		assert.Equal(t, i, rule["id"])
		assert.Equal(t, 0, rule["parent_id"])
	}
	assert.Equal(t, "allow-dns", rules[0].(map[string]any)["name"])
	assert.Equal(t, "allow-ssh", rules[1].(map[string]any)["name"])
}

func TestPolicyRejectsInvalidRule(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	policy, err := reg.New("Policy")
	require.NoError(t, err)
	require.NoError(t, policy.SetRepresentation(map[string]any{
		"name": "edge",
		"rules": []any{
			map[string]any{"name": "too-high", "priority": 300},
		},
	}))

	validateErr := policy.Validate(model.ValidateOptions{})
	ve, ok := model.AsValidationError(validateErr)
	require.True(t, ok)
	assert.Equal(t, "rules", ve.Field)
	assert.Equal(t, model.CodeOutOfRange, ve.Code)
}

func TestPolicyRejectsDuplicateRuleNames(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	policy, err := reg.New("Policy")
	require.NoError(t, err)
	require.NoError(t, policy.SetRepresentation(map[string]any{
		"name": "edge",
		"rules": []any{
			map[string]any{"name": "dup", "priority": 1},
			map[string]any{"name": "dup", "priority": 2},
		},
	}))

	validateErr := policy.Validate(model.ValidateOptions{})
	ve, ok := model.AsValidationError(validateErr)
	require.True(t, ok)
	assert.Equal(t, model.CodeNotUnique, ve.Code)
	assert.Contains(t, ve.Message, "Firewall Rules")
}

func TestPolicyLogsDefaultWhenDenying(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	s := store.NewMemStore()

	policy, err := reg.New("Policy")
	require.NoError(t, err)
	policy.Bind(s)
	require.NoError(t, policy.SetRepresentation(map[string]any{
		"name":        "strict",
		"log_default": true,
	}))
	require.NoError(t, policy.Create(model.ValidateOptions{}))

	rec, ok := s.GetAt("filter/policy")
	require.True(t, ok)
	policyRec := rec.(map[string]any)
	assert.Equal(t, "deny", policyRec["defaultaction"], "default applied")
	assert.Equal(t, true, policyRec["logdefault"], "condition met, value kept")
}

func TestOpenAPIDocumentCoversTypes(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	doc, err := openapi.Build(reg, openapi.Config{Title: "Firewall"})
	require.NoError(t, err)
	assert.Contains(t, doc.Components.Schemas, "Rule")
	assert.Contains(t, doc.Components.Schemas, "Policy")

	rules := doc.Components.Schemas["Policy"].Value.Properties["rules"]
	require.NotNil(t, rules)
	assert.Equal(t, "#/components/schemas/Rule", rules.Value.Items.Ref)
}
