// Package demo declares the firewall policy model types used by the
// command line tools and examples: a single filter policy that embeds an
// ordered collection of rules.
package demo

import (
	"github.com/armature-io/armature/model"
)

// NewRegistry builds a registry holding the demo firewall types
func NewRegistry() (*model.Registry, error) {
	reg := model.NewRegistry()
	if err := registerRule(reg); err != nil {
		return nil, err
	}
	if err := registerPolicy(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func registerRule(reg *model.Registry) error {
	return reg.Register(model.Descriptor{
		Name:              "Rule",
		ConfigPath:        "filter/rules/rule",
		Many:              true,
		SortBy:            "priority",
		SortOrder:         model.SortAscending,
		ParentType:        "Policy",
		VerboseName:       "Firewall Rule",
		VerboseNamePlural: "Firewall Rules",
	}, func() ([]model.Field, error) {
		minPriority, maxPriority := 0, 255
		return []model.Field{
			&model.StringField{
				BaseField: model.BaseField{
					Name:     "name",
					Required: true,
					Unique:   true,
					HelpText: "Unique name identifying the rule.",
				},
				MinLength: 1,
				MaxLength: 64,
				Pattern:   `[a-zA-Z0-9_-]+`,
			},
			&model.IntegerField{
				BaseField: model.BaseField{
					Name:     "priority",
					Required: true,
					HelpText: "Evaluation order; lower numbers run first.",
				},
				Minimum: &minPriority,
				Maximum: &maxPriority,
			},
			&model.StringField{
				BaseField: model.BaseField{
					Name:     "protocol",
					Default:  "any",
					HelpText: "Protocol the rule matches.",
				},
				Choices: []string{"tcp", "udp", "icmp", "any"},
			},
			&model.BooleanField{
				BaseField: model.BaseField{
					Name:     "enabled",
					Default:  true,
					HelpText: "Whether the rule is evaluated.",
				},
			},
			&model.StringField{
				BaseField: model.BaseField{
					Name:       "description",
					AllowEmpty: true,
					HelpText:   "Free-form note about the rule.",
				},
			},
		}, nil
	})
}

func registerPolicy(reg *model.Registry) error {
	return reg.Register(model.Descriptor{
		Name:              "Policy",
		ConfigPath:        "filter/policy",
		VerboseName:       "Filter Policy",
		VerboseNamePlural: "Filter Policies",
	}, func() ([]model.Field, error) {
		rules, err := model.NewNestedModelField(reg, "Rule", model.BaseField{
			Name:       "rules",
			AllowEmpty: true,
			HelpText:   "Rules evaluated by this policy, in priority order.",
		})
		if err != nil {
			return nil, err
		}
		return []model.Field{
			&model.StringField{
				BaseField: model.BaseField{
					Name:     "name",
					Required: true,
					HelpText: "Display name of the policy.",
				},
			},
			&model.StringField{
				BaseField: model.BaseField{
					Name:         "default_action",
					InternalName: "defaultaction",
					Default:      "deny",
					HelpText:     "Action applied when no rule matches.",
				},
				Choices: []string{"allow", "deny", "reject"},
			},
			&model.BooleanField{
				BaseField: model.BaseField{
					Name:         "log_default",
					InternalName: "logdefault",
					Default:      false,
					Conditions:   map[string]any{"default_action": "deny"},
					HelpText:     "Log connections handled by the default action.",
				},
			},
			rules,
		}, nil
	})
}
