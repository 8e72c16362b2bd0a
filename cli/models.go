package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armature-io/armature/model"
)

// NewModelsCommand creates the models command
func NewModelsCommand(reg *model.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the registered model types",
		Long: `List every model type in the registry.

Shows each type's location in the config tree, its cardinality, its
canonical sort order, and the type it must be nested under.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reg == nil {
				reg = model.DefaultRegistry()
			}

			names := reg.Names()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No model types registered.")
				return nil
			}

			t := newTable("MODEL", "CONFIG PATH", "CARDINALITY", "SORT", "PARENT")
			for _, name := range names {
				desc, _ := reg.Descriptor(name)
				t.addRow(name, desc.ConfigPath, formatCardinality(desc), formatSort(desc), formatParent(desc))
			}
			t.render(cmd.OutOrStdout())
			return nil
		},
	}
}

// formatCardinality renders a descriptor's cardinality as a table cell
func formatCardinality(desc model.Descriptor) string {
	if !desc.Many {
		return "single"
	}
	switch {
	case desc.ManyMinimum == 0 && desc.ManyMaximum == 0:
		return "many"
	case desc.ManyMaximum == 0:
		return fmt.Sprintf("many (min %d)", desc.ManyMinimum)
	default:
		return fmt.Sprintf("many (%d-%d)", desc.ManyMinimum, desc.ManyMaximum)
	}
}

func formatSort(desc model.Descriptor) string {
	if desc.SortBy == "" {
		return "-"
	}
	return fmt.Sprintf("%s %s", desc.SortBy, desc.SortOrder)
}

func formatParent(desc model.Descriptor) string {
	if desc.ParentType == "" {
		return "-"
	}
	return desc.ParentType
}
