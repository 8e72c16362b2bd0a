package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/armature-io/armature/model"
	"github.com/armature-io/armature/openapi"
)

// NewSchemaCommand creates the schema command
func NewSchemaCommand(reg *model.Registry) *cobra.Command {
	var (
		format      string
		output      string
		title       string
		description string
		apiVersion  string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate the OpenAPI schema for the registered models",
		Long: `Generate an OpenAPI 3 document describing every registered model type.

The document carries one component schema per type, with per-field
constraints, nested model references, and required-field lists.`,
		Example: `  # Print the schema as JSON
  armature schema

  # Write the schema as YAML to a file
  armature schema --format yaml --output schema.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openapi.Build(reg, openapi.Config{
				Title:       title,
				Description: description,
				Version:     apiVersion,
			})
			if err != nil {
				return err
			}

			data, err := renderDocument(doc, format)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Schema written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Document title")
	cmd.Flags().StringVar(&description, "description", "", "Document description")
	cmd.Flags().StringVar(&apiVersion, "api-version", "", "Document version")

	return cmd
}

// renderDocument encodes the document in the requested format. YAML output
// goes through the document's JSON form so both formats carry identical
// structure.
func renderDocument(doc *openapi3.T, format string) ([]byte, error) {
	blob, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}

	switch format {
	case "json":
		return append(blob, '\n'), nil
	case "yaml":
		var tree map[string]any
		if err := json.Unmarshal(blob, &tree); err != nil {
			return nil, fmt.Errorf("failed to encode schema: %w", err)
		}
		return yaml.Marshal(tree)
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}
}
