// Package cli provides the cobra commands for inspecting and validating
// armature model registries: version, models, schema, and validate. Commands
// are constructed against a registry so embedding applications can expose
// their own model sets; cmd/armature wires the demo registry.
package cli

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/armature-io/armature/model"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// ErrValidationFailed marks a run that completed but found invalid records.
// Execute maps it to exit code 1; every other failure is a usage or load
// error and exits 2.
var ErrValidationFailed = errors.New("validation failed")

// NewRootCommand creates the root command with every subcommand attached
func NewRootCommand(reg *model.Registry) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "armature",
		Short: "Config model inspection and validation tooling",
		Long: color.CyanString(`Armature - declarative config models

Armature describes structured configuration as model types: named records
with typed, validated fields that may embed records of other types. This
tool works against the registered model set of the embedding application.

Commands:
  • models    list the registered model types
  • schema    generate the OpenAPI schema for the model set
  • validate  check a config document against the model set`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewModelsCommand(reg))
	rootCmd.AddCommand(NewSchemaCommand(reg))
	rootCmd.AddCommand(NewValidateCommand(reg))

	return rootCmd
}

// Execute runs the root command against os.Args and returns the process
// exit code: 0 on success, 1 when validation found invalid records, 2 on
// usage and load errors.
func Execute(reg *model.Registry) int {
	rootCmd := NewRootCommand(reg)
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps a command error to the process exit code
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrValidationFailed) {
		return 1
	}
	return 2
}
