// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gts-tools/gtscheck/internal/config"
)

var (
	// Global flags
	dirFlag        string
	configPathFlag string

	// Resolved values
	cfg *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "gtscheck",
	Short: "GTS entity registry and cross-reference validator",
	Long: `gtscheck indexes GTS entities (JSON Schemas and schema-conforming objects)
found in a workspace of JSON/JSONC/YAML documents, verifies that every
cross-document reference resolves to a known entity, and validates each
object against the schema it declares.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "completion", "version":
			return nil
		}

		if _, err := os.Stat(dirFlag); os.IsNotExist(err) {
			return fmt.Errorf("workspace not found: %s", dirFlag)
		}

		var err error
		if configPathFlag != "" {
			cfg, err = config.LoadFrom(configPathFlag)
		} else {
			cfg, err = config.Load(dirFlag)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", ".", "Workspace directory")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file")
}
