package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gts-tools/gtscheck/internal/index"
	"github.com/gts-tools/gtscheck/internal/ui"
)

var listKind string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed entities from the last check",
	Long:  `Reads the snapshot written by 'gtscheck check' and lists indexed entities.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := index.Open(dirFlag)
		if err != nil {
			return fmt.Errorf("failed to open index (run 'gtscheck check' first): %w", err)
		}
		defer db.Close()

		summary, err := db.Summary()
		if err != nil {
			return err
		}

		entities, err := db.Entities()
		if err != nil {
			return err
		}

		for _, e := range entities {
			if listKind != "" && e.Kind != listKind {
				continue
			}
			status := ui.SymbolSuccess
			if e.Errors > 0 {
				status = ui.SymbolError
			}
			line := fmt.Sprintf("%s %-7s %s", status, e.Kind, ui.EntityID(e.ID))
			if e.SchemaID != "" {
				line += ui.Hint(" -> " + e.SchemaID)
			}
			fmt.Println(line)
		}

		fmt.Println()
		fmt.Printf("%d schemas, %d objects, %d files (%d invalid), %d missing entities, %d errors\n",
			summary.Schemas, summary.Objects, summary.Files, summary.InvalidFiles,
			summary.Absent, summary.Errors)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listKind, "kind", "", "Only list entities of this kind (schema|object)")
	rootCmd.AddCommand(listCmd)
}
