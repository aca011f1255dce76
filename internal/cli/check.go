package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gts-tools/gtscheck/internal/index"
	"github.com/gts-tools/gtscheck/internal/ingest"
	"github.com/gts-tools/gtscheck/internal/registry"
	"github.com/gts-tools/gtscheck/internal/scan"
	"github.com/gts-tools/gtscheck/internal/ui"
	"github.com/gts-tools/gtscheck/internal/validate"
)

var checkNoSnapshot bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the workspace",
	Long: `Ingests every candidate document in the workspace, then reports dangling
references and schema-conformance errors per entity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := scan.Walk(dirFlag, cfg.Extensions, cfg.Exclude)
		if err != nil {
			return fmt.Errorf("error walking workspace: %w", err)
		}

		reg := registry.New()
		orch := validate.NewWithRegistryCompiler(reg, validate.Options{
			DisableSchemaExec: cfg.DisableSchemaExec,
		})
		pipeline := ingest.New(reg, orch, cfg.Exclude)

		warnings := pipeline.Ingest(files)
		if cfg.DefaultFile != "" {
			reg.SetDefaultFile(cfg.DefaultFile)
		}

		var errorCount int

		for _, f := range reg.InvalidFiles() {
			msg := "parse error"
			if f.Validation != nil && len(f.Validation.Errors) > 0 {
				msg = f.Validation.Errors[0].Message
			}
			fmt.Println(ui.InvalidFile(f.Path, msg))
			errorCount++
		}

		entities := append(reg.Schemas(), reg.Objects()...)
		for _, e := range entities {
			if e.Validation == nil || e.Validation.OK() {
				continue
			}
			fmt.Println(ui.EntityFailure(e.ID, e.File))
			for _, ve := range e.Validation.Errors {
				fmt.Println(ui.ErrorDetail(ve.InstancePath, ve.Message))
				errorCount++
			}
		}

		for _, w := range warnings {
			fmt.Println(ui.Warningf("%s - %v", w.Path, w.Err))
		}

		if !checkNoSnapshot {
			if err := saveSnapshot(reg); err != nil {
				fmt.Println(ui.Warningf("failed to save snapshot: %v", err))
			}
		}

		fmt.Println()
		if errorCount == 0 {
			fmt.Println(ui.Successf("No issues found in %d files (%d schemas, %d objects).",
				len(reg.Files()), len(reg.Schemas()), len(reg.Objects())))
		} else {
			fmt.Printf("Found %s in %d files.\n",
				ui.Count(errorCount, "error", "errors"), len(files))
		}

		if errorCount > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func saveSnapshot(reg *registry.Registry) error {
	db, err := index.Open(dirFlag)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Save(reg)
}

func init() {
	checkCmd.Flags().BoolVar(&checkNoSnapshot, "no-snapshot", false, "Skip writing the index snapshot")
	rootCmd.AddCommand(checkCmd)
}
