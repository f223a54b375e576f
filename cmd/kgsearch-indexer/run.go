package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/kgsearch/pkg/config"
	"github.com/platinummonkey/kgsearch/pkg/model"
)

var (
	runStages    []string
	runTypes     []string
	runTemporary bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Index once and exit",
	Long: `Index the given types of the given stages once. Without --stage the configured
stages are indexed, without --type every type with a translator.

The per type reports are printed as JSON. The command fails when a stage
could not be indexed.`,
	RunE: runIndexing,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&runStages, "stage", nil, "stage or group to index (RELEASED, IN_PROGRESS, public, curated)")
	runCmd.Flags().StringSliceVar(&runTypes, "type", nil, "document type to index")
	runCmd.Flags().BoolVar(&runTemporary, "temporary", false, "write to the temporary indices")
}

func runIndexing(cmd *cobra.Command, args []string) error {
	ix, err := newIndexer()
	if err != nil {
		return err
	}
	defer ix.close()

	stages, err := selectedStages(runStages, ix.config.Indexing.Stages)
	if err != nil {
		return err
	}
	types := runTypes
	if len(types) == 0 {
		types = ix.config.Indexing.Types
	}
	if len(types) == 0 {
		types = ix.job.Types()
	}
	temporary := runTemporary || ix.config.Indexing.Temporary

	ctx := cmd.Context()
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")

	var failed []model.Stage
	for _, stage := range stages {
		logger := ix.logger.WithField("stage", string(stage))
		reports, err := ix.job.RunAll(ctx, stage, types, temporary)
		for _, report := range reports {
			if encErr := encoder.Encode(report); encErr != nil {
				return encErr
			}
		}
		if err != nil {
			logger.WithError(err).Error("Indexing failed")
			failed = append(failed, stage)
			continue
		}
		logger.Infof("Indexed %d types", len(reports))
	}
	if len(failed) > 0 {
		return fmt.Errorf("indexing failed for %v", failed)
	}
	return nil
}

func selectedStages(names []string, configured []model.Stage) ([]model.Stage, error) {
	if len(names) == 0 {
		return configured, nil
	}
	stages := make([]model.Stage, 0, len(names))
	for _, name := range names {
		stage, err := config.ParseStage(name)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}
