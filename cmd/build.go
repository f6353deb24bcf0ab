package cmd

import (
	"context"
	"strconv"

	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/preprocess"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build [max-files]",
	Short: "Runs every stage from scores to training sequences",
	Long:  `Runs every stage from scores to training sequences`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			cfg.MaxFiles = n
		}

		set, err := Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		printShapes(set)
		return nil
	},
}

// Build preprocesses the dataset, assembles the corpus and vocabulary and
// returns the training set held in memory.
func Build(ctx context.Context, cfg config.Config) (model.TrainingSet, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := preprocess.Run(ctx, cfg); err != nil {
		return model.TrainingSet{}, err
	}
	songs, err := assemble(cfg)
	if err != nil {
		return model.TrainingSet{}, err
	}
	return generate(cfg, songs)
}
