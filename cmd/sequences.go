package cmd

import (
	"fmt"

	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/corpus"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/sequence"
	"github.com/jsphweid/melodex/util"
	"github.com/spf13/cobra"
)

var (
	sequencesOut string
	sequencesIn  string
)

func init() {
	sequencesCmd.Flags().StringVarP(&sequencesOut, "out", "o", "", "write the training set to this gob file")
	sequencesCmd.Flags().StringVar(&sequencesIn, "in", "", "print the shapes of a training set written with --out instead of generating one")
	rootCmd.AddCommand(sequencesCmd)
}

var sequencesCmd = &cobra.Command{
	Use:   "sequences",
	Short: "Slices the corpus into one-hot training windows",
	Long:  `Slices the corpus into one-hot training windows and their targets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sequencesIn != "" {
			set, err := loadTrainingSet(sequencesIn)
			if err != nil {
				return err
			}
			printShapes(set)
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		songs, err := corpus.LoadCorpus(cfg.CorpusPath)
		if err != nil {
			return err
		}
		set, err := generate(cfg, songs)
		if err != nil {
			return err
		}
		printShapes(set)

		if sequencesOut != "" {
			if err := util.CreateBinary(sequencesOut, set); err != nil {
				return err
			}
			fmt.Printf("Training set written to %v\n", sequencesOut)
		}
		return nil
	},
}

func generate(cfg config.Config, songs string) (model.TrainingSet, error) {
	logger.Section("sequences")
	mappings, err := corpus.LoadMapping(cfg.MappingPath)
	if err != nil {
		return model.TrainingSet{}, err
	}
	return sequence.GenerateTrainingSequences(songs, mappings, cfg.SequenceLength)
}

// loadTrainingSet reads a gob training set and checks its one-hot data
// and targets agree with the recorded shape.
func loadTrainingSet(path string) (model.TrainingSet, error) {
	set, err := util.ReadBinary[model.TrainingSet](path)
	if err != nil {
		return set, err
	}
	shape := set.Inputs.Shape()
	if want := shape[0] * shape[1] * shape[2]; len(set.Inputs.Data) != want {
		return set, fmt.Errorf("%v: %v one-hot values for shape %v", path, len(set.Inputs.Data), shape)
	}
	if len(set.Targets) != shape[0] {
		return set, fmt.Errorf("%v: %v targets for %v examples", path, len(set.Targets), shape[0])
	}
	logger.Info("Loaded training set from %v", path)
	return set, nil
}

func printShapes(set model.TrainingSet) {
	fmt.Printf("inputs: %v\n", set.Inputs.Shape())
	fmt.Printf("targets: [%v]\n", len(set.Targets))
}
