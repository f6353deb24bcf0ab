package cmd

import (
	"strings"

	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/corpus"
	"github.com/jsphweid/melodex/logger"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(assembleCmd)
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Joins encoded songs into the corpus file and writes the vocabulary",
	Long:  `Joins encoded songs into the corpus file and writes the vocabulary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, err = assemble(cfg)
		return err
	},
}

func assemble(cfg config.Config) (string, error) {
	logger.Section("assemble")
	songs, err := corpus.CreateSingleFileDataset(cfg.OutputDir, cfg.CorpusPath, cfg.SequenceLength, cfg.Delimiter)
	if err != nil {
		return "", err
	}
	mappings, err := corpus.CreateMapping(songs, cfg.MappingPath)
	if err != nil {
		return "", err
	}
	logger.Progress("Corpus of %v symbols written to %v, vocabulary of %v written to %v",
		len(strings.Fields(songs)), cfg.CorpusPath, len(mappings), cfg.MappingPath)
	return songs, nil
}
