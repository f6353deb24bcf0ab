package cmd

import (
	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	verbose        bool
	datasetPath    string
	outputDir      string
	sequenceLength int
	workers        int
	maxFiles       int
)

var rootCmd = &cobra.Command{
	Use:   "melodex",
	Short: "Turns folk song scores into training sequences",
	Long: `melodex reads a corpus of **kern (or MIDI) scores, keeps the ones with simple
rhythms, transposes them to C major or A minor, encodes them as sixteenth-note
time steps and slices the result into fixed-length training windows.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "TOML config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	flags.StringVar(&datasetPath, "dataset", "", "directory of scores to read")
	flags.StringVar(&outputDir, "output-dir", "", "directory for encoded songs")
	flags.IntVar(&sequenceLength, "sequence-length", 0, "symbols per training window")
	flags.IntVar(&workers, "workers", 0, "scores processed in parallel")
	flags.IntVar(&maxFiles, "max-files", 0, "read at most this many scores (0 for all)")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig layers command-line flags over the file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.DatasetPath = datasetPath
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("sequence-length") {
		cfg.SequenceLength = sequenceLength
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("max-files") {
		cfg.MaxFiles = maxFiles
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
