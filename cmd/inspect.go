package cmd

import (
	"fmt"

	"github.com/jsphweid/melodex/corpus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [mapping.json]",
	Short: "Prints a vocabulary in id order",
	Long:  `Prints a vocabulary in id order`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path = cfg.MappingPath
		}
		return inspect(path)
	},
}

func inspect(path string) error {
	mappings, err := corpus.LoadMapping(path)
	if err != nil {
		return err
	}
	for id, symbol := range corpus.Symbols(mappings) {
		fmt.Printf("%v\t%v\n", id, symbol)
	}
	return nil
}
