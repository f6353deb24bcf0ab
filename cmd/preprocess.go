package cmd

import (
	"github.com/jsphweid/melodex/preprocess"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(preprocessCmd)
}

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Encodes every acceptable score into the output directory",
	Long:  `Encodes every acceptable score into the output directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, err = preprocess.Run(cmd.Context(), cfg)
		return err
	},
}
