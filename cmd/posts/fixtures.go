package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	fixturesCmd.Flags().IntP("number", "n", 3, "number of posts to generate")
	fixturesCmd.Flags().Int64("seed", 0, "fixture seed, random when not set")
	rootCmd.AddCommand(fixturesCmd)
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Print generated posts as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := cmd.Flags().GetInt("number")
		if err != nil {
			return err
		}

		gen, err := generatorFromFlags(cmd)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()

		return enc.Encode(gen.Posts(n))
	},
}
