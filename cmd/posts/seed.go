package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.hacdias.com/posts/fixtures"
)

func init() {
	seedCmd.Flags().IntP("number", "n", 10, "number of posts to insert")
	seedCmd.Flags().Int64("seed", 0, "fixture seed, random when not set")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert generated posts into the configured database",
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

		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		ids, err := db.InsertMany(cmd.Context(), gen.Posts(n))
		if err != nil {
			return err
		}

		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func generatorFromFlags(cmd *cobra.Command) (*fixtures.Generator, error) {
	seed, err := seedFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	if seed == nil {
		return fixtures.NewRandom(), nil
	}

	return fixtures.New(*seed), nil
}

// seedFromFlags returns nil unless --seed was given.
func seedFromFlags(cmd *cobra.Command) (*int64, error) {
	if !cmd.Flags().Changed("seed") {
		return nil, nil
	}

	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		return nil, err
	}

	return &seed, nil
}
