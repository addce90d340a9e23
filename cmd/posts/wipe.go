package main

import (
	"github.com/spf13/cobra"
	"go.hacdias.com/posts/log"
)

func init() {
	rootCmd.AddCommand(wipeCmd)
}

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all posts from the configured database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		log.S().Warn("deleting database")
		return db.Drop(cmd.Context())
	},
}
