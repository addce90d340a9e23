package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.hacdias.com/posts/config"
	"go.hacdias.com/posts/database"
	"go.hacdias.com/posts/log"
	"go.hacdias.com/posts/server"
)

var rootCmd = &cobra.Command{
	Use:               "posts",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Posts is a small blog posts API",
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := parseConfig()
		if err != nil {
			return err
		}

		defer func() {
			_ = log.L().Sync()
		}()

		db, err := database.Open(cmd.Context(), c.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		quit := make(chan os.Signal, 1)
		server := server.NewServer(c, db)

		log := log.S()

		go func() {
			log.Info("starting server")
			err := server.Start()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("failed to start server: %s", err)
			}
			quit <- os.Interrupt
		}()

		signal.Notify(quit, os.Interrupt)
		<-quit

		log.Info("stopping server")
		return server.Stop()
	},
}

func parseConfig() (*config.Config, error) {
	c, err := config.Parse()
	if err != nil {
		return nil, err
	}

	log.SetDebug(c.Development)
	return c, nil
}

func openDatabase(ctx context.Context) (database.Database, error) {
	c, err := parseConfig()
	if err != nil {
		return nil, err
	}

	return database.Open(ctx, c.Database)
}
