package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/eco-education/internal/config"
	"github.com/iliyamo/eco-education/internal/repository"
	"github.com/iliyamo/eco-education/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load demo content",
	Long: `Creates the tables if needed and loads demo content.  Without --file the
embedded demo document is used.  Nothing is written when the first user of
the document already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		content, err := loadSeed(seedFile)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		db, err := openDatabase(ctx, cfg, log, true)
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := seed.Apply(ctx, repository.NewStore(db, cfg.BcryptCost), content, log)
		if err != nil {
			return err
		}
		if res.Skipped {
			fmt.Fprintln(cmd.OutOrStdout(), "already seeded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d tips, %d challenges, %d articles, %d resources, %d posts, %d activities\n",
			res.Users, res.Tips, res.Challenges, res.Articles, res.Resources, res.Posts, res.Activities)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed YAML document (default: embedded demo content)")
}

func loadSeed(path string) (*seed.Content, error) {
	if path == "" {
		return seed.Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(b)
}
