package main

import (
	"fmt"

	"yamdb/internal/csvload"
	"yamdb/internal/model"
	"yamdb/pkg/config"
	"yamdb/pkg/database"
	"yamdb/pkg/logger"
	"yamdb/pkg/s3"

	"github.com/spf13/cobra"
)

var (
	loadDir      string
	loadS3Prefix string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import a CSV data set",
	Long: `Import category.csv, genre.csv, titles.csv, genre_title.csv, users.csv,
review.csv and comments.csv. Rows whose id already exists are skipped, so a
data set can be loaded more than once.

Examples:
  yamdbctl load --dir static/data
  yamdbctl load --s3-prefix datasets/2024-06`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

		var src csvload.Source = csvload.DirSource(loadDir)
		if loadS3Prefix != "" {
			client, err := s3.NewClient(cfg)
			if err != nil {
				return err
			}
			src = csvload.S3Source{Store: client, Prefix: loadS3Prefix}
		}

		db, err := database.NewDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if cfg.DBDriver == database.DriverSQLite {
			if err := db.AutoMigrate(model.All()...); err != nil {
				return fmt.Errorf("failed to migrate sqlite schema: %w", err)
			}
		}

		stats, err := csvload.NewLoader(db, log).Load(cmd.Context(), src)
		if err != nil {
			return err
		}

		for _, name := range csvload.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d\n", name, stats[name])
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadDir, "dir", "static/data", "local directory holding the CSV files")
	loadCmd.Flags().StringVar(&loadS3Prefix, "s3-prefix", "", "read the CSV files from this prefix of S3_BUCKET_NAME instead of --dir")
	rootCmd.AddCommand(loadCmd)
}
