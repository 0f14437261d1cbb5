package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"intern_insider/internal/adapters/observability"
	"intern_insider/internal/app"
	"intern_insider/internal/domain"
	"intern_insider/internal/shared"
	mongorepo "intern_insider/internal/storage/mongo"
)

// CLI flags
var (
	file       string
	workers    int
	indexesOff bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample or file-provided reviews into the review store",
		Long: `seed writes reviews into the configured collection. Without --file it
inserts the built-in sample reviews; with --file it reads a JSON array of reviews.`,
		RunE:         run,
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding an array of reviews")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent inserts (defaults to SEED_WORKERS)")
	rootCmd.Flags().BoolVar(&indexesOff, "skip-indexes", false, "do not create query indexes before seeding")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogFile)
	if workers <= 0 {
		workers = cfg.SeedWorkers
	}

	reviews, err := load(file)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := mongorepo.Open(ctx, mongorepo.Options{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Timeout:  cfg.StoreTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		defer cancel()
		_ = conn.Close(cctx)
	}()

	repo := mongorepo.New(conn, cfg.MongoCollection)
	if !indexesOff {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	log.Info().Int("reviews", len(reviews)).Int("workers", workers).Msg("seeding starting")
	rep, err := app.NewCommandService(repo).Seed(ctx, reviews, workers)
	if err != nil {
		log.Warn().Err(err).Int("failed", rep.Failed).Msg("some reviews were not inserted")
	}

	total, cerr := repo.Count(ctx)
	if cerr != nil {
		return cerr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, failed %d, collection now holds %d reviews\n",
		len(rep.Inserted), rep.Failed, total)
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d reviews failed", rep.Failed, len(reviews))
	}
	return nil
}

func load(path string) ([]domain.Review, error) {
	if path == "" {
		return app.SampleReviews(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return app.DecodeReviews(f)
}
