package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/postgres"
)

var (
	seedGenres     = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	seedPublishers = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer", "Wiley", "Elsevier"}
	seedWords      = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
)

func newSeedCmd() *cobra.Command {
	var (
		count int
		start int
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated books for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSeedRange(start, count); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pool, err := postgres.Open(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := book.NewPostgresRepo(pool, cfg.DBTimeout)
			n, err := repo.BulkInsert(cmd.Context(), seedBooks(rand.New(rand.NewPCG(uint64(start), uint64(count))), start, count))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d books\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1000, "number of books to generate")
	cmd.Flags().IntVar(&start, "start", 1, "first sequence number; ISBNs are 978 followed by it")
	return cmd
}

// maxSeedSeq is the largest sequence number that keeps 978<seq> at 13 digits.
const maxSeedSeq = 9_999_999_999

func validateSeedRange(start, count int) error {
	switch {
	case count < 1:
		return fmt.Errorf("--count must be positive, got %d", count)
	case start < 0:
		return fmt.Errorf("--start must not be negative, got %d", start)
	case start > maxSeedSeq-(count-1):
		return fmt.Errorf("--start %d with --count %d runs past sequence %d", start, count, maxSeedSeq)
	}
	return nil
}

// seedBooks generates count books with ISBNs 978<seq> for seq from start.
func seedBooks(rng *rand.Rand, start, count int) []book.Book {
	books := make([]book.Book, count)
	for i := range books {
		seq := start + i
		books[i] = book.Book{
			ISBN:        fmt.Sprintf("978%010d", seq),
			Title:       fmt.Sprintf("Book Title %d - %s", seq, pick(rng, seedWords)),
			Author:      fmt.Sprintf("%s %s", pick(rng, seedWords), pick(rng, seedWords)),
			Publisher:   pick(rng, seedPublishers),
			Genre:       pick(rng, seedGenres),
			Description: fmt.Sprintf("This is a book about %s.", pick(rng, seedWords)),
			Pages:       100 + rng.IntN(800),
		}
	}
	return books
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.IntN(len(items))]
}
