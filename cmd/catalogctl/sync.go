package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookcatalog/internal/booksync"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/kafka"
	"bookcatalog/internal/platform/openlibrary"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Publish book synchronization events",
	}
	cmd.AddCommand(newSyncPublishCmd(), newSyncSubjectCmd())
	return cmd
}

func newSyncPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <isbn>...",
		Short: "Announce ISBNs on the synchronization topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return withPublisher(cfg, func(p *booksync.Publisher) error {
				for _, isbn := range args {
					if err := p.Publish(cmd.Context(), isbn); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "published", isbn)
				}
				return nil
			})
		},
	}
}

func newSyncSubjectCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "subject <subject>",
		Short: "Announce the ISBNs Open Library lists for a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client := openlibrary.NewClient(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.UserAgent, cfg.OpenLibrary.RPS, cfg.OpenLibrary.MaxRetries)
			result, err := client.SearchBooks(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			return withPublisher(cfg, func(p *booksync.Publisher) error {
				published := 0
				for _, doc := range result.Docs {
					isbn, ok := openlibrary.PreferredISBN(doc)
					if !ok {
						continue
					}
					if err := p.Publish(cmd.Context(), isbn); err != nil {
						return err
					}
					published++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "published %d of %d works for %q\n", published, len(result.Docs), args[0])
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of works to fetch")
	return cmd
}

func withPublisher(cfg *config.Config, fn func(p *booksync.Publisher) error) error {
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.SyncTopic)
	if err != nil {
		return err
	}
	defer producer.Close()
	return fn(booksync.NewPublisher(producer))
}
