package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bookcatalog/internal/review"
)

var errReviewRejected = errors.New("review rejected")

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review quality tools",
	}
	cmd.AddCommand(newReviewVerifyCmd())
	return cmd
}

func newReviewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [text...]",
		Short: "Check review text against the quality rules",
		Long:  "Check review text against the quality rules. Without arguments the text is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}

			verdict := review.NewVerifier(review.DefaultOptions()).Check(text)
			if verdict.Passed() {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			if verdict.Detail != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s (%s)\n", verdict.Reason, verdict.Detail)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s\n", verdict.Reason)
			}
			return errReviewRejected
		},
	}
}
