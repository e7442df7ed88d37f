package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fintrack/internal/classifier"
	"fintrack/internal/log"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <description...>",
		Short: "Ask the classifier for an expense category once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cls, err := classifier.NewFromSettings(ctx, a.cfg.ClassifierSettings(),
				a.logger.WithComponent(log.ComponentClassifier).Slog())
			if err != nil {
				return err
			}
			defer cls.Close()

			out := cmd.OutOrStdout()
			if !cls.Enabled() {
				fmt.Fprintln(out, "no suggestion (classifier not configured)")
				return nil
			}
			if category, ok := cls.Classify(ctx, strings.Join(args, " ")); ok {
				fmt.Fprintln(out, category)
				return nil
			}
			fmt.Fprintln(out, "no suggestion")
			return nil
		},
	}
}
