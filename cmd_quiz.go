package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mitay-fortune-quiz/internal/prompt"
	"mitay-fortune-quiz/internal/reading"
)

func newQuizCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Answer the questions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			items, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}

			q := prompt.New(a.in, a.out, a.cfg.Language())
			defer q.Close()

			in, err := q.Run(ctx)
			if errors.Is(err, prompt.ErrInterrupted) {
				a.logger.Debug("quiz interrupted")
				return nil
			}
			if err != nil {
				return fmt.Errorf("quiz: %w", err)
			}

			res := reading.Build(in, items, a.cfg.Output.Picks, a.now())
			return a.finish(res, a.cfg.Output.Dir)
		},
	}
}
