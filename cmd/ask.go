package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adler0/ragent/internal/engine"
)

var askShowSteps bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSteps, "steps", false, "print run statistics after the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question must not be empty")
	}

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := a.Engine.Run(ctx, question)
	if err != nil {
		if errors.Is(err, engine.ErrRunAborted) {
			return fmt.Errorf("no relevant answer after %d question rewrites; try rephrasing", res.Rewrites)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Answer)

	if askShowSteps {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nsteps=%d rewrites=%d turns=%d\n",
			res.Steps, res.Rewrites, len(res.Turns))
	}
	return nil
}
