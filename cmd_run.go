package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mitay-fortune-quiz/internal/element"
	"mitay-fortune-quiz/internal/reading"
)

type runOptions struct {
	name   string
	method string
	dob    string
	time   string
	nums   string
	target string
	goal   string
	out    string
	picks  int
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate one reading from flags and save it",
		Example: `  fortune run --name Serena --target 2025-09 --goal wealth
  fortune run --method meihua --nums 2,9,8 --goal love --lang cn`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOnce(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.name, "name", "", "Name or nickname")
	flags.StringVar(&opts.method, "method", string(reading.Birthdate), "Method: birthdate or meihua")
	flags.StringVar(&opts.dob, "dob", "", "Birthdate (YYYY-MM-DD)")
	flags.StringVar(&opts.time, "time", "", "Birth time (HH:MM)")
	flags.StringVar(&opts.nums, "nums", "", "Three numbers for meihua, e.g. 2,9,8")
	flags.StringVar(&opts.target, "target", "", "Target month (YYYY-MM); defaults to the current month")
	flags.StringVar(&opts.goal, "goal", "", "Goal: "+goalNames())
	flags.StringVar(&opts.out, "out", "", "Output directory (overrides config)")
	flags.IntVar(&opts.picks, "picks", 0, "Number of picks (overrides config)")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func (a *app) runOnce(cmd *cobra.Command, opts runOptions) error {
	method, ok := reading.ParseMethod(opts.method)
	if !ok {
		return fmt.Errorf("invalid method %q (want birthdate or meihua)", opts.method)
	}
	goal, ok := element.ParseGoal(opts.goal)
	if !ok {
		return fmt.Errorf("invalid goal %q (want one of %s)", opts.goal, goalNames())
	}
	picks := a.cfg.Output.Picks
	if opts.picks != 0 {
		if opts.picks < 0 {
			return fmt.Errorf("picks must be >= 1")
		}
		picks = opts.picks
	}
	outDir := a.cfg.Output.Dir
	if opts.out != "" {
		outDir = opts.out
	}

	items, err := a.loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	in := reading.Input{
		Name:        opts.name,
		Lang:        a.cfg.Language(),
		Method:      method,
		DOB:         opts.dob,
		BirthTime:   opts.time,
		TargetMonth: opts.target,
		Goal:        goal,
	}
	if method == reading.Meihua {
		in.Nums = element.ParseNumbers(opts.nums)
	}

	res := reading.Build(in, items, picks, a.now())
	return a.finish(res, outDir)
}
