package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mitay-fortune-quiz/internal/catalog"
	"mitay-fortune-quiz/internal/config"
	"mitay-fortune-quiz/internal/element"
	"mitay-fortune-quiz/internal/messages"
	"mitay-fortune-quiz/internal/reading"
	"mitay-fortune-quiz/internal/report"
)

// app carries what every subcommand shares.
type app struct {
	in     io.Reader
	out    io.Writer
	now    func() time.Time
	cfg    *config.Config
	logger *zap.Logger

	// persistent flags
	configPath  string
	verbose     bool
	lang        string
	catalogPath string
	databaseURL string
}

func newApp() *app {
	return &app{
		in:  os.Stdin,
		out: os.Stdout,
		now: time.Now,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fortune",
		Short: "MITAY fortune × nails: monthly element reading with product picks",
		Long: `fortune maps a target month and a personal goal to five-element tags,
scores the fit and recommends catalog items whose element matches.

Run "fortune quiz" for the interactive questions, "fortune run" for a
one-shot reading from flags, or "fortune serve" for the web form.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "Path to YAML config")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&a.lang, "lang", "", "Language: en or cn")
	flags.StringVar(&a.catalogPath, "catalog", "", "Path to catalog CSV")
	flags.StringVar(&a.databaseURL, "db", "", "Postgres URL to read the catalog from instead of CSV")

	root.AddCommand(newRunCmd(a), newQuizCmd(a), newServeCmd(a), newConfigCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.lang != "" {
		cfg.Lang = a.lang
	}
	if a.catalogPath != "" {
		cfg.Catalog.Path = a.catalogPath
	}
	if a.databaseURL != "" {
		cfg.Catalog.DatabaseURL = a.databaseURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger != nil {
		return nil
	}
	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.WarnLevel
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("unable to initialize logger: %w", err)
	}
	return nil
}

func (a *app) loadCatalog(ctx context.Context) ([]catalog.Item, error) {
	src, err := catalog.NewSource(a.cfg.CatalogOptions())
	if err != nil {
		return nil, err
	}
	items, warnings, err := src.Load(ctx)
	for _, warning := range warnings {
		a.logger.Warn("catalog row", zap.String("source", catalog.Describe(src)), zap.String("warning", warning))
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", catalog.Describe(src), err)
	}
	a.logger.Info("catalog loaded", zap.String("source", catalog.Describe(src)), zap.Int("items", len(items)))
	return items, nil
}

// finish prints the reading and writes the session pair.
func (a *app) finish(res reading.Result, outDir string) error {
	if err := report.RenderTerminal(a.out, res); err != nil {
		return err
	}
	jsonPath, mdPath, err := report.WriteSession(outDir, res)
	if err != nil {
		return err
	}
	a.logger.Info("session saved",
		zap.String("session_id", res.SessionID),
		zap.String("json", jsonPath),
		zap.String("md", mdPath),
	)
	m := messages.For(res.Lang)
	fmt.Fprintln(a.out, messages.Format(m.Saved, "json", jsonPath, "md", mdPath))
	return nil
}

func goalNames() string {
	goals := element.Goals()
	names := make([]string, len(goals))
	for i, g := range goals {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		exitWith(err.Error())
	}
}

func exitWith(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	os.Exit(1)
}
