// Package cli is the dagpenger command line: calculate a claim, show the
// grunnbeløp, or serve the HTTP API.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/benefit-engine/config"
	"github.com/warp/benefit-engine/generic"
	"github.com/warp/benefit-engine/grunnbelop"
	"github.com/warp/benefit-engine/store/sqlite"
)

// app is the state shared by every subcommand once the root has run.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "dagpenger",
		Short: "Calculate and review unemployment benefit daily rates",
		Long: `dagpenger computes the daily unemployment benefit rate from a claimant's
annual salaries and the current grunnbeløp (G), and routes the decision to a
caseworker for review.

Configuration is read from --config (TOML), then DAGPENGER_* environment
variables, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a TOML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newCalculateCommand(a))
	root.AddCommand(newGrunnbelopCommand(a))
	root.AddCommand(newServeCommand(a))
	return root
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// openSource builds the configured grunnbeløp source. date, when set, asks
// for the G in force on that day instead of the latest. The returned store
// is non-nil only for the sqlite source and must be closed by the caller.
func (a *app) openSource(date *time.Time) (grunnbelop.Source, *sqlite.Store, error) {
	g := a.cfg.Grunnbelop
	switch g.Source {
	case config.SourceHTTP:
		src := grunnbelop.NewHTTPSource(g.URL, g.Timeout.Duration)
		src.Date = date
		return src, nil, nil
	case config.SourceSQLite:
		store, err := sqlite.New(a.cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		return &grunnbelop.StoreSource{Store: store, Date: date}, store, nil
	case config.SourceStatic:
		return grunnbelop.NewStaticSource(g.Amount), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown grunnbelop source %q", g.Source)
	}
}

// newProvider resolves G once. observer may be nil.
func (a *app) newProvider(ctx context.Context, date *time.Time, observer grunnbelop.FetchObserver) (*grunnbelop.Provider, *sqlite.Store, error) {
	src, store, err := a.openSource(date)
	if err != nil {
		return nil, nil, err
	}

	provider, err := grunnbelop.NewProvider(ctx, src, observer)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, err
	}
	a.logger.Debug("grunnbeløp resolved", "source", provider.Source(), "amount", provider.Amount().Value.String())
	return provider, store, nil
}

// parseDate reads a --date flag value. Empty means none.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, &generic.ValidationError{Field: "date", Message: fmt.Sprintf("want YYYY-MM-DD, got %q", s)}
	}
	return &d, nil
}
