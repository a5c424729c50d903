package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/benefit-engine/config"
	"github.com/warp/benefit-engine/dagpenger"
	"github.com/warp/benefit-engine/generic"
	"github.com/warp/benefit-engine/generic/store"
)

func newGrunnbelopCommand(a *app) *cobra.Command {
	var (
		date    string
		history bool
	)

	cmd := &cobra.Command{
		Use:     "grunnbelop",
		Aliases: []string{"g"},
		Short:   "Show the grunnbeløp and the thresholds derived from it",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if history {
				return a.printHistory(cmd)
			}

			d, err := parseDate(date)
			if err != nil {
				return err
			}
			provider, st, err := a.newProvider(cmd.Context(), d, nil)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			threeYear, err := provider.TotalForYears(dagpenger.RecentYears)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Grunnbeløp (G)\t%s\t(%s)\n", provider.Amount().Value, provider.Source())
			fmt.Fprintf(w, "Minimum last year (1.5G)\t%s\n", provider.MinimumQualifyingSalary().Value)
			fmt.Fprintf(w, "Minimum last %d years (%dG)\t%s\n", dagpenger.RecentYears, dagpenger.RecentYears, threeYear.Value)
			fmt.Fprintf(w, "Max benefit basis (6G)\t%s\n", provider.MaxAnnualBenefitBasis().Value)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Show the G in force on YYYY-MM-DD")
	cmd.Flags().BoolVar(&history, "history", false, "List every recorded G instead")
	return cmd
}

// printHistory lists the sqlite table, or the built-in table for the other
// sources.
func (a *app) printHistory(cmd *cobra.Command) error {
	var (
		records []generic.BaselineRecord
		err     error
	)
	if a.cfg.Grunnbelop.Source == config.SourceSQLite {
		_, st, openErr := a.openSource(nil)
		if openErr != nil {
			return openErr
		}
		defer st.Close()
		records, err = st.List(cmd.Context())
	} else {
		records, err = store.NewSeededMemory().List(cmd.Context())
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EFFECTIVE FROM\tG")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\n", rec.EffectiveFrom.Format(time.DateOnly), rec.Amount.Value)
	}
	return w.Flush()
}
