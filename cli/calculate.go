package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/benefit-engine/dagpenger"
	"github.com/warp/benefit-engine/factory"
	"github.com/warp/benefit-engine/generic"
	"github.com/warp/benefit-engine/saksbehandler"
)

// Used when neither --salary nor --file is given.
var demoSalaries = []factory.SalaryJSON{
	{Year: 2023, Amount: 500000},
	{Year: 2022, Amount: 450000},
	{Year: 2021, Amount: 400000},
}

type calculateOptions struct {
	salaries       []string
	file           string
	claimant       string
	reviewer       string
	specialization string
	date           string
	noReview       bool
}

func newCalculateCommand(a *app) *cobra.Command {
	opts := &calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate a daily rate and have a caseworker review it",
		Long: `Calculate the daily rate for one claimant and hand the decision to a
caseworker. Salaries come from repeated --salary YEAR=AMOUNT flags or from a
claim JSON file. With neither, a three-year demo claim is used.`,
		Example: `  dagpenger calculate --salary 2024=550000 --salary 2023=500000
  dagpenger calculate --file claim.json --reviewer "Kari" --specialization approved_max_rate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalculate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.salaries, "salary", "s", nil, "Annual salary as YEAR=AMOUNT (repeatable)")
	f.StringVarP(&opts.file, "file", "f", "", "Claim JSON file")
	f.StringVar(&opts.claimant, "claimant", "", "Claimant name (overrides the file)")
	f.StringVar(&opts.reviewer, "reviewer", "Ola Nordmann", "Caseworker name")
	f.StringVar(&opts.specialization, "specialization", string(dagpenger.CategoryApproved),
		"Caseworker specialization: denied_low_income, approved, approved_max_rate")
	f.StringVar(&opts.date, "date", "", "Use the G in force on YYYY-MM-DD")
	f.BoolVar(&opts.noReview, "no-review", false, "Print the unreviewed decision")
	cmd.MarkFlagsMutuallyExclusive("salary", "file")
	return cmd
}

func (a *app) runCalculate(cmd *cobra.Command, opts *calculateOptions) error {
	claim, err := loadClaim(opts)
	if err != nil {
		return err
	}

	specialization, err := dagpenger.ParseCategory(opts.specialization)
	if err != nil {
		return err
	}

	date, err := parseDate(opts.date)
	if err != nil {
		return err
	}

	provider, store, err := a.newProvider(cmd.Context(), date, nil)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	decision, err := dagpenger.NewCalculator(claim.History, provider).Calculate()
	if err != nil {
		return fmt.Errorf("could not calculate daily rate: %w", err)
	}
	a.logger.Debug("decision calculated",
		"decision_id", decision.ID(),
		"category", decision.Category(),
		"method", decision.Method(),
	)

	reviewer := saksbehandler.New(opts.reviewer, specialization)
	if !opts.noReview {
		if err := reviewer.Review(decision); err != nil {
			return fmt.Errorf("could not calculate daily rate: %w", err)
		}
	}

	printDecision(cmd.OutOrStdout(), claim.Claimant, reviewer, decision)
	return nil
}

// loadClaim builds the claim from --file, --salary, or the demo salaries.
func loadClaim(opts *calculateOptions) (*factory.Claim, error) {
	cf := factory.NewClaimFactory()

	var cj factory.ClaimJSON
	switch {
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("read claim: %w", err)
		}
		claim, err := cf.ParseClaim(data)
		if err != nil {
			return nil, err
		}
		cj = cf.ToJSON(claim)
	case len(opts.salaries) > 0:
		for _, s := range opts.salaries {
			sj, err := parseSalaryFlag(s)
			if err != nil {
				return nil, err
			}
			cj.Salaries = append(cj.Salaries, sj)
		}
	default:
		cj.Salaries = demoSalaries
	}

	if opts.claimant != "" {
		cj.Claimant = opts.claimant
	}
	if cj.Claimant == "" {
		cj.Claimant = "unnamed"
	}
	return cf.FromJSON(cj)
}

// parseSalaryFlag reads "2024=550000". Underscores in the amount are
// ignored, so 550_000 works too.
func parseSalaryFlag(s string) (factory.SalaryJSON, error) {
	yearStr, amountStr, ok := strings.Cut(s, "=")
	if !ok {
		return factory.SalaryJSON{}, &generic.ValidationError{
			Field:   "salary",
			Message: fmt.Sprintf("want YEAR=AMOUNT, got %q", s),
		}
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return factory.SalaryJSON{}, &generic.ValidationError{Field: "salary", Message: fmt.Sprintf("bad year in %q", s)}
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(amountStr), "_", ""), 64)
	if err != nil {
		return factory.SalaryJSON{}, &generic.ValidationError{Field: "salary", Message: fmt.Sprintf("bad amount in %q", s)}
	}
	return factory.SalaryJSON{Year: year, Amount: amount}, nil
}

func printDecision(w io.Writer, claimant string, reviewer *saksbehandler.Reviewer, d *dagpenger.Decision) {
	const rule = "===================================="
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "NAV dagpenger calculator")
	fmt.Fprintf(w, "Claimant: %s\n", claimant)
	fmt.Fprintf(w, "Caseworker: %s - %s\n", reviewer.Name(), reviewer.Specialization())
	fmt.Fprintf(w, "Result: %s - %s kr per day.\n", d.Status(), d.Rate().Value.String())
	if d.Method() != "" {
		fmt.Fprintf(w, "Method: %s (%s)\n", d.Method(), d.Category())
	} else {
		fmt.Fprintf(w, "Category: %s\n", d.Category())
	}
	fmt.Fprintln(w, rule)
}
