package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"rentfolio/internal/rent"
	"rentfolio/internal/seed"
	"rentfolio/internal/valuation"
)

// parseMonth reads a YYYY-MM flag value.
func parseMonth(s string) (int, int, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t.Year(), int(t.Month()), nil
}

func rentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rent",
		Short: "Rent payment operations",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Create missing monthly payments for a lease",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetUint("owner")
			leaseID, _ := cmd.Flags().GetUint("lease")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")

			in := rent.GenerateInput{LeaseID: leaseID}
			var err error
			if in.StartYear, in.StartMonth, err = parseMonth(from); err != nil {
				return err
			}
			if in.EndYear, in.EndMonth, err = parseMonth(to); err != nil {
				return err
			}

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.services().Generator.Generate(cmd.Context(), owner, in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	generate.Flags().Uint("owner", 0, "Owner user id")
	generate.Flags().Uint("lease", 0, "Lease id")
	generate.Flags().String("from", "", "First month, YYYY-MM")
	generate.Flags().String("to", "", "Last month, YYYY-MM")
	for _, f := range []string{"owner", "lease", "from", "to"} {
		_ = generate.MarkFlagRequired(f)
	}

	overdue := &cobra.Command{
		Use:   "overdue",
		Short: "Flag and list overdue payments for an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetUint("owner")

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			payments, err := a.services().Overdue.Detect(cmd.Context(), owner, a.now())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payments)
		},
	}
	overdue.Flags().Uint("owner", 0, "Owner user id")
	_ = overdue.MarkFlagRequired("owner")

	cmd.AddCommand(generate, overdue)
	return cmd
}

func valuationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "valuation",
		Short: "Property valuation operations",
	}

	calculate := &cobra.Command{
		Use:   "calculate",
		Short: "Compute and store a valuation snapshot for a property",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetUint("owner")
			propertyID, _ := cmd.Flags().GetUint("property")
			target, _ := cmd.Flags().GetString("target-yield")
			memo, _ := cmd.Flags().GetString("memo")

			in := valuation.CalculateInput{PropertyID: propertyID, Memo: memo}
			if target != "" {
				y, err := decimal.NewFromString(target)
				if err != nil {
					return fmt.Errorf("invalid target yield %q: %w", target, err)
				}
				in.TargetYield = &y
			}

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.services().Valuations.Calculate(cmd.Context(), owner, in, a.now())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	calculate.Flags().Uint("owner", 0, "Owner user id")
	calculate.Flags().Uint("property", 0, "Property id")
	calculate.Flags().String("target-yield", "", "Target yield in percent (default 5)")
	calculate.Flags().String("memo", "", "Note stored with the snapshot")
	_ = calculate.MarkFlagRequired("owner")
	_ = calculate.MarkFlagRequired("property")

	cmd.AddCommand(calculate)
	return cmd
}

func portfolioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio reports",
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Print the owner's portfolio summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetUint("owner")

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			s, err := a.services().Portfolio.Summary(cmd.Context(), owner, a.now())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
	summary.Flags().Uint("owner", 0, "Owner user id")
	_ = summary.MarkFlagRequired("owner")

	cmd.AddCommand(summary)
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			res, err := seed.Demo(cmd.Context(), a.store, email, a.now(), a.log)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().String("email", "demo@rentfolio.local", "Owner email")

	return cmd
}
