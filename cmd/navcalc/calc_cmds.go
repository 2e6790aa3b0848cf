package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/fund-calculator/internal/config"
	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/internal/output"
)

// periodFlags registers the fund and date flags shared by the NAV-driven calculators.
func periodFlags(cmd *cobra.Command, calc *domain.Calculation, endFlag bool) {
	cmd.Flags().StringVar(&calc.Fund, "fund", "", "scheme code or exact scheme name")
	cmd.Flags().StringVar(&calc.StartDate, "start", "", "start date (YYYY-MM-DD or DD-MM-YYYY)")
	if endFlag {
		cmd.Flags().StringVar(&calc.EndDate, "end", "", "end date (default today)")
	}
}

func (a *app) sipCmd() *cobra.Command {
	calc := domain.Calculation{Name: "SIP", Type: domain.CalcSIP}
	cmd := &cobra.Command{
		Use:   "sip",
		Short: "Value a monthly SIP, optionally stepped up every year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), calc)
		},
	}
	periodFlags(cmd, &calc, true)
	decimalFlag(cmd, &calc.Amount, "amount", "monthly installment")
	decimalFlag(cmd, &calc.StepUpPercent, "step-up", "annual step-up in percent")
	requireFlags(cmd, "start", "amount")
	return cmd
}

func (a *app) swpCmd() *cobra.Command {
	calc := domain.Calculation{Name: "SWP", Type: domain.CalcSWP}
	cmd := &cobra.Command{
		Use:   "swp",
		Short: "Value a systematic withdrawal plan from an initial corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), calc)
		},
	}
	periodFlags(cmd, &calc, true)
	decimalFlag(cmd, &calc.Initial, "initial", "initial corpus")
	decimalFlag(cmd, &calc.Amount, "withdrawal", "monthly withdrawal")
	requireFlags(cmd, "start", "initial", "withdrawal")
	return cmd
}

func (a *app) lumpsumCmd() *cobra.Command {
	calc := domain.Calculation{Name: "Lumpsum", Type: domain.CalcLumpsum}
	cmd := &cobra.Command{
		Use:   "lumpsum",
		Short: "Value a one-time investment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), calc)
		},
	}
	periodFlags(cmd, &calc, true)
	decimalFlag(cmd, &calc.Amount, "amount", "amount invested")
	requireFlags(cmd, "start", "amount")
	return cmd
}

func (a *app) goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Plan contributions or time needed to reach a target",
	}

	sip := domain.Calculation{Name: "Goal SIP", Type: domain.CalcGoalSIP}
	sipCmd := &cobra.Command{
		Use:   "sip",
		Short: "Monthly SIP needed to reach a target, replaying NAV history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), sip)
		},
	}
	periodFlags(sipCmd, &sip, false)
	decimalFlag(sipCmd, &sip.Target, "target", "target corpus")
	sipCmd.Flags().IntVar(&sip.Years, "years", 0, "horizon in whole years")
	decimalFlag(sipCmd, &sip.StepUpPercent, "step-up", "annual step-up in percent")
	requireFlags(sipCmd, "target", "years")

	lump := domain.Calculation{Name: "Goal lumpsum", Type: domain.CalcGoalLumpsum}
	lumpCmd := &cobra.Command{
		Use:   "lumpsum",
		Short: "Lumpsum needed today to reach a target, replaying NAV history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), lump)
		},
	}
	periodFlags(lumpCmd, &lump, false)
	decimalFlag(lumpCmd, &lump.Target, "target", "target corpus")
	lumpCmd.Flags().IntVar(&lump.Years, "years", 0, "horizon in whole years")
	requireFlags(lumpCmd, "target", "years")

	tm := domain.Calculation{Name: "Time to goal", Type: domain.CalcGoalTime}
	timeCmd := &cobra.Command{
		Use:   "time",
		Short: "Years needed to reach a target at an assumed return",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), tm)
		},
	}
	timeCmd.Flags().StringVar(&tm.Mode, "mode", "sip", "lumpsum or sip")
	decimalFlag(timeCmd, &tm.Amount, "amount", "lumpsum or monthly SIP amount")
	decimalFlag(timeCmd, &tm.Target, "target", "target corpus")
	decimalFlag(timeCmd, &tm.ExpectedReturn, "return", "expected annual return in percent")
	requireFlags(timeCmd, "amount", "target", "return")

	combo := domain.Calculation{Name: "Combination", Type: domain.CalcGoalCombination}
	comboCmd := &cobra.Command{
		Use:   "combo",
		Short: "Top-up needed alongside an existing lumpsum or SIP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), combo)
		},
	}
	comboCmd.Flags().StringVar(&combo.Mode, "mode", "lumpsum", "what you already invest: lumpsum or sip")
	decimalFlag(comboCmd, &combo.Amount, "amount", "existing lumpsum or monthly SIP")
	decimalFlag(comboCmd, &combo.Target, "target", "target corpus")
	comboCmd.Flags().IntVar(&combo.Years, "years", 0, "horizon in whole years")
	decimalFlag(comboCmd, &combo.ExpectedReturn, "return", "expected annual return in percent")
	requireFlags(comboCmd, "amount", "target", "years", "return")

	cmd.AddCommand(sipCmd, lumpCmd, timeCmd, comboCmd)
	return cmd
}

func (a *app) loanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "EMI, tenure and implied rate of an amortizing loan",
	}

	emi := domain.Calculation{Name: "Loan EMI", Type: domain.CalcLoanEMI}
	emiCmd := &cobra.Command{
		Use:   "emi",
		Short: "Monthly instalment with rate sensitivity and amortization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), emi)
		},
	}
	decimalFlag(emiCmd, &emi.Principal, "principal", "loan amount")
	decimalFlag(emiCmd, &emi.AnnualRate, "rate", "annual interest rate in percent")
	decimalFlag(emiCmd, &emi.TenureYears, "tenure", "tenure in years")
	requireFlags(emiCmd, "principal", "rate", "tenure")

	tenure := domain.Calculation{Name: "Loan tenure", Type: domain.CalcLoanTenure}
	tenureCmd := &cobra.Command{
		Use:   "tenure",
		Short: "Years needed to repay a loan with a given EMI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), tenure)
		},
	}
	decimalFlag(tenureCmd, &tenure.Principal, "principal", "loan amount")
	decimalFlag(tenureCmd, &tenure.AnnualRate, "rate", "annual interest rate in percent")
	decimalFlag(tenureCmd, &tenure.EMI, "emi", "monthly instalment")
	requireFlags(tenureCmd, "principal", "rate", "emi")

	rate := domain.Calculation{Name: "Loan rate", Type: domain.CalcLoanRate}
	rateCmd := &cobra.Command{
		Use:   "rate",
		Short: "Annual interest rate implied by an EMI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), rate)
		},
	}
	decimalFlag(rateCmd, &rate.Principal, "principal", "loan amount")
	decimalFlag(rateCmd, &rate.EMI, "emi", "monthly instalment")
	decimalFlag(rateCmd, &rate.TenureYears, "tenure", "tenure in years")
	requireFlags(rateCmd, "principal", "emi", "tenure")

	cmd.AddCommand(emiCmd, tenureCmd, rateCmd)
	return cmd
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Run every calculation in a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// validated by runPlan once --csv has supplied the default fund
			plan, err := config.NewInputParser().DecodeFile(args[0])
			if err != nil {
				return err
			}
			return a.runPlan(cmd.Context(), plan)
		},
	}
}

func (a *app) examplePlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-plan [file]",
		Short: "Write an example plan covering every calculation type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := config.NewInputParser().CreateExamplePlan()
			if len(args) == 1 {
				if err := output.SavePlan(plan, args[0]); err != nil {
					return fmt.Errorf("failed to save plan: %w", err)
				}
				fmt.Fprintf(a.stdout, "Example plan written to %s\n", args[0])
				return nil
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(plan); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
