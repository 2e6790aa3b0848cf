package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	money "github.com/rpgo/fund-calculator/pkg/decimal"
)

// decimalValue adapts decimal.Decimal to pflag.Value.
type decimalValue struct{ d *decimal.Decimal }

func (v decimalValue) String() string {
	if v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v decimalValue) Set(s string) error {
	d, err := money.ParseAmount(s)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*v.d = d
	return nil
}

func (v decimalValue) Type() string { return "decimal" }

func decimalFlag(cmd *cobra.Command, dst *decimal.Decimal, name, usage string) {
	cmd.Flags().Var(decimalValue{dst}, name, usage)
}

// requireFlags marks flags as required, panicking on a typo in name.
func requireFlags(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		if err := cmd.MarkFlagRequired(n); err != nil {
			panic(err)
		}
	}
}
