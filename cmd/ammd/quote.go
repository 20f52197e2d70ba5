package main

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/pttransamdriver/amm-master/amm"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a swap offline against given reserves",
		RunE:  runQuote,
	}

	cmd.Flags().String("amount-in", "", "input amount to sell")
	cmd.Flags().String("reserve-in", "", "pool reserve of the input asset")
	cmd.Flags().String("reserve-out", "", "pool reserve of the output asset")

	return cmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	amountIn, err := intFlag(cmd, "amount-in")
	if err != nil {
		return err
	}
	reserveIn, err := intFlag(cmd, "reserve-in")
	if err != nil {
		return err
	}
	reserveOut, err := intFlag(cmd, "reserve-out")
	if err != nil {
		return err
	}

	k, err := amm.SafeMul(reserveIn, reserveOut)
	if err != nil {
		return fmt.Errorf("reserves overflow: %w", err)
	}
	out, err := amm.CalculateSwapOutput(amountIn, reserveIn, reserveOut, k)
	if err != nil {
		return err
	}

	fmt.Println(out.String())
	return nil
}

func intFlag(cmd *cobra.Command, name string) (math.Int, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return math.Int{}, fmt.Errorf("--%s is required", name)
	}
	value, ok := math.NewIntFromString(raw)
	if !ok {
		return math.Int{}, fmt.Errorf("--%s: %q is not an integer", name, raw)
	}
	return value, nil
}
