package main

import (
	"fmt"
	"io"

	"forexradar/internal/calculator"
	"forexradar/internal/models"
	"forexradar/internal/server"
	"github.com/spf13/cobra"
)

type calcOptions struct {
	balance     float64
	riskPercent float64
	entry       float64
	stopLoss    float64
	closePrice  float64
	side        string
}

func newCalcCmd() *cobra.Command {
	opts := &calcOptions{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute position size and result for a single trade",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := server.ValidateBalance(opts.balance); err != nil {
				return err
			}
			if err := server.ValidateRiskPercent(opts.riskPercent); err != nil {
				return err
			}
			side := models.ParseSide(opts.side)
			if !side.Valid() {
				return fmt.Errorf("unknown side %q, want buy or sell", opts.side)
			}
			return runCalc(cmd.OutOrStdout(), opts, side, cmd.Flags().Changed("close"))
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.balance, "balance", models.DefaultBalance, "account balance in USD")
	f.Float64Var(&opts.riskPercent, "risk", models.DefaultRiskPercent*100, "risk per trade in percent")
	f.Float64Var(&opts.entry, "entry", 0, "entry price")
	f.Float64Var(&opts.stopLoss, "sl", 0, "stop loss price")
	f.Float64Var(&opts.closePrice, "close", 0, "close price, omit for a running trade")
	f.StringVar(&opts.side, "side", string(models.SideBuy), "buy or sell")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("sl")
	return cmd
}

func runCalc(w io.Writer, opts *calcOptions, side models.Side, closed bool) error {
	settings := models.Settings{Balance: opts.balance, RiskPercent: opts.riskPercent / 100}
	t := models.Trade{
		Ticket:     "cli",
		Side:       side,
		EntryPrice: opts.entry,
		StopLoss:   opts.stopLoss,
	}
	if closed {
		t.ClosePrice = &opts.closePrice
	}

	lot := calculator.LotForTrade(t, settings)
	fmt.Fprintf(w, "Risk amount:    $%.2f\n", calculator.RiskAmount(settings.Balance, settings.RiskPercent))
	fmt.Fprintf(w, "SL pips:        %.1f\n", calculator.SlPips(t.EntryPrice, t.StopLoss))
	fmt.Fprintf(w, "Pip value/lot:  $%.2f\n", calculator.PipValuePerLot(t.EntryPrice))
	fmt.Fprintf(w, "Lot size:       %.2f\n", lot)
	if !closed {
		return nil
	}

	profit, err := calculator.TradeProfit(t, settings)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Result pips:    %.1f\n", calculator.ResultPips(t.EntryPrice, opts.closePrice, string(side)))
	fmt.Fprintf(w, "Profit/loss:    $%.2f\n", profit)
	return nil
}
