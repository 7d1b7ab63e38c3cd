package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/heliosquant/helios/internal/backtest"
)

// ConsoleReporter renders backtest results as terminal tables.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter writes to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo writes to an arbitrary writer, mainly for tests.
func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Report prints the summary table followed by the trade list.
func (r *ConsoleReporter) Report(res *backtest.Result) {
	r.printSummary(res)
	r.printTrades(res)
}

func (r *ConsoleReporter) printSummary(res *backtest.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("BACKTEST RESULTS: %s %s", res.Symbol, res.Interval)
	t.SetStyle(table.StyleRounded)

	profitFactor := fmt.Sprintf("%.2f", res.ProfitFactor)
	if res.ProfitFactorCapped {
		profitFactor = "∞ (no losing trades)"
	}

	t.AppendRows([]table.Row{
		{"💰 Initial Balance", fmt.Sprintf("$%.2f", res.InitialBalance)},
		{"💰 Final Balance", fmt.Sprintf("$%.2f", res.FinalBalance)},
		{"📈 Profit/Loss", fmt.Sprintf("$%.2f (%.2f%%)", res.ProfitLoss, res.ProfitLossPct)},
		{"📉 Max Drawdown", fmt.Sprintf("%.2f%%", res.MaxDrawdown)},
		{"💹 Profit Factor", profitFactor},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🔄 Operations", res.TotalOperations},
		{"🔁 Completed Trades", res.CompletedTrades},
		{"✅ Winning Trades", fmt.Sprintf("%d (%.1f%%)", res.WinningTrades, res.WinRate)},
		{"❌ Losing Trades", res.LosingTrades},
		{"📊 Avg Win / Loss", fmt.Sprintf("$%.2f / $%.2f", res.AverageWin, res.AverageLoss)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🛑 Stop-Loss Exits", res.Exits.StopLoss},
		{"🎯 Take-Profit Exits", res.Exits.TakeProfit},
		{"📐 Trailing Exits", res.Exits.Trailing},
		{"📊 Signal Exits", res.Exits.Signal},
		{"🌊 Regimes (B/S/Be)", fmt.Sprintf("%d / %d / %d", res.Regimes.Bullish, res.Regimes.Sideways, res.Regimes.Bearish)},
	})
	if res.ForcedExit {
		t.AppendSeparator()
		t.AppendRow(table.Row{"⚠️ Forced Exit", "open position closed at end of data"})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 28, Align: text.AlignLeft},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

func (r *ConsoleReporter) printTrades(res *backtest.Result) {
	if len(res.Trades) == 0 {
		fmt.Fprintln(r.out, "No trades executed.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Entry", "Exit", "Entry $", "Exit $", "P/L $", "P/L %", "Exit Reason"})

	for i, tr := range res.Trades {
		exitTime := "-"
		if tr.Closed {
			exitTime = tr.ExitTime.Format("2006-01-02 15:04")
		}
		t.AppendRow(table.Row{
			i + 1,
			tr.EntryTime.Format("2006-01-02 15:04"),
			exitTime,
			fmt.Sprintf("%.4f", tr.EntryPrice),
			fmt.Sprintf("%.4f", tr.ExitPrice),
			fmt.Sprintf("%.2f", tr.PnL),
			fmt.Sprintf("%.2f", tr.PnLPct),
			string(tr.ExitReason),
		})
	}
	t.Render()
	fmt.Fprintln(r.out)
}
