package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/heliosquant/helios/internal/backtest"
)

const (
	summarySheet = "Summary"
	tradesSheet  = "Trades"
	equitySheet  = "Equity"
)

// ExcelReporter writes a backtest result as a multi-sheet workbook.
type ExcelReporter struct{}

// NewExcelReporter returns an Excel report writer.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// Write saves the result to path with Summary, Trades, and Equity sheets.
func (r *ExcelReporter) Write(res *backtest.Result, path string) error {
	fx := excelize.NewFile()
	defer fx.Close()

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := r.writeSummary(fx, res, headerStyle); err != nil {
		return err
	}
	if err := r.writeTrades(fx, res, headerStyle); err != nil {
		return err
	}
	if err := r.writeEquity(fx, res, headerStyle); err != nil {
		return err
	}

	fx.DeleteSheet("Sheet1")
	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report to %s: %w", path, err)
	}
	return nil
}

func (r *ExcelReporter) writeSummary(fx *excelize.File, res *backtest.Result, headerStyle int) error {
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	profitFactor := fmt.Sprintf("%.4f", res.ProfitFactor)
	if res.ProfitFactorCapped {
		profitFactor = "unbounded (no losing trades)"
	}

	rows := [][]interface{}{
		{"Symbol", res.Symbol},
		{"Interval", res.Interval},
		{"Start", res.StartTime.Format("2006-01-02 15:04")},
		{"End", res.EndTime.Format("2006-01-02 15:04")},
		{"Initial Balance", res.InitialBalance},
		{"Final Balance", res.FinalBalance},
		{"Profit/Loss", res.ProfitLoss},
		{"Profit/Loss %", res.ProfitLossPct},
		{"Max Drawdown %", res.MaxDrawdown},
		{"Total Operations", res.TotalOperations},
		{"Completed Trades", res.CompletedTrades},
		{"Winning Trades", res.WinningTrades},
		{"Losing Trades", res.LosingTrades},
		{"Win Rate %", res.WinRate},
		{"Average Win", res.AverageWin},
		{"Average Loss", res.AverageLoss},
		{"Profit Factor", profitFactor},
		{"Stop-Loss Exits", res.Exits.StopLoss},
		{"Take-Profit Exits", res.Exits.TakeProfit},
		{"Trailing Exits", res.Exits.Trailing},
		{"Signal Exits", res.Exits.Signal},
		{"Bullish Candles", res.Regimes.Bullish},
		{"Bearish Candles", res.Regimes.Bearish},
		{"Sideways Candles", res.Regimes.Sideways},
		{"Forced Exit", res.ForcedExit},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := fx.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := fx.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return err
	}
	return fx.SetColWidth(summarySheet, "A", "B", 24)
}

func (r *ExcelReporter) writeTrades(fx *excelize.File, res *backtest.Result, headerStyle int) error {
	if _, err := fx.NewSheet(tradesSheet); err != nil {
		return err
	}

	header := []interface{}{"#", "Entry Time", "Exit Time", "Entry Price", "Exit Price",
		"Quantity", "Commission", "P/L", "P/L %", "Exit Reason", "Forced"}
	if err := fx.SetSheetRow(tradesSheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(tradesSheet, "A1", "K1", headerStyle); err != nil {
		return err
	}

	for i, tr := range res.Trades {
		exitTime := ""
		if tr.Closed {
			exitTime = tr.ExitTime.Format("2006-01-02 15:04:05")
		}
		row := []interface{}{
			i + 1,
			tr.EntryTime.Format("2006-01-02 15:04:05"),
			exitTime,
			tr.EntryPrice,
			tr.ExitPrice,
			tr.Quantity,
			tr.Commission,
			tr.PnL,
			tr.PnLPct,
			string(tr.ExitReason),
			tr.ForcedExit,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(tradesSheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetColWidth(tradesSheet, "B", "C", 20)
}

func (r *ExcelReporter) writeEquity(fx *excelize.File, res *backtest.Result, headerStyle int) error {
	if _, err := fx.NewSheet(equitySheet); err != nil {
		return err
	}

	header := []interface{}{"Timestamp", "Equity"}
	if err := fx.SetSheetRow(equitySheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(equitySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	for i, p := range res.EquityCurve {
		row := []interface{}{p.Timestamp.Format("2006-01-02 15:04:05"), p.Equity}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(equitySheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetColWidth(equitySheet, "A", "A", 20)
}
