package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/xuri/excelize/v2"
)

const (
	SheetPortfolio = "Portfolio"
	SheetHoldings  = "Holdings"
	SheetTrades    = "Trades"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	fillers := []struct {
		sheet string
		fill  func(f *excelize.File, sheet string, report model.PortfolioReport) error
	}{
		{SheetPortfolio, fillPortfolio},
		{SheetHoldings, fillHoldings},
		{SheetTrades, fillTrades},
	}

	for _, filler := range fillers {
		if _, err := f.NewSheet(filler.sheet); err != nil {
			slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
		if err := filler.fill(f, filler.sheet, report); err != nil {
			slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("sheet", filler.sheet), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	// default sheet of a new file
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

// header writes a merged, coloured title in row 1 and column names in row 2.
func header(f *excelize.File, sheet, title, color string, columns []string) error {
	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}

	if len(columns) > 1 {
		if err := f.MergeCell(sheet, "A1", last+"1"); err != nil {
			return err
		}
	}
	_ = f.SetCellStr(sheet, "A1", title)

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	for i, name := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		_ = f.SetCellStr(sheet, cell, name)
	}
	return nil
}

func fillPortfolio(f *excelize.File, sheet string, report model.PortfolioReport) error {
	if err := header(f, sheet, "Portfolio summary", "#cfe2f3", []string{"metric", "value"}); err != nil {
		return err
	}

	summary := report.View.Summary
	rows := []struct {
		name  string
		value any
	}{
		{"Cash balance", summary.CashBalance.InexactFloat64()},
		{"Invested value", summary.InvestedValue.InexactFloat64()},
		{"Total value", summary.TotalValue.InexactFloat64()},
		{"Day gain", summary.DayGain.InexactFloat64()},
		{"Day gain %", summary.DayGainPercent.InexactFloat64()},
		{"Holdings", summary.HoldingsCount},
		{"Points", report.Progress.Points},
		{"Level", report.Level.Level},
		{"Generated at", report.GeneratedAt},
	}

	for i, row := range rows {
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", i+3), row.name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+3), row.value)
	}
	return nil
}

func fillHoldings(f *excelize.File, sheet string, report model.PortfolioReport) error {
	columns := []string{"ticker", "company", "shares", "avg price", "market price", "value", "P/L"}
	if err := header(f, sheet, "Holdings", "#d9ead3", columns); err != nil {
		return err
	}

	for i, h := range report.View.Holdings {
		row := i + 3
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), h.Ticker)
		_ = f.SetCellStr(sheet, fmt.Sprintf("B%d", row), h.CompanyName)
		_ = f.SetCellInt(sheet, fmt.Sprintf("C%d", row), int64(h.Shares))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), h.AveragePurchasePrice.Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), h.MarketPrice.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), h.MarketValue().Round(2).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), h.MarketValue().Sub(h.CostBasis()).Round(2).InexactFloat64())
	}
	return nil
}

func fillTrades(f *excelize.File, sheet string, report model.PortfolioReport) error {
	columns := []string{"date", "ticker", "side", "shares", "price", "total", "reason", "good reason", "risk %"}
	if err := header(f, sheet, "Trade journal", "#cccccc", columns); err != nil {
		return err
	}

	for i, t := range report.Trades {
		row := i + 3
		label := t.ReasonCode
		if reason, ok := model.FindReason(t.Side, t.ReasonCode); ok {
			label = reason.Label
		}

		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.CreatedAt)
		_ = f.SetCellStr(sheet, fmt.Sprintf("B%d", row), t.Ticker)
		_ = f.SetCellStr(sheet, fmt.Sprintf("C%d", row), string(t.Side))
		_ = f.SetCellInt(sheet, fmt.Sprintf("D%d", row), int64(t.Shares))
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), t.Price.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), t.Total.InexactFloat64())
		_ = f.SetCellStr(sheet, fmt.Sprintf("G%d", row), label)
		_ = f.SetCellBool(sheet, fmt.Sprintf("H%d", row), t.CorrectReason)
		_ = f.SetCellInt(sheet, fmt.Sprintf("I%d", row), int64(t.RiskPercent))
	}
	return nil
}
