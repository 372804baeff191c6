package telebotConverter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/tg/tgCallback"
	tele "gopkg.in/telebot.v4"
)

func PortfolioCard(view model.PortfolioView) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder
	s := view.Summary

	sb.WriteString("📊 Your virtual portfolio\n\n")
	sb.WriteString(fmt.Sprintf("💼 Total value: %s\n", Money(s.TotalValue)))
	sb.WriteString(fmt.Sprintf("📈 Invested: %s\n", Money(s.InvestedValue)))
	sb.WriteString(fmt.Sprintf("💵 Cash balance: %s\n", Money(s.CashBalance)))
	sb.WriteString(fmt.Sprintf("%s Today: %s (%s)\n", trend(s.DayGain), Money(s.DayGain), Percent(s.DayGainPercent)))
	sb.WriteString(fmt.Sprintf("🧾 Positions: %d", s.HoldingsCount))

	markup.Inline(
		markup.Row(
			markup.Data("🛒 Stocks", tgCallback.ShowStocks),
			markup.Data("📋 Holdings", tgCallback.ShowHoldings),
		),
		markup.Row(
			markup.Data("🔄 Refresh", tgCallback.RefreshCard),
			markup.Data("📤 Export", tgCallback.ExportReport),
		),
	)

	return sb.String(), markup
}

func HoldingsResponse(holdings []model.Holding) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	if len(holdings) == 0 {
		markup.Inline(markup.Row(markup.Data("🛒 Browse stocks", tgCallback.ShowStocks)))
		return "You don't hold any stocks yet.", markup
	}

	var sb strings.Builder
	sb.WriteString("📋 Holdings\n\n")

	rows := make([]tele.Row, 0, len(holdings))
	for i, h := range holdings {
		pl := h.MarketValue().Sub(h.CostBasis())
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, h.Ticker, h.CompanyName))
		sb.WriteString(fmt.Sprintf("   ▸ Shares: %d\n", h.Shares))
		sb.WriteString(fmt.Sprintf("   ▸ Avg price: %s\n", Money(h.AveragePurchasePrice)))
		sb.WriteString(fmt.Sprintf("   ▸ Market price: %s\n", Money(h.MarketPrice)))
		sb.WriteString(fmt.Sprintf("   ▸ Value: %s (%s %s)\n\n", Money(h.MarketValue()), trend(pl), Money(pl)))

		rows = append(rows, markup.Row(
			markup.Data("Buy "+h.Ticker, tgCallback.OpenTrade, string(model.Buy), h.Ticker),
			markup.Data("Sell "+h.Ticker, tgCallback.OpenTrade, string(model.Sell), h.Ticker),
		))
	}

	markup.Inline(rows...)
	return strings.TrimSpace(sb.String()), markup
}

// QuotesResponse lists stocks with trade buttons.
func QuotesResponse(title string, quotes []model.Quote) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	if len(quotes) == 0 {
		return "No stocks found.", markup
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")

	rows := make([]tele.Row, 0, len(quotes))
	for _, q := range quotes {
		sb.WriteString(fmt.Sprintf("%s %s · %s\n   %s (%s)\n", trend(q.ChangePercent), q.Ticker, q.Name, Money(q.Price), Percent(q.ChangePercent)))
		rows = append(rows, markup.Row(
			markup.Data("Buy "+q.Ticker, tgCallback.OpenTrade, string(model.Buy), q.Ticker),
			markup.Data("Sell "+q.Ticker, tgCallback.OpenTrade, string(model.Sell), q.Ticker),
		))
	}

	markup.Inline(rows...)
	return strings.TrimSpace(sb.String()), markup
}

func sideTitle(side model.Side) string {
	if side == model.Sell {
		return "Sell"
	}
	return "Buy"
}

// TradeStepResponse renders the wizard for the current step. notice is shown above the step, if any.
func TradeStepResponse(in model.TradeIntent, maxShares int, notice string) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s (%s) at %s\n", sideTitle(in.Side), in.Ticker, in.CompanyName, Money(in.MarketPrice)))
	if in.Side == model.Sell {
		sb.WriteString(fmt.Sprintf("You hold %d shares.\n", in.Available))
	}
	sb.WriteString("\n")
	if notice != "" {
		sb.WriteString("⚠️ " + notice + "\n\n")
	}

	// every wizard button carries the intent id first
	cancel := markup.Data("✖️ Cancel", tgCallback.TradeCancel, in.ID)
	back := markup.Data("⬅️ Back", tgCallback.TradeBack, in.ID)
	next := markup.Data("Next ➡️", tgCallback.TradeNext, in.ID)

	switch in.Step {
	case model.StepReason:
		sb.WriteString("Step 1 of 3. Why do you want to make this trade?")
		rows := make([]tele.Row, 0, len(model.Reasons(in.Side))+1)
		for _, r := range model.Reasons(in.Side) {
			label := r.Label
			if r.Code == in.ReasonCode {
				label = "✅ " + label
			}
			rows = append(rows, markup.Row(markup.Data(label, tgCallback.TradeReason, in.ID, r.Code)))
		}
		rows = append(rows, markup.Row(cancel, next))
		markup.Inline(rows...)

	case model.StepAmount:
		sb.WriteString(fmt.Sprintf("Step 2 of 3. How many shares? (1-%d)\n", maxShares))
		sb.WriteString(fmt.Sprintf("Selected: %d shares, about %s\n", in.ShareCount, Money(in.EstimatedTotal())))
		sb.WriteString("Use the buttons or type a number.")
		markup.Inline(
			markup.Row(
				markup.Data("-10", tgCallback.TradeShares, in.ID, tgCallback.SharesAdd, "-10"),
				markup.Data("-1", tgCallback.TradeShares, in.ID, tgCallback.SharesAdd, "-1"),
				markup.Data("+1", tgCallback.TradeShares, in.ID, tgCallback.SharesAdd, "1"),
				markup.Data("+10", tgCallback.TradeShares, in.ID, tgCallback.SharesAdd, "10"),
			),
			markup.Row(
				markup.Data("Min", tgCallback.TradeShares, in.ID, tgCallback.SharesSet, "1"),
				markup.Data("Max", tgCallback.TradeShares, in.ID, tgCallback.SharesSet, strconv.Itoa(maxShares)),
			),
			markup.Row(back, cancel, next),
		)

	case model.StepRiskConfirm:
		verb := "Estimated cost"
		if in.Side == model.Sell {
			verb = "Estimated credit"
		}
		reason, _ := model.FindReason(in.Side, in.ReasonCode)
		sb.WriteString("Step 3 of 3. Review your trade\n\n")
		sb.WriteString(fmt.Sprintf("Shares: %d\n", in.ShareCount))
		sb.WriteString(fmt.Sprintf("%s: %s\n", verb, Money(in.EstimatedTotal())))
		sb.WriteString(fmt.Sprintf("Reason: %s\n", reason.Label))
		sb.WriteString(fmt.Sprintf("Risk: %d%% (illustrative)", in.RiskPercent))
		markup.Inline(markup.Row(back, cancel, markup.Data("✅ Confirm", tgCallback.TradeConfirm, in.ID)))

	case model.StepCommitted:
		sb.WriteString("Trade completed.")
	case model.StepCancelled:
		sb.WriteString("Trade cancelled.")
	}

	return sb.String(), markup
}

func TradeResultResponse(in model.TradeIntent, result model.TradeResult, feedback string) string {
	var sb strings.Builder
	icon := "🎉"
	if !result.CorrectReason {
		icon = "🤔"
	}
	sb.WriteString(fmt.Sprintf("%s %s\n\n", icon, feedback))
	sb.WriteString(fmt.Sprintf("%s %d %s at %s, total %s\n", sideTitle(in.Side), result.Entry.Shares, in.Ticker, Money(result.Entry.Price), Money(result.Entry.Total)))
	sb.WriteString(fmt.Sprintf("Cash balance: %s\n", Money(result.Summary.CashBalance)))
	sb.WriteString(fmt.Sprintf("Total value: %s", Money(result.Summary.TotalValue)))
	return sb.String()
}
