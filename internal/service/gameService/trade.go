package gameService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/KotFed0t/ginvest_bot/internal/ledger"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/service"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/google/uuid"
)

// journalLimit keeps the journal record bounded, the oldest entries are dropped first.
const journalLimit = 200

const (
	correctReasonFeedback   = "Trade Successful! Your virtual portfolio has been updated. You earned %d points!"
	incorrectReasonFeedback = "Trade Acknowledged. That might not be the best reason. Consider reviewing the lessons on market analysis."
)

// OpenTrade starts the dialog for ticker with a snapshot of its current price.
func (s *GameService) OpenTrade(ctx context.Context, chatID int64, ticker string, side model.Side) (intent model.TradeIntent, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.OpenTrade"

	slog.Debug("OpenTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker), slog.String("side", string(side)))
	defer func() {
		slog.Debug("OpenTrade finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
	}()

	quote, err := s.market.Quote(ctx, ticker)
	if err != nil {
		return model.TradeIntent{}, err
	}

	st, err := s.loadState(ctx, chatID)
	if err != nil {
		slog.Error("failed on loadState", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.TradeIntent{}, err
	}

	return s.machine.Open(quote, side, st.book().SharesOf(quote.Ticker))
}

// ConfirmTrade commits the intent. On a rejected commit the intent stays in RiskConfirm
// and nothing is written.
func (s *GameService) ConfirmTrade(ctx context.Context, chatID int64, intent *model.TradeIntent) (result model.TradeResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.ConfirmTrade"

	slog.Debug("ConfirmTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.Any("intent", intent))
	defer func() {
		if err != nil {
			slog.Warn("ConfirmTrade rejected", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("ConfirmTrade finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", result.Entry.ID))
		}
	}()

	err = s.machine.Confirm(intent, func(in model.TradeIntent) error {
		st, err := s.loadState(ctx, chatID)
		if err != nil {
			return err
		}

		trade := ledger.Trade{
			Ticker:      in.Ticker,
			CompanyName: in.CompanyName,
			Shares:      in.ShareCount,
			Price:       in.MarketPrice,
		}

		book, err := ledger.Apply(st.book(), in.Side, trade)
		if err != nil {
			return mapLedgerErr(err)
		}

		reason, _ := model.FindReason(in.Side, in.ReasonCode)
		points := 0
		if reason.Correct {
			points = s.cfg.CorrectReasonXP
		}
		st.progress.Points += points

		entry := model.JournalEntry{
			ID:            uuid.NewString(),
			Ticker:        in.Ticker,
			Side:          in.Side,
			Shares:        in.ShareCount,
			Price:         in.MarketPrice,
			Total:         trade.Total(),
			ReasonCode:    in.ReasonCode,
			CorrectReason: reason.Correct,
			RiskPercent:   in.RiskPercent,
			CreatedAt:     s.now().UTC(),
		}
		trades := append(st.trades, entry)
		if len(trades) > journalLimit {
			trades = trades[len(trades)-journalLimit:]
		}

		summary := ledger.Summarize(book, st.portfolio.TodaysGain, st.portfolio.TodaysGainPercent)

		batch := repository.NewBatch().
			PutHoldings(book.Holdings).
			PutPortfolio(portfolioRecord(summary)).
			PutProgress(st.progress).
			PutTrades(trades)
		if err := s.repo.Commit(ctx, chatID, batch); err != nil {
			return err
		}

		result = model.TradeResult{
			Entry:         entry,
			Summary:       summary,
			PointsEarned:  points,
			CorrectReason: reason.Correct,
		}
		return nil
	})

	return result, err
}

func mapLedgerErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return errors.Join(service.ErrInsufficientFunds, err)
	case errors.Is(err, ledger.ErrInsufficientShares):
		return errors.Join(service.ErrInsufficientShares, err)
	case errors.Is(err, ledger.ErrInvalidShares), errors.Is(err, ledger.ErrInvalidPrice):
		return errors.Join(service.ErrInvalidInput, err)
	}
	return err
}

// Feedback is the message shown after a committed trade.
func Feedback(result model.TradeResult) string {
	if result.CorrectReason {
		return fmt.Sprintf(correctReasonFeedback, result.PointsEarned)
	}
	return incorrectReasonFeedback
}
