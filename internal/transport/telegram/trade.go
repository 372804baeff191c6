package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KotFed0t/ginvest_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/ginvest_bot/internal/service"
	"github.com/KotFed0t/ginvest_bot/internal/service/gameService"
	"github.com/KotFed0t/ginvest_bot/internal/tradeDialog"
	"github.com/KotFed0t/ginvest_bot/utils"
	tele "gopkg.in/telebot.v4"
)

// OpenTrade starts the wizard, callback data is side|ticker.
func (ctrl *Controller) OpenTrade(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	args := c.Args()
	if len(args) != 2 {
		slog.Error("unexpected OpenTrade args", slog.String("rqID", rqID), slog.Any("args", args))
		respond(ctx, c, internalErrMsg, true)
		return nil
	}
	side, ticker := model.Side(args[0]), args[1]

	intent, err := ctrl.game.OpenTrade(ctx, c.Chat().ID, ticker, side)
	if err != nil {
		switch {
		case errors.Is(err, tradeDialog.ErrNothingToSell):
			respond(ctx, c, "You don't own any shares of "+ticker+".", true)
		case errors.Is(err, service.ErrNotFound):
			respond(ctx, c, "Unknown stock "+ticker+".", true)
		default:
			slog.Error("got error from game.OpenTrade", slog.String("rqID", rqID), slog.String("err", err.Error()))
			respond(ctx, c, internalErrMsg, true)
		}
		return nil
	}
	respond(ctx, c, "", false)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	chatSession.Trade = &intent
	chatSession.Action = model.DefaultAction
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.TradeStepResponse(intent, ctrl.dialog.MaxShares(intent), ""))
}

// TradeReason takes callback data id|code.
func (ctrl *Controller) TradeReason(c tele.Context) error {
	return ctrl.updateTrade(c, func(in *model.TradeIntent, args []string) error {
		if len(args) != 1 {
			return tradeDialog.ErrReasonRequired
		}
		return ctrl.dialog.SelectReason(in, args[0])
	})
}

// TradeShares handles the amount buttons, callback data is id|set|n or id|add|delta.
func (ctrl *Controller) TradeShares(c tele.Context) error {
	return ctrl.updateTrade(c, func(in *model.TradeIntent, args []string) error {
		if len(args) != 2 {
			return tradeDialog.ErrInvalidAmount
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return tradeDialog.ErrInvalidAmount
		}
		if args[0] == tgCallback.SharesAdd {
			return ctrl.dialog.AddShares(in, n)
		}
		return ctrl.dialog.SetShares(in, n)
	})
}

func (ctrl *Controller) TradeNext(c tele.Context) error {
	return ctrl.updateTrade(c, noArgs(ctrl.dialog.Next))
}

func (ctrl *Controller) TradeBack(c tele.Context) error {
	return ctrl.updateTrade(c, noArgs(ctrl.dialog.Back))
}

func (ctrl *Controller) TradeCancel(c tele.Context) error {
	return ctrl.updateTrade(c, noArgs(ctrl.dialog.Cancel))
}

func noArgs(step func(in *model.TradeIntent) error) func(*model.TradeIntent, []string) error {
	return func(in *model.TradeIntent, _ []string) error { return step(in) }
}

// ProcessShareCount takes a typed share count on the amount step.
func (ctrl *Controller) ProcessShareCount(c tele.Context) error {
	return ctrl.updateTrade(c, func(in *model.TradeIntent, _ []string) error {
		n, err := strconv.Atoi(strings.TrimSpace(c.Message().Text))
		if err != nil {
			return tradeDialog.ErrInvalidAmount
		}
		return ctrl.dialog.SetShares(in, n)
	})
}

func (ctrl *Controller) TradeConfirm(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	if _, ok := currentIntent(c, chatSession); !ok {
		respond(ctx, c, staleTradeMsg, true)
		return nil
	}

	in := chatSession.Trade
	result, err := ctrl.game.ConfirmTrade(ctx, c.Chat().ID, in)
	if err != nil {
		notice := tradeNotice(err)
		if notice == "" {
			slog.Error("got error from game.ConfirmTrade", slog.String("rqID", rqID), slog.String("err", err.Error()))
			respond(ctx, c, internalErrMsg, true)
			return nil
		}
		respond(ctx, c, notice, true)
		return ctrl.renderTrade(ctx, c, chatSession, notice)
	}
	respond(ctx, c, "", false)

	intent := *in
	chatSession.Trade = nil
	chatSession.Action = model.DefaultAction
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Edit(telebotConverter.TradeResultResponse(intent, result, gameService.Feedback(result)))
}

// currentIntent reports whether the update belongs to the session intent.
// Callback data starts with the intent id, the rest is returned as args.
// Typed text always targets the session intent.
func currentIntent(c tele.Context, chatSession model.Session) ([]string, bool) {
	if chatSession.Trade == nil {
		return nil, false
	}
	if c.Callback() == nil {
		return nil, true
	}
	args := c.Args()
	if len(args) == 0 || args[0] != chatSession.Trade.ID {
		return nil, false
	}
	return args[1:], true
}

// updateTrade applies step to the session intent and re-renders the wizard.
// Rejected steps keep the intent unchanged and are shown as a notice.
func (ctrl *Controller) updateTrade(c tele.Context, step func(in *model.TradeIntent, args []string) error) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	args, ok := currentIntent(c, chatSession)
	if !ok {
		respond(ctx, c, staleTradeMsg, true)
		if c.Callback() == nil {
			return c.Send(staleTradeMsg)
		}
		return nil
	}

	in := *chatSession.Trade
	notice := ""
	if err := step(&in, args); err != nil {
		if errors.Is(err, tradeDialog.ErrClosed) {
			chatSession.Trade = nil
			chatSession.Action = model.DefaultAction
			_ = ctrl.saveSession(ctx, c, chatSession)
			respond(ctx, c, staleTradeMsg, true)
			return nil
		}
		notice = tradeNotice(err)
		if notice == "" {
			slog.Error("unexpected trade dialog error", slog.String("rqID", rqID), slog.String("err", err.Error()))
			notice = internalErrMsg
		}
		respond(ctx, c, notice, false)
	} else {
		respond(ctx, c, "", false)
		chatSession.Trade = &in
	}

	if chatSession.Trade.Step == model.StepCancelled {
		intent := *chatSession.Trade
		chatSession.Trade = nil
		chatSession.Action = model.DefaultAction
		if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
			return c.Send(internalErrMsg)
		}
		text, _ := telebotConverter.TradeStepResponse(intent, 0, "")
		return render(c, text, &tele.ReplyMarkup{})
	}

	return ctrl.renderTrade(ctx, c, chatSession, notice)
}

func (ctrl *Controller) renderTrade(ctx context.Context, c tele.Context, chatSession model.Session, notice string) error {
	in := *chatSession.Trade

	chatSession.Action = model.DefaultAction
	if in.Step == model.StepAmount {
		chatSession.Action = model.ExpectingShareCount
	}
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	text, markup := telebotConverter.TradeStepResponse(in, ctrl.dialog.MaxShares(in), notice)
	return render(c, text, markup)
}

// render edits the message of a callback, a typed message gets a new reply.
func render(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		err := c.Edit(text, markup)
		if err != nil && notModified(err) {
			return nil
		}
		return err
	}
	return c.Send(text, markup)
}

func tradeNotice(err error) string {
	switch {
	case errors.Is(err, tradeDialog.ErrReasonRequired):
		return tradeDialog.ReasonRequiredMsg
	case errors.Is(err, tradeDialog.ErrInvalidAmount):
		msg := err.Error()
		if i := strings.LastIndex(msg, ": "); i >= 0 {
			return "Share count " + msg[i+2:] + "."
		}
		return "Please enter a whole number of shares."
	case errors.Is(err, service.ErrInsufficientFunds):
		return "Insufficient funds for this trade. Go back and choose fewer shares."
	case errors.Is(err, service.ErrInsufficientShares):
		return "Insufficient shares for this trade. Go back and choose fewer shares."
	case errors.Is(err, tradeDialog.ErrWrongStep), errors.Is(err, tradeDialog.ErrClosed):
		return staleTradeMsg
	}
	return ""
}
