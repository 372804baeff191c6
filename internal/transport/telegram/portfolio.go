package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/ginvest_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/utils"
	tele "gopkg.in/telebot.v4"
)

// Portfolio sends the portfolio card and remembers it as the live card of the chat.
func (ctrl *Controller) Portfolio(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	view, err := ctrl.game.Portfolio(ctx, c.Chat().ID)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	text, markup := telebotConverter.PortfolioCard(view)
	msg, err := c.Bot().Send(c.Chat(), text, markup)
	if err != nil {
		return err
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return nil
	}
	chatSession.LiveCard = &model.LiveCard{MessageID: strconv.Itoa(msg.ID), ChatID: c.Chat().ID}
	_ = ctrl.saveSession(ctx, c, chatSession)
	return nil
}

func (ctrl *Controller) RefreshCard(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	view, err := ctrl.game.Portfolio(ctx, c.Chat().ID)
	if err != nil {
		respond(ctx, c, internalErrMsg, true)
		return nil
	}
	respond(ctx, c, "Updated", false)

	err = c.Edit(telebotConverter.PortfolioCard(view))
	if err != nil && !notModified(err) {
		return err
	}
	return nil
}

// OnPortfolioChanged is a repository observer, it keeps the live card in sync with committed state.
func (ctrl *Controller) OnPortfolioChanged(ctx context.Context, chatID int64) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.loadSession(ctx, chatID)
	if err != nil || chatSession.LiveCard == nil {
		return
	}

	view, err := ctrl.game.Portfolio(ctx, chatID)
	if err != nil {
		return
	}

	text, markup := telebotConverter.PortfolioCard(view)
	card := tele.StoredMessage{MessageID: chatSession.LiveCard.MessageID, ChatID: chatSession.LiveCard.ChatID}
	if _, err := ctrl.editor.Edit(card, text, markup); err != nil && !notModified(err) {
		slog.Warn("failed to update live card", slog.String("rqID", rqID), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
	}
}

func notModified(err error) bool {
	return errors.Is(err, tele.ErrMessageNotModified) || errors.Is(err, tele.ErrSameMessageContent)
}

func (ctrl *Controller) Holdings(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	respond(ctx, c, "", false)

	view, err := ctrl.game.Portfolio(ctx, c.Chat().ID)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.HoldingsResponse(view.Holdings))
}

func (ctrl *Controller) Stocks(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	respond(ctx, c, "", false)

	return c.Send(telebotConverter.QuotesResponse("🛒 Available stocks", ctrl.market.List(ctx)))
}

// Export sends a download link, or the file itself when it was not uploaded.
func (ctrl *Controller) Export(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	respond(ctx, c, "Preparing your report...", false)
	_ = c.Notify(tele.UploadingDocument)

	file, err := ctrl.game.Export(ctx, c.Chat().ID)
	if err != nil {
		slog.Error("got error from game.Export", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	if file.Link != "" {
		return c.Send("📤 Your report is ready: " + file.Link)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(file.Bytes)),
		FileName: file.Name,
		Caption:  "📤 Your portfolio report",
	}
	return c.Send(doc)
}
