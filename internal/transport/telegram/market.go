package telegram

import (
	"github.com/KotFed0t/ginvest_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/KotFed0t/ginvest_bot/utils"
	tele "gopkg.in/telebot.v4"
)

// Market opens a market chat with live prices, it lasts until /cancel.
func (ctrl *Controller) Market(c tele.Context) error {
	chat := func(c tele.Context, message string) error {
		if err := ctrl.setAction(c, model.ExpectingMarketMessage); err != nil {
			return c.Send(internalErrMsg)
		}
		return ctrl.marketChat(c, message)
	}
	return ctrl.awaitInput(c, model.ExpectingMarketMessage, "📈 Ask me about the market, for example \"what is the price of AAPL?\". Send /cancel to finish.", chat)
}

func (ctrl *Controller) ProcessMarketMessage(c tele.Context) error {
	return ctrl.marketChat(c, c.Text())
}

func (ctrl *Controller) marketChat(c tele.Context, message string) error {
	ctx := utils.CreateCtxWithRqID(c)

	_ = c.Notify(tele.Typing)
	out, err := ctrl.flows.MarketChat(ctx, aiModel.MarketChatInput{Message: message})
	if err != nil {
		return c.Send(aiModel.UserMessage(err))
	}
	return sendLong(c, out.Answer)
}

func (ctrl *Controller) Search(c tele.Context) error {
	return ctrl.awaitInput(c, model.ExpectingSearchQuery, "🔎 Type a ticker or company name.", ctrl.search)
}

func (ctrl *Controller) ProcessSearchQuery(c tele.Context) error {
	if _, err := ctrl.finishInput(c); err != nil {
		return c.Send(internalErrMsg)
	}
	return ctrl.search(c, c.Text())
}

func (ctrl *Controller) search(c tele.Context, query string) error {
	ctx := utils.CreateCtxWithRqID(c)

	out, err := ctrl.flows.StockSearch(ctx, aiModel.StockSearchInput{Query: query})
	if err != nil {
		return c.Send(aiModel.UserMessage(err))
	}
	return c.Send(telebotConverter.SearchResponse(out))
}
