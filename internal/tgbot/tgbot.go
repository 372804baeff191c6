package tgbot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/ginvest_bot/config"
	"github.com/KotFed0t/ginvest_bot/data/session"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/ginvest_bot/internal/transport/telegram"
	customMW "github.com/KotFed0t/ginvest_bot/internal/transport/telegram/middleware"
	"github.com/KotFed0t/ginvest_bot/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

var commands = []tele.Command{
	{Text: "start", Description: "Dashboard"},
	{Text: "portfolio", Description: "Your virtual portfolio"},
	{Text: "stocks", Description: "Browse stocks and trade"},
	{Text: "search", Description: "Find a stock"},
	{Text: "lesson", Description: "Personalised lesson from the AI tutor"},
	{Text: "quiz", Description: "Test your knowledge"},
	{Text: "explain", Description: "Explain an investing concept"},
	{Text: "ask", Description: "Chat with the tutor"},
	{Text: "market", Description: "Ask about market prices"},
	{Text: "progress", Description: "Level and learning progress"},
	{Text: "achievements", Description: "Your badges"},
	{Text: "leaderboard", Description: "Top investors"},
	{Text: "readiness", Description: "Investment readiness score"},
	{Text: "export", Description: "Download a portfolio report"},
	{Text: "cancel", Description: "Stop the current action"},
	{Text: "reset", Description: "Start over with a fresh portfolio"},
}

type TGBot struct {
	bot     *tele.Bot
	session Session
}

func New(cfg *config.Config, session Session) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, session: session}
}

// Bot is used by the controller to edit live cards outside of an update.
func (b *TGBot) Bot() *tele.Bot {
	return b.bot
}

func (b *TGBot) Start(ctrl *telegram.Controller) {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes(ctrl)

	if err := b.bot.SetCommands(commands); err != nil {
		slog.Warn("failed to set bot commands", slog.String("err", err.Error()))
	}

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes(ctrl *telegram.Controller) {
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		// the chat session decides which step the text belongs to
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)
		chatSession, err := b.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send("Something went wrong, please try again.")
		}

		c.Set("session", chatSession)

		switch chatSession.Action {
		case model.ExpectingShareCount:
			return ctrl.ProcessShareCount(c)
		case model.ExpectingLearningGoal:
			return ctrl.ProcessLearningGoal(c)
		case model.ExpectingQuizTopic:
			return ctrl.ProcessQuizTopic(c)
		case model.ExpectingConcept:
			return ctrl.ProcessConcept(c)
		case model.ExpectingTutorQuestion:
			return ctrl.ProcessTutorQuestion(c)
		case model.ExpectingMarketMessage:
			return ctrl.ProcessMarketMessage(c)
		case model.ExpectingSearchQuery:
			return ctrl.ProcessSearchQuery(c)
		default:
			slog.Debug("text without pending action", slog.String("rqID", rqID), slog.Any("action", chatSession.Action))
			return ctrl.UnknownInput(c)
		}
	})

	b.bot.Handle("/start", ctrl.Start)
	b.bot.Handle("/dashboard", ctrl.Dashboard)
	b.bot.Handle("/portfolio", ctrl.Portfolio)
	b.bot.Handle("/holdings", ctrl.Holdings)
	b.bot.Handle("/stocks", ctrl.Stocks)
	b.bot.Handle("/search", ctrl.Search)
	b.bot.Handle("/lesson", ctrl.Lesson)
	b.bot.Handle("/quiz", ctrl.Quiz)
	b.bot.Handle("/explain", ctrl.Explain)
	b.bot.Handle("/ask", ctrl.Ask)
	b.bot.Handle("/market", ctrl.Market)
	b.bot.Handle("/progress", ctrl.Progress)
	b.bot.Handle("/achievements", ctrl.Achievements)
	b.bot.Handle("/leaderboard", ctrl.Leaderboard)
	b.bot.Handle("/readiness", ctrl.Readiness)
	b.bot.Handle("/export", ctrl.Export)
	b.bot.Handle("/cancel", ctrl.Cancel)
	b.bot.Handle("/reset", ctrl.Reset)

	callbacks := map[string]tele.HandlerFunc{
		tgCallback.StartOnboarding: ctrl.StartOnboarding,
		tgCallback.OnboardingGoal:  ctrl.OnboardingGoal,
		tgCallback.OnboardingLevel: ctrl.OnboardingLevel,
		tgCallback.OpenTrade:       ctrl.OpenTrade,
		tgCallback.TradeReason:     ctrl.TradeReason,
		tgCallback.TradeShares:     ctrl.TradeShares,
		tgCallback.TradeNext:       ctrl.TradeNext,
		tgCallback.TradeBack:       ctrl.TradeBack,
		tgCallback.TradeCancel:     ctrl.TradeCancel,
		tgCallback.TradeConfirm:    ctrl.TradeConfirm,
		tgCallback.QuizAnswer:      ctrl.QuizAnswer,
		tgCallback.RefreshCard:     ctrl.RefreshCard,
		tgCallback.ShowStocks:      ctrl.Stocks,
		tgCallback.ShowHoldings:    ctrl.Holdings,
		tgCallback.ExportReport:    ctrl.Export,
		tgCallback.LessonLevel:     ctrl.LessonLevel,
	}
	for unique, handler := range callbacks {
		b.bot.Handle(&tele.Btn{Unique: unique}, handler)
	}
}
