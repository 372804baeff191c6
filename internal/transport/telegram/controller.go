package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/ginvest_bot/data/session"
	"github.com/KotFed0t/ginvest_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/KotFed0t/ginvest_bot/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg  = "Something went wrong, please try again."
	unknownInputMsg = "Please use one of the commands, for example /portfolio or /stocks."
	staleTradeMsg   = "This trade is no longer active."
	staleQuizMsg    = "This quiz is no longer active."
	messageLimit    = 4000
)

type GameService interface {
	Portfolio(ctx context.Context, chatID int64) (model.PortfolioView, error)
	OpenTrade(ctx context.Context, chatID int64, ticker string, side model.Side) (model.TradeIntent, error)
	ConfirmTrade(ctx context.Context, chatID int64, intent *model.TradeIntent) (model.TradeResult, error)
	Onboarding(ctx context.Context, chatID int64) (model.OnboardingAnswers, bool, error)
	CompleteOnboarding(ctx context.Context, chatID int64, answers model.OnboardingAnswers) error
	FinancialGoal(ctx context.Context, chatID int64) string
	Progress(ctx context.Context, chatID int64) (model.Progress, error)
	Level(ctx context.Context, chatID int64) (model.LevelProgress, error)
	Readiness() model.Readiness
	Leaderboard(ctx context.Context, chatID int64) ([]model.LeaderboardRow, error)
	Achievements(ctx context.Context, chatID int64) ([]model.Achievement, error)
	CheckIn(ctx context.Context, chatID int64) (model.Progress, error)
	RecordTutorial(ctx context.Context, chatID int64, skillLevel string) error
	GradeQuiz(ctx context.Context, chatID int64, quiz model.QuizState) (model.QuizResult, error)
	Export(ctx context.Context, chatID int64) (model.ExportFile, error)
	ResetProfile(ctx context.Context, chatID int64) error
}

type AIFlows interface {
	Tutor(ctx context.Context, in aiModel.TutorInput) (aiModel.TutorOutput, error)
	Quiz(ctx context.Context, in aiModel.QuizInput) (aiModel.QuizOutput, error)
	ConceptSearch(ctx context.Context, in aiModel.ConceptSearchInput) (aiModel.ConceptSearchOutput, error)
	TutorChat(ctx context.Context, in aiModel.TutorChatInput) (aiModel.TutorChatOutput, error)
	MarketChat(ctx context.Context, in aiModel.MarketChatInput) (aiModel.MarketChatOutput, error)
	StockSearch(ctx context.Context, in aiModel.StockSearchInput) (aiModel.StockSearchOutput, error)
}

type Market interface {
	List(ctx context.Context) []model.Quote
}

type TradeDialog interface {
	MaxShares(in model.TradeIntent) int
	SelectReason(in *model.TradeIntent, code string) error
	SetShares(in *model.TradeIntent, shares int) error
	AddShares(in *model.TradeIntent, delta int) error
	Next(in *model.TradeIntent) error
	Back(in *model.TradeIntent) error
	Cancel(in *model.TradeIntent) error
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

// Editor edits messages outside of an update, used for the live portfolio card.
type Editor interface {
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Controller struct {
	game    GameService
	flows   AIFlows
	market  Market
	dialog  TradeDialog
	session Session
	editor  Editor
}

func NewController(game GameService, flows AIFlows, market Market, dialog TradeDialog, session Session, editor Editor) *Controller {
	return &Controller{
		game:    game,
		flows:   flows,
		market:  market,
		dialog:  dialog,
		session: session,
		editor:  editor,
	}
}

func sessionKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// getSession prefers the session put into the context by the text router.
func (ctrl *Controller) getSession(ctx context.Context, c tele.Context) (model.Session, error) {
	if chatSession, ok := c.Get("session").(model.Session); ok {
		return chatSession, nil
	}
	return ctrl.loadSession(ctx, c.Chat().ID)
}

func (ctrl *Controller) loadSession(ctx context.Context, chatID int64) (model.Session, error) {
	chatSession, err := ctrl.session.GetSession(ctx, sessionKey(chatID))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return model.Session{}, nil
		}
		slog.Error("got error from session.GetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return model.Session{}, err
	}
	return chatSession, nil
}

func (ctrl *Controller) saveSession(ctx context.Context, c tele.Context, chatSession model.Session) error {
	err := ctrl.session.SetSession(ctx, sessionKey(c.Chat().ID), chatSession)
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return err
	}
	c.Set("session", chatSession)
	return nil
}

// sendLong splits text over several messages, the markup goes with the last one.
func sendLong(c tele.Context, text string, opts ...interface{}) error {
	parts := telebotConverter.SplitText(text, messageLimit)
	for i, part := range parts {
		if i == len(parts)-1 {
			return c.Send(part, opts...)
		}
		if err := c.Send(part); err != nil {
			return err
		}
	}
	return nil
}

// respond answers a callback query, errors are only logged.
func respond(ctx context.Context, c tele.Context, text string, alert bool) {
	if c.Callback() == nil {
		return
	}
	err := c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: alert})
	if err != nil {
		slog.Warn("failed to respond to callback", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
}

func (ctrl *Controller) Cancel(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	chatSession.Action = model.DefaultAction
	chatSession.Trade = nil
	chatSession.Quiz = nil
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Cancelled. What would you like to do next?")
}

func (ctrl *Controller) Reset(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	if err := ctrl.game.ResetProfile(ctx, c.Chat().ID); err != nil {
		return c.Send(internalErrMsg)
	}
	if err := ctrl.saveSession(ctx, c, model.Session{}); err != nil {
		return c.Send(internalErrMsg)
	}

	text, markup := telebotConverter.WelcomeResponse()
	return c.Send("Your progress was reset.\n\n"+text, markup)
}

func (ctrl *Controller) UnknownInput(c tele.Context) error {
	return c.Send(unknownInputMsg)
}
