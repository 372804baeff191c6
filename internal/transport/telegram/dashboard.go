package telegram

import (
	"log/slog"

	"github.com/KotFed0t/ginvest_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/ginvest_bot/utils"
	tele "gopkg.in/telebot.v4"
)

func (ctrl *Controller) Dashboard(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	view, err := ctrl.game.Portfolio(ctx, chatID)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	level, err := ctrl.game.Level(ctx, chatID)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	progress, err := ctrl.game.Progress(ctx, chatID)
	if err != nil {
		slog.Error("got error from game.Progress", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.DashboardResponse(telebotConverter.Dashboard{
		View:      view,
		Goal:      ctrl.game.FinancialGoal(ctx, chatID),
		Level:     level,
		Readiness: ctrl.game.Readiness(),
		Progress:  progress,
	}))
}

func (ctrl *Controller) Achievements(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	achievements, err := ctrl.game.Achievements(ctx, c.Chat().ID)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.AchievementsResponse(achievements))
}

func (ctrl *Controller) Leaderboard(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	rows, err := ctrl.game.Leaderboard(ctx, c.Chat().ID)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.LeaderboardResponse(rows))
}

func (ctrl *Controller) Readiness(c tele.Context) error {
	return c.Send(telebotConverter.ReadinessResponse(ctrl.game.Readiness()))
}

func (ctrl *Controller) Progress(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatID := c.Chat().ID

	level, err := ctrl.game.Level(ctx, chatID)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	progress, err := ctrl.game.Progress(ctx, chatID)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.ProgressResponse(level, progress))
}
