package telegram

import (
	"log/slog"

	"github.com/KotFed0t/ginvest_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/utils"
	tele "gopkg.in/telebot.v4"
)

// Start registers the daily check-in, then shows onboarding or the dashboard.
func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	if _, err := ctrl.game.CheckIn(ctx, chatID); err != nil {
		slog.Error("got error from game.CheckIn", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}

	_, complete, err := ctrl.game.Onboarding(ctx, chatID)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	if !complete {
		return c.Send(telebotConverter.WelcomeResponse())
	}
	return ctrl.Dashboard(c)
}

func (ctrl *Controller) StartOnboarding(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	respond(ctx, c, "", false)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	chatSession.Onboarding = &model.OnboardingAnswers{}
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Edit(telebotConverter.GoalQuestionResponse())
}

func (ctrl *Controller) OnboardingGoal(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	goal, ok := model.FindOption(model.GoalOptions, c.Data())
	if !ok {
		respond(ctx, c, "Unknown option", false)
		return nil
	}
	respond(ctx, c, "", false)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	if chatSession.Onboarding == nil {
		chatSession.Onboarding = &model.OnboardingAnswers{}
	}
	chatSession.Onboarding.Goal = &goal
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Edit(telebotConverter.KnowledgeQuestionResponse())
}

func (ctrl *Controller) OnboardingLevel(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	knowledge, ok := model.FindOption(model.KnowledgeOptions, c.Data())
	if !ok {
		respond(ctx, c, "Unknown option", false)
		return nil
	}
	respond(ctx, c, "", false)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	// the session expired between the two questions
	if chatSession.Onboarding == nil || chatSession.Onboarding.Goal == nil {
		chatSession.Onboarding = &model.OnboardingAnswers{}
		if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
			return c.Send(internalErrMsg)
		}
		return c.Edit(telebotConverter.GoalQuestionResponse())
	}

	answers := *chatSession.Onboarding
	answers.Knowledge = &knowledge

	if err := ctrl.game.CompleteOnboarding(ctx, c.Chat().ID, answers); err != nil {
		slog.Error("got error from game.CompleteOnboarding", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	chatSession.Onboarding = nil
	chatSession.SkillLevel = knowledge.ID
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Edit(telebotConverter.OnboardingFinishedResponse(answers))
}
