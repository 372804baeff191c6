package gameService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/service"
	"github.com/KotFed0t/ginvest_bot/utils"
)

const goalNotSet = "Not set"

func (s *GameService) Onboarding(ctx context.Context, chatID int64) (model.OnboardingAnswers, bool, error) {
	answers, complete, err := s.repo.GetOnboarding(ctx, chatID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.OnboardingAnswers{}, false, err
	}
	return answers, complete, nil
}

// CompleteOnboarding stores both answers and the completion flag in one write.
func (s *GameService) CompleteOnboarding(ctx context.Context, chatID int64, answers model.OnboardingAnswers) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.CompleteOnboarding"

	if answers.Goal == nil || answers.Knowledge == nil {
		return service.ErrInvalidInput
	}
	if _, ok := model.FindOption(model.GoalOptions, answers.Goal.ID); !ok {
		return service.ErrInvalidInput
	}
	if _, ok := model.FindOption(model.KnowledgeOptions, answers.Knowledge.ID); !ok {
		return service.ErrInvalidInput
	}

	err := s.repo.Commit(ctx, chatID, repository.NewBatch().PutOnboarding(answers, true))
	if err != nil {
		slog.Error("failed on repo.Commit", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Info("onboarding completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID),
		slog.String("goal", answers.Goal.ID), slog.String("knowledge", answers.Knowledge.ID))

	return nil
}

// FinancialGoal is the text of the goal chosen during onboarding.
func (s *GameService) FinancialGoal(ctx context.Context, chatID int64) string {
	answers, _, err := s.Onboarding(ctx, chatID)
	if err != nil || answers.Goal == nil || answers.Goal.Text == "" {
		return goalNotSet
	}
	return answers.Goal.Text
}
