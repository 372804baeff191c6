package gameService

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/service"
	"github.com/KotFed0t/ginvest_bot/utils"
)

const pointsPerLevel = 250

var skillLevels = []string{"beginner", "intermediate", "advanced"}

var mockLeaders = []model.LeaderboardRow{
	{Name: "Alex T.", Points: 250},
	{Name: "Samantha P.", Points: 225},
	{Name: "Ben C.", Points: 175},
}

func (s *GameService) Progress(ctx context.Context, chatID int64) (model.Progress, error) {
	st, err := s.loadState(ctx, chatID)
	if err != nil {
		return model.Progress{}, err
	}
	return st.progress, nil
}

func LevelOf(points int) model.LevelProgress {
	points = max(points, 0)
	return model.LevelProgress{
		Level:       points/pointsPerLevel + 1,
		XP:          points % pointsPerLevel,
		XPPerLevel:  pointsPerLevel,
		TotalPoints: points,
	}
}

func (s *GameService) Level(ctx context.Context, chatID int64) (model.LevelProgress, error) {
	p, err := s.Progress(ctx, chatID)
	if err != nil {
		return model.LevelProgress{}, err
	}
	return LevelOf(p.Points), nil
}

func (s *GameService) Readiness() model.Readiness {
	return ReadinessOf(s.cfg.ReadinessScore)
}

func ReadinessOf(score int) model.Readiness {
	r := model.Readiness{Score: score}
	switch {
	case score >= 80:
		r.Band = "Ready to invest"
	case score >= 60:
		r.Band = "Almost there"
	case score >= 40:
		r.Band = "Building foundations"
	default:
		r.Band = "Just getting started"
	}
	return r
}

func (s *GameService) Leaderboard(ctx context.Context, chatID int64) ([]model.LeaderboardRow, error) {
	p, err := s.Progress(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return leaderboard(p.Points), nil
}

func leaderboard(points int) []model.LeaderboardRow {
	rows := make([]model.LeaderboardRow, 0, len(mockLeaders)+1)
	rows = append(rows, mockLeaders...)
	rows = append(rows, model.LeaderboardRow{Name: "You", Points: points, IsCurrentUser: true})

	slices.SortStableFunc(rows, func(a, b model.LeaderboardRow) int {
		return cmp.Compare(b.Points, a.Points)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func (s *GameService) Achievements(ctx context.Context, chatID int64) ([]model.Achievement, error) {
	st, err := s.loadState(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return achievements(st, s.market.Sector), nil
}

func achievements(st state, sectorOf func(ticker string) string) []model.Achievement {
	sectors := make(map[string]struct{})
	for _, h := range st.holdings {
		if sector := sectorOf(h.Ticker); sector != "" {
			sectors[sector] = struct{}{}
		}
	}

	legend := true
	for _, level := range skillLevels {
		legend = legend && st.progress.TutorialCompleted(level)
	}

	return []model.Achievement{
		{Title: "First Trade", Description: "Make your first simulated trade.", Earned: len(st.trades) > 0},
		{Title: "Diversification Expert", Description: "Hold stocks from at least 3 sectors.", Earned: len(sectors) >= 3},
		{Title: "Daily Streak", Description: "Check in 3 days in a row.", Earned: st.progress.StreakDays >= 3},
		{Title: "Learning Legend", Description: "Complete a lesson at every skill level.", Earned: legend},
		{Title: "Market Expert", Description: "Become a Learning Legend and pass 3 quizzes.", Earned: legend && st.progress.QuizzesPassed >= 3},
	}
}

// CheckIn records a dashboard visit and maintains the daily streak.
func (s *GameService) CheckIn(ctx context.Context, chatID int64) (model.Progress, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.CheckIn"

	st, err := s.loadState(ctx, chatID)
	if err != nil {
		return model.Progress{}, err
	}

	now := s.now().UTC()
	streak, changed := nextStreak(st.progress.StreakDays, st.progress.LastCheckIn, now)
	if !changed {
		return st.progress, nil
	}

	st.progress.StreakDays = streak
	st.progress.LastCheckIn = now

	if err := s.repo.Commit(ctx, chatID, repository.NewBatch().PutProgress(st.progress)); err != nil {
		slog.Error("failed on repo.Commit", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Progress{}, err
	}

	slog.Debug("checked in", slog.String("rqID", rqID), slog.String("op", op), slog.Int("streak", streak))
	return st.progress, nil
}

func nextStreak(streak int, last, now time.Time) (int, bool) {
	if last.IsZero() {
		return 1, true
	}

	switch days := daysBetween(last.UTC(), now); {
	case days == 0:
		return streak, false
	case days == 1:
		return streak + 1, true
	default:
		return 1, true
	}
}

func daysBetween(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// RecordTutorial marks the skill level as completed.
func (s *GameService) RecordTutorial(ctx context.Context, chatID int64, skillLevel string) error {
	if !slices.Contains(skillLevels, skillLevel) {
		return service.ErrInvalidInput
	}

	st, err := s.loadState(ctx, chatID)
	if err != nil {
		return err
	}
	if st.progress.TutorialCompleted(skillLevel) {
		return nil
	}

	st.progress.TutorialsCompleted = append(st.progress.TutorialsCompleted, skillLevel)
	return s.repo.Commit(ctx, chatID, repository.NewBatch().PutProgress(st.progress))
}

// GradeQuiz scores the answers, a quiz passes at QuizPassPercent. Points are only
// awarded for passed quizzes.
func (s *GameService) GradeQuiz(ctx context.Context, chatID int64, quiz model.QuizState) (res model.QuizResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.GradeQuiz"

	res = s.grade(quiz)

	st, err := s.loadState(ctx, chatID)
	if err != nil {
		return model.QuizResult{}, err
	}

	st.progress.QuizzesTaken++
	if res.Passed {
		st.progress.QuizzesPassed++
		st.progress.Points += res.PointsEarned
	}

	if err := s.repo.Commit(ctx, chatID, repository.NewBatch().PutProgress(st.progress)); err != nil {
		slog.Error("failed on repo.Commit", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.QuizResult{}, err
	}

	slog.Info("quiz graded", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID),
		slog.Int("correct", res.Correct), slog.Int("total", res.Total), slog.Bool("passed", res.Passed))

	return res, nil
}

func (s *GameService) grade(quiz model.QuizState) model.QuizResult {
	res := model.QuizResult{Total: len(quiz.Quiz.Questions)}
	for i, q := range quiz.Quiz.Questions {
		if i < len(quiz.Answers) && quiz.Answers[i] == q.CorrectAnswer {
			res.Correct++
		}
	}

	res.Passed = res.Total > 0 && res.Correct*100 >= s.cfg.QuizPassPercent*res.Total
	if res.Passed {
		res.PointsEarned = res.Correct * s.cfg.QuizAnswerPoints
	}
	return res
}
