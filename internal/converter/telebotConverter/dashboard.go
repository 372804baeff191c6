package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/tg/tgCallback"
	tele "gopkg.in/telebot.v4"
)

func WelcomeResponse() (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("🚀 Get started", tgCallback.StartOnboarding)))
	return "👋 Welcome to G-Invest!\n\n" +
		"Learn to invest with a virtual portfolio: trade with play money, " +
		"explain your reasons and earn points for good decisions.", markup
}

func optionsMarkup(unique string, options []model.Option) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(options))
	for _, o := range options {
		rows = append(rows, markup.Row(markup.Data(o.Text, unique, o.ID)))
	}
	markup.Inline(rows...)
	return markup
}

func GoalQuestionResponse() (text string, markup *tele.ReplyMarkup) {
	return "🎯 What is your main financial goal?", optionsMarkup(tgCallback.OnboardingGoal, model.GoalOptions)
}

func KnowledgeQuestionResponse() (text string, markup *tele.ReplyMarkup) {
	return "📚 How would you describe your investing knowledge?", optionsMarkup(tgCallback.OnboardingLevel, model.KnowledgeOptions)
}

func OnboardingFinishedResponse(answers model.OnboardingAnswers) string {
	var sb strings.Builder
	sb.WriteString("✅ You're all set!\n\n")
	if answers.Goal != nil {
		sb.WriteString(fmt.Sprintf("Goal: %s\n", answers.Goal.Text))
	}
	if answers.Knowledge != nil {
		sb.WriteString(fmt.Sprintf("Level: %s\n", answers.Knowledge.Text))
	}
	sb.WriteString("\nYou start with $100,000 of virtual cash. Try /stocks to make your first trade.")
	return sb.String()
}

type Dashboard struct {
	View      model.PortfolioView
	Goal      string
	Level     model.LevelProgress
	Readiness model.Readiness
	Progress  model.Progress
}

func DashboardResponse(d Dashboard) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder
	s := d.View.Summary

	sb.WriteString("🏠 Dashboard\n\n")
	sb.WriteString(fmt.Sprintf("💼 Portfolio: %s (%s today)\n", Money(s.TotalValue), Percent(s.DayGainPercent)))
	sb.WriteString(fmt.Sprintf("🎯 Financial goal: %s\n", d.Goal))
	sb.WriteString(fmt.Sprintf("⭐ Level %d · %d/%d XP\n", d.Level.Level, d.Level.XP, d.Level.XPPerLevel))
	sb.WriteString(fmt.Sprintf("🧭 Readiness: %d/100 · %s\n", d.Readiness.Score, d.Readiness.Band))
	sb.WriteString(fmt.Sprintf("🔥 Streak: %d day(s)\n\n", d.Progress.StreakDays))
	sb.WriteString("Commands: /portfolio /stocks /lesson /quiz /explain /ask /market /achievements /leaderboard")

	markup.Inline(
		markup.Row(
			markup.Data("📊 Portfolio", tgCallback.RefreshCard),
			markup.Data("🛒 Stocks", tgCallback.ShowStocks),
		),
	)
	return sb.String(), markup
}

func AchievementsResponse(achievements []model.Achievement) string {
	var sb strings.Builder
	sb.WriteString("🏆 Achievements\n\n")
	earned := 0
	for _, a := range achievements {
		icon := "🔒"
		if a.Earned {
			icon = "🏅"
			earned++
		}
		sb.WriteString(fmt.Sprintf("%s %s\n   %s\n", icon, a.Title, a.Description))
	}
	sb.WriteString(fmt.Sprintf("\nEarned %d of %d", earned, len(achievements)))
	return sb.String()
}

func LeaderboardResponse(rows []model.LeaderboardRow) string {
	var sb strings.Builder
	sb.WriteString("🥇 Leaderboard\n\n")
	for _, r := range rows {
		name := r.Name
		if r.IsCurrentUser {
			name = "👉 " + name
		}
		sb.WriteString(fmt.Sprintf("%d. %s · %d pts\n", r.Rank, name, r.Points))
	}
	return strings.TrimSpace(sb.String())
}

func ReadinessResponse(r model.Readiness) string {
	const width = 10
	filled := min(max(r.Score*width/100, 0), width)
	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return fmt.Sprintf("🧭 Investment readiness\n\n%s %d/100\n%s", bar, r.Score, r.Band)
}

func ProgressResponse(level model.LevelProgress, p model.Progress) string {
	var sb strings.Builder
	sb.WriteString("📈 Learning progress\n\n")
	sb.WriteString(fmt.Sprintf("Level %d · %d/%d XP to the next level\n", level.Level, level.XP, level.XPPerLevel))
	sb.WriteString(fmt.Sprintf("Total points: %d\n", level.TotalPoints))
	sb.WriteString(fmt.Sprintf("Lessons completed: %d/3\n", len(p.TutorialsCompleted)))
	sb.WriteString(fmt.Sprintf("Quizzes passed: %d of %d taken\n", p.QuizzesPassed, p.QuizzesTaken))
	sb.WriteString(fmt.Sprintf("Daily streak: %d day(s)", p.StreakDays))
	return sb.String()
}
