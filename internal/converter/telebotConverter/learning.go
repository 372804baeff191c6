package telebotConverter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/KotFed0t/ginvest_bot/internal/model/tg/tgCallback"
	tele "gopkg.in/telebot.v4"
)

var skillLevelTitles = []struct{ id, title string }{
	{"beginner", "🌱 Beginner"},
	{"intermediate", "🌿 Intermediate"},
	{"advanced", "🌳 Advanced"},
}

func LessonLevelsResponse(progress model.Progress) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(skillLevelTitles))
	for _, l := range skillLevelTitles {
		title := l.title
		if progress.TutorialCompleted(l.id) {
			title += " ✅"
		}
		rows = append(rows, markup.Row(markup.Data(title, tgCallback.LessonLevel, l.id)))
	}
	markup.Inline(rows...)
	return "🎓 AI tutor\n\nChoose your skill level:", markup
}

func QuizQuestionResponse(state model.QuizState) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	idx := len(state.Answers)
	q := state.Quiz.Questions[idx]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 %s\n", state.Quiz.QuizTitle))
	if idx > 0 {
		prev := state.Quiz.Questions[idx-1]
		sb.WriteString("\n" + answerFeedback(prev, state.Answers[idx-1]) + "\n")
	}
	sb.WriteString(fmt.Sprintf("\nQuestion %d of %d\n%s", idx+1, len(state.Quiz.Questions), q.QuestionText))

	rows := make([]tele.Row, 0, len(q.Options))
	for i, opt := range q.Options {
		rows = append(rows, markup.Row(markup.Data(opt, tgCallback.QuizAnswer, strconv.Itoa(idx), strconv.Itoa(i))))
	}
	markup.Inline(rows...)

	return sb.String(), markup
}

func answerFeedback(q aiModel.QuizQuestion, answer string) string {
	if answer == q.CorrectAnswer {
		return "✅ Correct! " + q.Explanation
	}
	return fmt.Sprintf("❌ The answer was: %s. %s", q.CorrectAnswer, q.Explanation)
}

func QuizResultResponse(state model.QuizState, result model.QuizResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 %s\n\n", state.Quiz.QuizTitle))

	last := len(state.Quiz.Questions) - 1
	if last >= 0 && len(state.Answers) > last {
		sb.WriteString(answerFeedback(state.Quiz.Questions[last], state.Answers[last]) + "\n\n")
	}

	sb.WriteString(fmt.Sprintf("Score: %d/%d\n", result.Correct, result.Total))
	if result.Passed {
		sb.WriteString(fmt.Sprintf("🏅 Passed! You earned %d points.", result.PointsEarned))
	} else {
		sb.WriteString("Not passed this time. Review the lesson and try again.")
	}
	return sb.String()
}

func SearchResponse(out aiModel.StockSearchOutput) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	if len(out.Results) == 0 {
		return "No stocks found.", markup
	}

	var sb strings.Builder
	sb.WriteString("🔎 Search results\n\n")

	rows := make([]tele.Row, 0, len(out.Results))
	for _, r := range out.Results {
		icon := "🟢"
		if r.ChangeType == aiModel.ChangeDecrease {
			icon = "🔻"
		}
		sb.WriteString(fmt.Sprintf("%s %s · %s\n   $%.2f (%s)\n", icon, r.Ticker, r.Name, r.Price, r.Change))
		rows = append(rows, markup.Row(
			markup.Data("Buy "+r.Ticker, tgCallback.OpenTrade, string(model.Buy), r.Ticker),
			markup.Data("Sell "+r.Ticker, tgCallback.OpenTrade, string(model.Sell), r.Ticker),
		))
	}
	markup.Inline(rows...)

	return strings.TrimSpace(sb.String()), markup
}
