package telegram

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/KotFed0t/ginvest_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/KotFed0t/ginvest_bot/utils"
	tele "gopkg.in/telebot.v4"
)

const defaultSkillLevel = "beginner"

// awaitInput runs process right away when the command came with a payload,
// otherwise it asks for the text and waits in the given action.
func (ctrl *Controller) awaitInput(c tele.Context, action model.Action, question string, process func(c tele.Context, text string) error) error {
	if c.Message() != nil {
		if payload := strings.TrimSpace(c.Message().Payload); payload != "" {
			return process(c, payload)
		}
	}

	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	chatSession.Action = action
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(question)
}

// finishInput moves the chat back to the default action.
func (ctrl *Controller) finishInput(c tele.Context) (model.Session, error) {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return model.Session{}, err
	}
	if chatSession.Action == model.DefaultAction {
		return chatSession, nil
	}
	chatSession.Action = model.DefaultAction
	return chatSession, ctrl.saveSession(ctx, c, chatSession)
}

func (ctrl *Controller) Lesson(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	progress, err := ctrl.game.Progress(ctx, c.Chat().ID)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.LessonLevelsResponse(progress))
}

func (ctrl *Controller) LessonLevel(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	respond(ctx, c, "", false)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	chatSession.SkillLevel = c.Data()
	chatSession.Action = model.ExpectingLearningGoal
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Edit("What would you like to learn? For example: \"how do dividends work\" or \"what is a P/E ratio\".")
}

func (ctrl *Controller) ProcessLearningGoal(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.finishInput(c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	skillLevel := chatSession.SkillLevel
	if skillLevel == "" {
		skillLevel = defaultSkillLevel
	}

	_ = c.Notify(tele.Typing)
	out, err := ctrl.flows.Tutor(ctx, aiModel.TutorInput{SkillLevel: skillLevel, LearningGoal: c.Text()})
	if err != nil {
		return c.Send(aiModel.UserMessage(err))
	}

	if err := ctrl.game.RecordTutorial(ctx, c.Chat().ID, skillLevel); err != nil {
		slog.Error("got error from game.RecordTutorial", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}

	return sendLong(c, "🎓 "+out.Lesson)
}

func (ctrl *Controller) Quiz(c tele.Context) error {
	return ctrl.awaitInput(c, model.ExpectingQuizTopic, "📝 Which topic should the quiz cover?", ctrl.startQuiz)
}

func (ctrl *Controller) ProcessQuizTopic(c tele.Context) error {
	if _, err := ctrl.finishInput(c); err != nil {
		return c.Send(internalErrMsg)
	}
	return ctrl.startQuiz(c, c.Text())
}

func (ctrl *Controller) startQuiz(c tele.Context, topic string) error {
	ctx := utils.CreateCtxWithRqID(c)

	_ = c.Notify(tele.Typing)
	out, err := ctrl.flows.Quiz(ctx, aiModel.QuizInput{Topic: topic})
	if err != nil {
		return c.Send(aiModel.UserMessage(err))
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	state := model.QuizState{Topic: topic, Quiz: out}
	chatSession.Quiz = &state
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.QuizQuestionResponse(state))
}

// QuizAnswer records one answer, callback data is question index|option index.
func (ctrl *Controller) QuizAnswer(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	args := c.Args()
	if chatSession.Quiz == nil || len(args) != 2 {
		respond(ctx, c, staleQuizMsg, true)
		return nil
	}

	state := *chatSession.Quiz
	qIdx, errQ := strconv.Atoi(args[0])
	optIdx, errO := strconv.Atoi(args[1])
	if errQ != nil || errO != nil || qIdx != len(state.Answers) || qIdx >= len(state.Quiz.Questions) {
		respond(ctx, c, staleQuizMsg, true)
		return nil
	}

	options := state.Quiz.Questions[qIdx].Options
	if optIdx < 0 || optIdx >= len(options) {
		respond(ctx, c, staleQuizMsg, true)
		return nil
	}
	respond(ctx, c, "", false)

	state.Answers = append(state.Answers[:len(state.Answers):len(state.Answers)], options[optIdx])

	if len(state.Answers) < len(state.Quiz.Questions) {
		chatSession.Quiz = &state
		if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
			return c.Send(internalErrMsg)
		}
		return c.Edit(telebotConverter.QuizQuestionResponse(state))
	}

	result, err := ctrl.game.GradeQuiz(ctx, c.Chat().ID, state)
	if err != nil {
		slog.Error("got error from game.GradeQuiz", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	chatSession.Quiz = nil
	if err := ctrl.saveSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Edit(telebotConverter.QuizResultResponse(state, result), &tele.ReplyMarkup{})
}

func (ctrl *Controller) Explain(c tele.Context) error {
	return ctrl.awaitInput(c, model.ExpectingConcept, "🔍 Which concept should I explain?", ctrl.explain)
}

func (ctrl *Controller) ProcessConcept(c tele.Context) error {
	if _, err := ctrl.finishInput(c); err != nil {
		return c.Send(internalErrMsg)
	}
	return ctrl.explain(c, c.Text())
}

func (ctrl *Controller) explain(c tele.Context, concept string) error {
	ctx := utils.CreateCtxWithRqID(c)

	_ = c.Notify(tele.Typing)
	out, err := ctrl.flows.ConceptSearch(ctx, aiModel.ConceptSearchInput{Concept: concept})
	if err != nil {
		return c.Send(aiModel.UserMessage(err))
	}
	return sendLong(c, "💡 "+out.Explanation)
}

// Ask opens a tutor conversation, it lasts until /cancel.
func (ctrl *Controller) Ask(c tele.Context) error {
	ask := func(c tele.Context, question string) error {
		if err := ctrl.setAction(c, model.ExpectingTutorQuestion); err != nil {
			return c.Send(internalErrMsg)
		}
		return ctrl.askTutor(c, question)
	}
	return ctrl.awaitInput(c, model.ExpectingTutorQuestion, "🧑‍🏫 Ask me anything about investing. Send /cancel to finish.", ask)
}

func (ctrl *Controller) ProcessTutorQuestion(c tele.Context) error {
	return ctrl.askTutor(c, c.Text())
}

func (ctrl *Controller) askTutor(c tele.Context, question string) error {
	ctx := utils.CreateCtxWithRqID(c)

	_ = c.Notify(tele.Typing)
	out, err := ctrl.flows.TutorChat(ctx, aiModel.TutorChatInput{Question: question})
	if err != nil {
		return c.Send(aiModel.UserMessage(err))
	}
	return sendLong(c, out.Answer)
}

func (ctrl *Controller) setAction(c tele.Context, action model.Action) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return err
	}
	chatSession.Action = action
	return ctrl.saveSession(ctx, c, chatSession)
}
