// Package aiFlow holds the request/response adapters around the generative model.
// Every flow validates its input, calls the model once with a fixed instruction and
// output schema, then validates the decoded output. Failures are *aiModel.GenerationError.
package aiFlow

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/go-playground/validator/v10"
)

//go:embed knowledge.md
var knowledgeBase string

const (
	FlowTutor         = "tutor"
	FlowQuiz          = "quiz"
	FlowConceptSearch = "conceptSearch"
	FlowTutorChat     = "tutorChat"
	FlowMarketChat    = "marketChat"
	FlowStockSearch   = "stockSearch"
)

type Model interface {
	Generate(ctx context.Context, req aiModel.Request) (string, error)
}

type Market interface {
	Search(ctx context.Context, query string) []model.Quote
	PriceTool() aiModel.Tool
}

type Flows struct {
	model    Model
	market   Market
	validate *validator.Validate
}

func New(model Model, market Market) *Flows {
	return &Flows{
		model:    model,
		market:   market,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// KnowledgeBase is the context used by concept search and tutor chat when none is given.
func KnowledgeBase() string {
	return knowledgeBase
}

func (f *Flows) Tutor(ctx context.Context, in aiModel.TutorInput) (aiModel.TutorOutput, error) {
	in.SkillLevel = strings.ToLower(strings.TrimSpace(in.SkillLevel))
	in.LearningGoal = strings.TrimSpace(in.LearningGoal)

	req := aiModel.Request{
		Flow:        FlowTutor,
		Instruction: tutorInstruction,
		Prompt:      fmt.Sprintf("Skill level: %s\nLearning goal: %s", in.SkillLevel, in.LearningGoal),
		Schema:      tutorSchema,
	}

	var out aiModel.TutorOutput
	err := f.run(ctx, req, in, &out, nil)
	return out, err
}

func (f *Flows) Quiz(ctx context.Context, in aiModel.QuizInput) (aiModel.QuizOutput, error) {
	in.Topic = strings.TrimSpace(in.Topic)

	req := aiModel.Request{
		Flow:        FlowQuiz,
		Instruction: quizInstruction,
		Prompt:      fmt.Sprintf("Topic: %s", in.Topic),
		Schema:      quizSchema,
	}

	var out aiModel.QuizOutput
	err := f.run(ctx, req, in, &out, func() error {
		for i, q := range out.Questions {
			if !slices.Contains(q.Options, q.CorrectAnswer) {
				return fmt.Errorf("question %d: correct answer %q is not among the options", i+1, q.CorrectAnswer)
			}
		}
		return nil
	})
	return out, err
}

func (f *Flows) ConceptSearch(ctx context.Context, in aiModel.ConceptSearchInput) (aiModel.ConceptSearchOutput, error) {
	in.Concept = strings.TrimSpace(in.Concept)
	if strings.TrimSpace(in.Context) == "" {
		in.Context = knowledgeBase
	}

	req := aiModel.Request{
		Flow:        FlowConceptSearch,
		Instruction: conceptSearchInstruction,
		Prompt:      fmt.Sprintf("Context:\n%s\n\nConcept: %s", in.Context, in.Concept),
		Schema:      conceptSearchSchema,
	}

	var out aiModel.ConceptSearchOutput
	err := f.run(ctx, req, in, &out, nil)
	return out, err
}

func (f *Flows) TutorChat(ctx context.Context, in aiModel.TutorChatInput) (aiModel.TutorChatOutput, error) {
	in.Question = strings.TrimSpace(in.Question)
	if strings.TrimSpace(in.Context) == "" {
		in.Context = knowledgeBase
	}

	req := aiModel.Request{
		Flow:        FlowTutorChat,
		Instruction: tutorChatInstruction,
		Prompt:      fmt.Sprintf("Context:\n%s\n\nQuestion: %s", in.Context, in.Question),
		Schema:      tutorChatSchema,
	}

	var out aiModel.TutorChatOutput
	err := f.run(ctx, req, in, &out, nil)
	return out, err
}

// MarketChat lets the model call the price tool. The answer comes back as plain text.
func (f *Flows) MarketChat(ctx context.Context, in aiModel.MarketChatInput) (out aiModel.MarketChatOutput, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Flows.MarketChat"

	in.Message = strings.TrimSpace(in.Message)
	if err := f.validate.Struct(in); err != nil {
		return out, aiModel.NewGenerationError(aiModel.CodeInvalidInput, "invalid input", err)
	}

	text, err := f.model.Generate(ctx, aiModel.Request{
		Flow:        FlowMarketChat,
		Instruction: marketChatInstruction,
		Prompt:      in.Message,
		Tools:       []aiModel.Tool{f.market.PriceTool()},
	})
	if err != nil {
		return out, asGenerationError(err)
	}

	out.Answer = strings.TrimSpace(text)
	if err := f.validate.Struct(out); err != nil {
		slog.Warn("model returned empty answer", slog.String("rqID", rqID), slog.String("op", op))
		return aiModel.MarketChatOutput{}, aiModel.NewGenerationError(aiModel.CodeInvalidOutput, "empty answer", err)
	}

	return out, nil
}

// StockSearch never calls the model, it reads the catalog directly.
func (f *Flows) StockSearch(ctx context.Context, in aiModel.StockSearchInput) (aiModel.StockSearchOutput, error) {
	if err := f.validate.Struct(in); err != nil {
		return aiModel.StockSearchOutput{}, aiModel.NewGenerationError(aiModel.CodeInvalidInput, "invalid input", err)
	}

	quotes := f.market.Search(ctx, in.Query)

	out := aiModel.StockSearchOutput{Results: make([]aiModel.StockInfo, 0, len(quotes))}
	for _, q := range quotes {
		changeType := aiModel.ChangeIncrease
		change := "+" + q.ChangePercent.StringFixed(2) + "%"
		if q.ChangePercent.IsNegative() {
			changeType = aiModel.ChangeDecrease
			change = q.ChangePercent.StringFixed(2) + "%"
		}
		out.Results = append(out.Results, aiModel.StockInfo{
			Ticker:     q.Ticker,
			Name:       q.Name,
			Price:      q.Price.InexactFloat64(),
			Change:     change,
			ChangeType: changeType,
		})
	}

	if err := f.validate.Struct(out); err != nil {
		return aiModel.StockSearchOutput{}, aiModel.NewGenerationError(aiModel.CodeInvalidOutput, "invalid search results", err)
	}

	return out, nil
}

// run validates in, calls the model, decodes the JSON answer into out and validates it.
func (f *Flows) run(ctx context.Context, req aiModel.Request, in any, out any, check func() error) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Flows." + req.Flow

	slog.Debug("flow start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("flow failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("code", string(aiModel.CodeOf(err))), slog.String("err", err.Error()))
		} else {
			slog.Debug("flow finished", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if err := f.validate.Struct(in); err != nil {
		return aiModel.NewGenerationError(aiModel.CodeInvalidInput, "invalid input", err)
	}

	text, err := f.model.Generate(ctx, req)
	if err != nil {
		return asGenerationError(err)
	}

	if err := json.Unmarshal([]byte(stripCodeFence(text)), out); err != nil {
		return aiModel.NewGenerationError(aiModel.CodeInvalidOutput, "answer is not valid json", err)
	}

	if err := f.validate.Struct(out); err != nil {
		return aiModel.NewGenerationError(aiModel.CodeInvalidOutput, "answer does not match the schema", err)
	}

	if check != nil {
		if err := check(); err != nil {
			return aiModel.NewGenerationError(aiModel.CodeInvalidOutput, err.Error(), err)
		}
	}

	return nil
}

func asGenerationError(err error) error {
	var genErr *aiModel.GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return aiModel.NewGenerationError(aiModel.CodeUnknown, "generation failed", err)
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
