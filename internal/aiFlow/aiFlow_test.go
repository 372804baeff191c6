package aiFlow

import (
	"context"
	"errors"
	"testing"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModel struct {
	answer string
	err    error
	reqs   []aiModel.Request
}

func (m *fakeModel) Generate(_ context.Context, req aiModel.Request) (string, error) {
	m.reqs = append(m.reqs, req)
	return m.answer, m.err
}

type fakeMarket struct {
	quotes []model.Quote
}

func (m *fakeMarket) Search(context.Context, string) []model.Quote {
	return m.quotes
}

func (m *fakeMarket) PriceTool() aiModel.Tool {
	return aiModel.Tool{Declaration: &genai.FunctionDeclaration{Name: "getStockPrice"}}
}

const validQuiz = `{
  "quizTitle": "ETF basics",
  "questions": [
    {"questionText": "q1", "options": ["a","b","c","d"], "correctAnswer": "a", "explanation": "e"},
    {"questionText": "q2", "options": ["a","b","c","d"], "correctAnswer": "b", "explanation": "e"},
    {"questionText": "q3", "options": ["a","b","c","d"], "correctAnswer": "c", "explanation": "e"}
  ]
}`

func TestTutor(t *testing.T) {
	m := &fakeModel{answer: `{"lesson":"Diversify."}`}
	f := New(m, &fakeMarket{})

	out, err := f.Tutor(context.Background(), aiModel.TutorInput{SkillLevel: " Beginner ", LearningGoal: "learn ETFs"})
	require.NoError(t, err)
	assert.Equal(t, "Diversify.", out.Lesson)

	require.Len(t, m.reqs, 1)
	assert.Equal(t, FlowTutor, m.reqs[0].Flow)
	assert.Contains(t, m.reqs[0].Prompt, "Skill level: beginner")
	assert.NotNil(t, m.reqs[0].Schema)
}

func TestTutorInvalidInput(t *testing.T) {
	m := &fakeModel{}
	f := New(m, &fakeMarket{})

	_, err := f.Tutor(context.Background(), aiModel.TutorInput{SkillLevel: "guru", LearningGoal: "x"})
	assert.Equal(t, aiModel.CodeInvalidInput, aiModel.CodeOf(err))
	assert.Empty(t, m.reqs)
}

func TestQuiz(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		wantErr aiModel.ErrorCode
	}{
		{name: "valid", answer: validQuiz},
		{name: "fenced", answer: "```json\n" + validQuiz + "\n```"},
		{name: "not json", answer: "here is your quiz", wantErr: aiModel.CodeInvalidOutput},
		{name: "too few questions", answer: `{"quizTitle":"t","questions":[{"questionText":"q","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e"}]}`, wantErr: aiModel.CodeInvalidOutput},
		{
			name: "three options",
			answer: `{"quizTitle":"t","questions":[
				{"questionText":"q","options":["a","b","c"],"correctAnswer":"a","explanation":"e"},
				{"questionText":"q","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e"},
				{"questionText":"q","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e"}]}`,
			wantErr: aiModel.CodeInvalidOutput,
		},
		{
			name: "answer not in options",
			answer: `{"quizTitle":"t","questions":[
				{"questionText":"q","options":["a","b","c","d"],"correctAnswer":"z","explanation":"e"},
				{"questionText":"q","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e"},
				{"questionText":"q","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e"}]}`,
			wantErr: aiModel.CodeInvalidOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(&fakeModel{answer: tt.answer}, &fakeMarket{})

			out, err := f.Quiz(context.Background(), aiModel.QuizInput{Topic: "ETFs"})
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, aiModel.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ETF basics", out.QuizTitle)
			assert.Len(t, out.Questions, 3)
		})
	}
}

func TestConceptSearchUsesKnowledgeBase(t *testing.T) {
	m := &fakeModel{answer: `{"explanation":"P/E divides price by earnings."}`}
	f := New(m, &fakeMarket{})

	out, err := f.ConceptSearch(context.Background(), aiModel.ConceptSearchInput{Concept: "P/E ratio"})
	require.NoError(t, err)
	assert.Equal(t, "P/E divides price by earnings.", out.Explanation)
	assert.Contains(t, m.reqs[0].Prompt, "Price-to-earnings ratio")
	assert.NotEmpty(t, KnowledgeBase())
}

func TestTutorChatKeepsGivenContext(t *testing.T) {
	m := &fakeModel{answer: `{"answer":"yes"}`}
	f := New(m, &fakeMarket{})

	out, err := f.TutorChat(context.Background(), aiModel.TutorChatInput{Question: "is it?", Context: "custom context"})
	require.NoError(t, err)
	assert.Equal(t, "yes", out.Answer)
	assert.Contains(t, m.reqs[0].Prompt, "custom context")
	assert.NotContains(t, m.reqs[0].Prompt, "Price-to-earnings ratio")
}

func TestProviderErrorKeepsCode(t *testing.T) {
	providerErr := aiModel.NewGenerationError(aiModel.CodeServiceDisabled, "disabled", nil)
	f := New(&fakeModel{err: providerErr}, &fakeMarket{})

	_, err := f.ConceptSearch(context.Background(), aiModel.ConceptSearchInput{Concept: "ETF"})
	assert.Equal(t, aiModel.CodeServiceDisabled, aiModel.CodeOf(err))
	assert.Equal(t, "The Concept Search is being set up. This can take a few minutes. Please try again shortly.", aiModel.UserMessage(err))
}

func TestUntypedErrorIsUnknown(t *testing.T) {
	f := New(&fakeModel{err: errors.New("boom")}, &fakeMarket{})

	_, err := f.TutorChat(context.Background(), aiModel.TutorChatInput{Question: "q"})
	assert.Equal(t, aiModel.CodeUnknown, aiModel.CodeOf(err))
	assert.Equal(t, "An unexpected error occurred. Please try again.", aiModel.UserMessage(err))
}

func TestMarketChat(t *testing.T) {
	m := &fakeModel{answer: "  GOOGL is at 321.00  "}
	f := New(m, &fakeMarket{})

	out, err := f.MarketChat(context.Background(), aiModel.MarketChatInput{Message: "price of google?"})
	require.NoError(t, err)
	assert.Equal(t, "GOOGL is at 321.00", out.Answer)

	require.Len(t, m.reqs[0].Tools, 1)
	assert.Equal(t, "getStockPrice", m.reqs[0].Tools[0].Declaration.Name)
	assert.Nil(t, m.reqs[0].Schema)

	_, err = New(&fakeModel{answer: " "}, &fakeMarket{}).MarketChat(context.Background(), aiModel.MarketChatInput{Message: "hi"})
	assert.Equal(t, aiModel.CodeInvalidOutput, aiModel.CodeOf(err))

	_, err = f.MarketChat(context.Background(), aiModel.MarketChatInput{Message: "  "})
	assert.Equal(t, aiModel.CodeInvalidInput, aiModel.CodeOf(err))
}

func TestStockSearch(t *testing.T) {
	m := &fakeModel{}
	market := &fakeMarket{quotes: []model.Quote{
		{Ticker: "AAPL", Name: "Apple Inc", Price: decimal.RequireFromString("214.29"), ChangePercent: decimal.RequireFromString("-1.04")},
		{Ticker: "TSLA", Name: "Tesla Inc", Price: decimal.RequireFromString("184.88"), ChangePercent: decimal.RequireFromString("5.76")},
	}}
	f := New(m, market)

	out, err := f.StockSearch(context.Background(), aiModel.StockSearchInput{Query: "a"})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, aiModel.StockInfo{Ticker: "AAPL", Name: "Apple Inc", Price: 214.29, Change: "-1.04%", ChangeType: aiModel.ChangeDecrease}, out.Results[0])
	assert.Equal(t, "+5.76%", out.Results[1].Change)
	assert.Equal(t, aiModel.ChangeIncrease, out.Results[1].ChangeType)
	assert.Empty(t, m.reqs)
}

func TestStockSearchOutputChangeType(t *testing.T) {
	f := New(&fakeModel{}, &fakeMarket{})

	valid := aiModel.StockSearchOutput{Results: []aiModel.StockInfo{
		{Ticker: "AAPL", ChangeType: aiModel.ChangeDecrease},
		{Ticker: "TSLA", ChangeType: aiModel.ChangeIncrease},
	}}
	assert.NoError(t, f.validate.Struct(valid))

	for _, bad := range []string{"negative", "positive", ""} {
		out := aiModel.StockSearchOutput{Results: []aiModel.StockInfo{{Ticker: "AAPL", ChangeType: bad}}}
		assert.Error(t, f.validate.Struct(out), bad)
	}
}
