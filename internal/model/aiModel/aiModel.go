package aiModel

import (
	"context"

	"google.golang.org/genai"
)

// Request is what a flow hands to a model provider.
type Request struct {
	Flow        string
	Instruction string
	Prompt      string
	Schema      *genai.Schema
	Tools       []Tool
}

// Tool is a function the model may call while answering.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Call        func(ctx context.Context, args map[string]any) (map[string]any, error)
}

type TutorInput struct {
	SkillLevel   string `json:"skillLevel" validate:"required,oneof=beginner intermediate advanced"`
	LearningGoal string `json:"learningGoal" validate:"required,max=500"`
}

type TutorOutput struct {
	Lesson string `json:"lesson" validate:"required"`
}

type QuizInput struct {
	Topic string `json:"topic" validate:"required,max=200"`
}

type QuizQuestion struct {
	QuestionText  string   `json:"questionText" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Explanation   string   `json:"explanation" validate:"required"`
}

type QuizOutput struct {
	QuizTitle string         `json:"quizTitle" validate:"required"`
	Questions []QuizQuestion `json:"questions" validate:"min=3,max=5,dive"`
}

type ConceptSearchInput struct {
	Concept string `json:"concept" validate:"required,max=200"`
	Context string `json:"context" validate:"required"`
}

type ConceptSearchOutput struct {
	Explanation string `json:"explanation" validate:"required"`
}

type TutorChatInput struct {
	Question string `json:"question" validate:"required,max=1000"`
	Context  string `json:"context" validate:"required"`
}

type TutorChatOutput struct {
	Answer string `json:"answer" validate:"required"`
}

type MarketChatInput struct {
	Message string `json:"message" validate:"required,max=1000"`
}

type MarketChatOutput struct {
	Answer string `json:"answer" validate:"required"`
}

type StockSearchInput struct {
	Query string `json:"query" validate:"max=100"`
}

const (
	ChangeIncrease = "increase"
	ChangeDecrease = "decrease"
)

type StockInfo struct {
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Change     string  `json:"change"`
	ChangeType string  `json:"changeType" validate:"oneof=increase decrease"`
}

type StockSearchOutput struct {
	Results []StockInfo `json:"results" validate:"max=5,dive"`
}
