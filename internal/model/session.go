package model

type Action int

const (
	DefaultAction Action = iota
	ExpectingShareCount
	ExpectingLearningGoal
	ExpectingQuizTopic
	ExpectingConcept
	ExpectingTutorQuestion
	ExpectingMarketMessage
	ExpectingSearchQuery
)

type Session struct {
	Action     Action             `json:"action"`
	Trade      *TradeIntent       `json:"trade,omitempty"`
	Quiz       *QuizState         `json:"quiz,omitempty"`
	Onboarding *OnboardingAnswers `json:"onboarding,omitempty"`
	SkillLevel string             `json:"skillLevel,omitempty"`
	LiveCard   *LiveCard          `json:"liveCard,omitempty"`
}

// LiveCard points at the portfolio message that is edited on every change.
type LiveCard struct {
	MessageID string `json:"messageID"`
	ChatID    int64  `json:"chatID"`
}
