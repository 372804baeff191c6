package model

import (
	"time"

	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
)

type Progress struct {
	Points             int       `json:"points"`
	TutorialsCompleted []string  `json:"tutorialsCompleted"`
	QuizzesTaken       int       `json:"quizzesTaken"`
	QuizzesPassed      int       `json:"quizzesPassed"`
	StreakDays         int       `json:"streakDays"`
	LastCheckIn        time.Time `json:"lastCheckIn"`
}

func (p Progress) TutorialCompleted(skillLevel string) bool {
	for _, l := range p.TutorialsCompleted {
		if l == skillLevel {
			return true
		}
	}
	return false
}

type LevelProgress struct {
	Level       int
	XP          int
	XPPerLevel  int
	TotalPoints int
}

type Achievement struct {
	Title       string
	Description string
	Earned      bool
}

type LeaderboardRow struct {
	Rank          int
	Name          string
	Points        int
	IsCurrentUser bool
}

type Readiness struct {
	Score int
	Band  string
}

type QuizState struct {
	Topic   string             `json:"topic"`
	Quiz    aiModel.QuizOutput `json:"quiz"`
	Answers []string           `json:"answers"`
}

type QuizResult struct {
	Correct      int
	Total        int
	Passed       bool
	PointsEarned int
}
