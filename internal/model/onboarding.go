package model

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type OnboardingAnswers struct {
	Goal      *Option `json:"goal,omitempty"`
	Knowledge *Option `json:"knowledge,omitempty"`
}

var GoalOptions = []Option{
	{ID: "big-purchase", Text: "Saving for a big purchase"},
	{ID: "retirement", Text: "Planning for retirement"},
	{ID: "wealth-growth", Text: "Growing my wealth"},
	{ID: "learning", Text: "Just learning the ropes"},
}

var KnowledgeOptions = []Option{
	{ID: "beginner", Text: "I'm a complete beginner"},
	{ID: "intermediate", Text: "I know the basics"},
	{ID: "advanced", Text: "I'm pretty confident"},
}

func FindOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
