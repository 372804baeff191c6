package tgCallback

// Callback button uniques. Arguments are passed as telebot data and split by "|".
const (
	StartOnboarding string = "onb_start"
	OnboardingGoal  string = "onb_goal"  // goal id
	OnboardingLevel string = "onb_level" // knowledge id

	OpenTrade    string = "trade_open"    // side | ticker
	TradeReason  string = "trade_reason"  // intent id | reason code
	TradeShares  string = "trade_shares"  // intent id | SharesSet or SharesAdd | n
	TradeNext    string = "trade_next"    // intent id
	TradeBack    string = "trade_back"    // intent id
	TradeCancel  string = "trade_cancel"  // intent id
	TradeConfirm string = "trade_confirm" // intent id

	SharesSet string = "set"
	SharesAdd string = "add"

	QuizAnswer  string = "quiz_answer"  // question index | option index
	LessonLevel string = "lesson_level" // skill level

	RefreshCard  string = "card_refresh"
	ShowStocks   string = "show_stocks"
	ShowHoldings string = "show_holdings"
	ExportReport string = "export_report"
)
