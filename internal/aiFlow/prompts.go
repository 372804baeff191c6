package aiFlow

import "google.golang.org/genai"

const tutorInstruction = `You are a friendly investing tutor for a stock-trading education game.
Write a short lesson (3 to 5 paragraphs) tailored to the student's skill level and learning goal.
Use plain language for beginners and introduce precise terminology for advanced students.
End with one practical tip the student can apply in the simulated portfolio.
Never give personal financial advice.`

const quizInstruction = `You create multiple-choice quizzes about investing.
Write between 3 and 5 questions about the given topic. Every question has exactly 4 options,
exactly one of them correct. correctAnswer must repeat the text of the correct option verbatim.
Give a one or two sentence explanation for every answer.`

const conceptSearchInstruction = `You explain investing concepts using only the provided context.
If the context does not cover the concept, say that you cannot answer from the available material.
Keep the explanation under 150 words.`

const tutorChatInstruction = `You are an investing tutor answering a student's question.
Answer only from the provided context. If the context does not contain the answer,
say that you cannot answer from the available material and suggest a related topic that is covered.`

const marketChatInstruction = `You are a market assistant inside a stock-trading education game.
Answer questions about stocks briefly. When the user asks about the price of a stock,
call the getStockPrice function with its ticker symbol and use the returned price.
Prices in this game are simulated; never present them as real market data.`

func count(n int64) *int64 { return &n }

var tutorSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"lesson": {Type: genai.TypeString, Description: "The lesson text."},
	},
	Required: []string{"lesson"},
}

var quizSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"quizTitle": {Type: genai.TypeString},
		"questions": {
			Type:     genai.TypeArray,
			MinItems: count(3),
			MaxItems: count(5),
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"questionText": {Type: genai.TypeString},
					"options": {
						Type:     genai.TypeArray,
						Items:    &genai.Schema{Type: genai.TypeString},
						MinItems: count(4),
						MaxItems: count(4),
					},
					"correctAnswer": {Type: genai.TypeString},
					"explanation":   {Type: genai.TypeString},
				},
				Required: []string{"questionText", "options", "correctAnswer", "explanation"},
			},
		},
	},
	Required: []string{"quizTitle", "questions"},
}

var conceptSearchSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"explanation": {Type: genai.TypeString},
	},
	Required: []string{"explanation"},
}

var tutorChatSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"answer": {Type: genai.TypeString},
	},
	Required: []string{"answer"},
}
