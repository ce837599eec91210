package quizgen

// fallbackQuestions is the built-in bank used when no model is reachable.
var fallbackQuestions = []Question{
	{
		Text: "What does the 'const' keyword do in JavaScript?",
		Options: []string{
			"Creates a variable that can be reassigned",
			"Creates a variable that cannot be reassigned",
			"Creates a function",
			"Deletes a variable",
		},
		Correct: 1,
	},
	{
		Text:    "What is the time complexity of binary search?",
		Options: []string{"O(n)", "O(log n)", "O(n²)", "O(1)"},
		Correct: 1,
	},
	{
		Text:    "Which data structure uses LIFO (Last In First Out)?",
		Options: []string{"Queue", "Array", "Stack", "Tree"},
		Correct: 2,
	},
	{
		Text: "What does CSS stand for?",
		Options: []string{
			"Computer Style Sheets",
			"Cascading Style Sheets",
			"Creative Style System",
			"Colorful Style Sheets",
		},
		Correct: 1,
	},
	{
		Text: "What is a REST API?",
		Options: []string{
			"A sleeping program interface",
			"An architectural style for web services",
			"A type of database",
			"A programming language",
		},
		Correct: 1,
	},
}

// Fallback returns a copy of the built-in five-question bank.
func Fallback() []Question {
	out := make([]Question, len(fallbackQuestions))
	for i, q := range fallbackQuestions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// FallbackCards turns the built-in bank into a deck: the question on the
// front, its answer on the back.
func FallbackCards() []Card {
	out := make([]Card, len(fallbackQuestions))
	for i, q := range fallbackQuestions {
		out[i] = Card{Front: q.Text, Back: q.Answer()}
	}
	return out
}
