package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question. A question
	// failing any of them is dropped.
	Validators []Validator

	// QuestionCount is how many questions a quiz asks for.
	QuestionCount int

	// CardCount is how many flashcards a deck asks for.
	CardCount int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many earlier questions per topic are
	// listed in the prompt and excluded from results.
	MaxPriorQuestions int
}

// DefaultConfig returns a Config with the standard validator chain:
// five questions, eight cards.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DistinctOptionsValidator{},
		},
		QuestionCount:     5,
		CardCount:         8,
		MaxTokens:         2048,
		Temperature:       0.7,
		MaxPriorQuestions: 20,
	}
}
