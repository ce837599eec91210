package quizgen

import (
	"fmt"
	"strings"
)

const quizSystemPrompt = `You are a quiz generator for a student's study session.

Rules:
- Write multiple-choice questions about the given topic.
- Every question has exactly 4 options and exactly one correct option.
- "correct" is the 0-3 index of the correct option.
- Distractors should be plausible, not jokes.
- Do not repeat any question from the "already asked" list.
- Return ONLY a JSON object of the form {"questions": [...]}. No markdown, no introductory text.

Example:
{"questions": [{"question": "What is 2+2?", "options": ["3", "4", "5", "6"], "correct": 1}]}`

const cardsSystemPrompt = `You are a flashcard generator for a student's study session.

Rules:
- Write flashcards about the given topic.
- The front is a term, concept or short question.
- The back is a concise answer of at most two sentences.
- Return ONLY a JSON object of the form {"cards": [...]}. No markdown, no introductory text.

Example:
{"cards": [{"front": "Photosynthesis", "back": "The process plants use to turn light, water and CO2 into glucose and oxygen."}]}`

// buildQuizMessage constructs the user message for a quiz request.
func buildQuizMessage(topic string, count int, prior []string, maxPrior int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)
	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(prior, maxPrior))
	return b.String()
}

// buildCardsMessage constructs the user message for a flashcard request.
func buildCardsMessage(topic string, count int) string {
	return fmt.Sprintf("Topic: %s\nNumber of cards: %d", topic, count)
}
