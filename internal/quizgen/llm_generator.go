package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/studyz/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider. It remembers
// the questions it has produced per topic so later quizzes do not repeat
// them.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger

	mu    sync.Mutex
	prior map[string][]string // normalized topic -> question texts
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *LLMGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		logger:   logger,
		prior:    make(map[string][]string),
	}
}

// Quiz generates up to QuestionCount validated questions about topic.
func (g *LLMGenerator) Quiz(ctx context.Context, topic string) ([]Question, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	prior := g.priorFor(topic)

	raw, err := g.generate(llm.WithPurpose(ctx, llm.PurposeQuiz), llm.Request{
		System: quizSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuizMessage(topic, g.config.QuestionCount, prior, g.config.MaxPriorQuestions)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := ParseQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}

	valid := parsed[:0:0]
	for i := range parsed {
		if verr := runValidators(g.config.Validators, &parsed[i]); verr != nil {
			g.logger.Debug("dropping generated question",
				zap.String("question", parsed[i].Text),
				zap.Error(verr))
			continue
		}
		valid = append(valid, parsed[i])
	}

	valid = dedupe(valid, prior)
	if n := g.config.QuestionCount; n > 0 && len(valid) > n {
		valid = valid[:n]
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("quiz about %q: %w", topic, ErrNoQuestions)
	}

	g.remember(topic, valid)
	return valid, nil
}

// Flashcards generates up to CardCount cards about topic.
func (g *LLMGenerator) Flashcards(ctx context.Context, topic string) ([]Card, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	raw, err := g.generate(llm.WithPurpose(ctx, llm.PurposeFlashcards), llm.Request{
		System: cardsSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCardsMessage(topic, g.config.CardCount)},
		},
		Schema:      CardsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := ParseCards(raw)
	if err != nil {
		return nil, fmt.Errorf("parse flashcards: %w", err)
	}

	cards := parsed[:0:0]
	seen := make(map[string]bool, len(parsed))
	for _, c := range parsed {
		key := normalize(c.Front)
		if !validCard(c) || seen[key] {
			continue
		}
		seen[key] = true
		cards = append(cards, c)
	}
	if n := g.config.CardCount; n > 0 && len(cards) > n {
		cards = cards[:n]
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("flashcards about %q: %w", topic, ErrNoQuestions)
	}
	return cards, nil
}

// generate calls the provider and returns the raw content. A response
// that fails schema validation is still returned so the lenient parser
// can salvage it.
func (g *LLMGenerator) generate(ctx context.Context, req llm.Request) ([]byte, error) {
	resp, err := g.provider.Generate(ctx, req)
	if err == nil {
		return resp.Content, nil
	}

	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) && len(inv.Content) > 0 {
		g.logger.Debug("salvaging off-schema response", zap.Error(err))
		return inv.Content, nil
	}
	return nil, fmt.Errorf("LLM generation failed: %w", err)
}

func (g *LLMGenerator) priorFor(topic string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prior[normalize(topic)]...)
}

func (g *LLMGenerator) remember(topic string, qs []Question) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := normalize(topic)
	for _, q := range qs {
		g.prior[key] = append(g.prior[key], q.Text)
	}
	// Keep the history bounded.
	g.prior[key] = lastN(g.prior[key], g.config.MaxPriorQuestions)
}

// Static is a Generator that always serves the built-in bank. It stands
// in when no provider is configured.
type Static struct{}

func (Static) Quiz(_ context.Context, topic string) ([]Question, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}
	return Fallback(), nil
}

func (Static) Flashcards(_ context.Context, topic string) ([]Card, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}
	return FallbackCards(), nil
}
