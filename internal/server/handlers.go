package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/tasks"
)

type taskRequest struct {
	Text string `json:"text"`
}

type topicRequest struct {
	Topic string `json:"topic"`
}

type quizResultRequest struct {
	Topic   string `json:"topic"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

type volumeRequest struct {
	Volume *float64 `json:"volume"`
}

// generated is the reply to quiz and flashcard requests. Warning carries
// the generation error when the fallback bank was served instead.
type generated struct {
	Topic     string             `json:"topic"`
	Questions []quizgen.Question `json:"questions,omitempty"`
	Cards     []quizgen.Card     `json:"cards,omitempty"`
	Fallback  bool               `json:"fallback"`
	Warning   string             `json:"warning,omitempty"`
}

type eventMessage struct {
	study.Event
	Message string `json:"message"`
}

func (s *Server) getState(c *fiber.Ctx) error {
	return ok(c, s.engine.View())
}

func (s *Server) postTimer(c *fiber.Ctx) error {
	ctx := c.UserContext()
	switch action := c.Params("action"); action {
	case "start":
		s.engine.Start(ctx)
	case "pause":
		s.engine.Pause(ctx)
	case "toggle":
		s.engine.ToggleTimer(ctx)
	case "reset":
		s.engine.Reset(ctx)
	case "skip":
		s.engine.Skip(ctx)
	case "break":
		s.engine.StartBreak(ctx)
	default:
		return fail(c, fiber.StatusBadRequest, fmt.Errorf("unknown timer action %q", action))
	}
	return ok(c, s.engine.View())
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	list, err := s.engine.Tasks(c.UserContext())
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	if list == nil {
		list = []tasks.Task{}
	}
	return ok(c, list)
}

func (s *Server) addTask(c *fiber.Ctx) error {
	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	t, err := s.engine.AddTask(c.UserContext(), req.Text)
	if err != nil {
		return fail(c, taskStatus(err), err)
	}
	return success(c, fiber.StatusCreated, t)
}

func (s *Server) toggleTask(c *fiber.Ctx) error {
	t, err := s.engine.ToggleTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, taskStatus(err), err)
	}
	return ok(c, t)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	if err := s.engine.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, taskStatus(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func taskStatus(err error) int {
	switch {
	case errors.Is(err, tasks.ErrEmptyText):
		return fiber.StatusBadRequest
	case errors.Is(err, tasks.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) postQuiz(c *fiber.Ctx) error {
	var req topicRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	qs, fallback, err := quizgen.QuizOrFallback(c.UserContext(), s.gen, req.Topic)
	if errors.Is(err, quizgen.ErrEmptyTopic) {
		return fail(c, fiber.StatusBadRequest, err)
	}
	return ok(c, s.generated(req.Topic, fallback, err, func(g *generated) { g.Questions = qs }))
}

func (s *Server) postFlashcards(c *fiber.Ctx) error {
	var req topicRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	cards, fallback, err := quizgen.CardsOrFallback(c.UserContext(), s.gen, req.Topic)
	if errors.Is(err, quizgen.ErrEmptyTopic) {
		return fail(c, fiber.StatusBadRequest, err)
	}
	return ok(c, s.generated(req.Topic, fallback, err, func(g *generated) { g.Cards = cards }))
}

func (s *Server) generated(topic string, fallback bool, err error, fill func(*generated)) generated {
	g := generated{Topic: strings.TrimSpace(topic), Fallback: fallback}
	if err != nil {
		s.logger.Warn("generation failed, serving fallback", zap.String("topic", g.Topic), zap.Error(err))
		g.Warning = err.Error()
	}
	fill(&g)
	return g
}

func (s *Server) postQuizResult(c *fiber.Ctx) error {
	var req quizResultRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	if req.Total <= 0 || req.Correct < 0 || req.Correct > req.Total {
		return fail(c, fiber.StatusBadRequest, fmt.Errorf("invalid score %d/%d", req.Correct, req.Total))
	}
	xp := s.engine.RecordQuizResult(c.UserContext(), req.Topic, req.Correct, req.Total)
	return ok(c, fiber.Map{"xp": xp, "state": s.engine.View()})
}

func (s *Server) getWeek(c *fiber.Ctx) error {
	return ok(c, s.engine.Week())
}

func (s *Server) getEvents(c *fiber.Ctx) error {
	events := s.engine.Events()
	out := make([]eventMessage, 0, len(events))
	for _, ev := range events {
		out = append(out, eventMessage{Event: ev, Message: ev.Message()})
	}
	return ok(c, out)
}

func (s *Server) toggleMixer(c *fiber.Ctx) error {
	playing := s.engine.ToggleMixer(c.UserContext())
	return ok(c, fiber.Map{"playing": playing, "tracks": s.engine.Mixer().Tracks()})
}

func (s *Server) putVolume(c *fiber.Ctx) error {
	var req volumeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	if req.Volume == nil {
		return fail(c, fiber.StatusBadRequest, errors.New("volume is required"))
	}
	track := c.Params("track")
	v, err := s.engine.SetVolume(c.UserContext(), track, *req.Volume)
	if errors.Is(err, ambient.ErrUnknownTrack) {
		return fail(c, fiber.StatusNotFound, err)
	}
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	return ok(c, fiber.Map{"track": track, "volume": v})
}

// proxyOllama forwards /api/ollama/<path> to <ollama>/api/<path>.
func (s *Server) proxyOllama(c *fiber.Ctx) error {
	if s.ollamaURL == "" {
		return fail(c, fiber.StatusServiceUnavailable, errors.New("ollama url is not configured"))
	}
	target := s.ollamaURL + "/api/" + c.Params("*")
	if q := c.Request().URI().QueryString(); len(q) > 0 {
		target += "?" + string(q)
	}
	if err := proxy.Do(c, target); err != nil {
		s.logger.Warn("ollama proxy", zap.String("target", target), zap.Error(err))
		return fail(c, fiber.StatusBadGateway, err)
	}
	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}
