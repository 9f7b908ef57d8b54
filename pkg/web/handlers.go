package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"

	"github.com/perbu/faqchat/pkg/assistant"
	"github.com/perbu/faqchat/pkg/chat"
	"github.com/perbu/faqchat/pkg/render"
)

// Keys of the values kept in the cookie session
const (
	chatKey  = "chat_id"
	flashKey = "flash"
)

// index renders the chat page: transcript, query form and FAQ list.
func (s *Server) index(c fiber.Ctx) error {
	sess := session.FromContext(c)
	conversation := s.conversation(sess)

	flash, _ := sess.Get(flashKey).(string)
	if flash != "" {
		sess.Delete(flashKey)
	}

	return c.Render("index", fiber.Map{
		"Title":           s.Cfg.Title,
		"FallbackEnabled": s.assistant.FallbackEnabled(),
		"SupportEmail":    s.assistant.SupportEmail(),
		"Flash":           flash,
		"Exchanges":       render.Transcript(conversation.Turns()),
		"Entries":         render.Entries(s.assistant.Records()),
	})
}

// ask handles the query form and redirects back to the page.
func (s *Server) ask(c fiber.Ctx) error {
	sess := session.FromContext(c)
	conversation := s.conversation(sess)

	query := c.FormValue("query")
	if _, err := s.assistant.Respond(c.Context(), conversation, query); err != nil {
		if !errors.Is(err, assistant.ErrEmptyQuery) {
			sess.Set(flashKey, "Sorry, I could not answer \""+query+"\" right now. Please try again or contact "+s.assistant.SupportEmail()+".")
		}
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To("/")
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer   string      `json:"answer"`
	Source   chat.Source `json:"source"`
	Question string      `json:"question,omitempty"`
	Score    int         `json:"score,omitempty"`
}

// apiAsk is the JSON variant of ask, sharing the cookie session.
func (s *Server) apiAsk(c fiber.Ctx) error {
	var req askRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	conversation := s.conversation(session.FromContext(c))

	turn, err := s.assistant.Respond(c.Context(), conversation, req.Query)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "completion service unavailable"})
	}

	return c.JSON(askResponse{
		Answer:   turn.Answer,
		Source:   turn.Source,
		Question: turn.Question,
		Score:    turn.Score,
	})
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"faqs":     len(s.assistant.Records()),
		"fallback": s.assistant.FallbackEnabled(),
		"sessions": s.sessions.Len(),
	})
}

// conversation returns the chat session tied to the cookie session,
// assigning a new chat id on first use.
func (s *Server) conversation(sess *session.Middleware) *chat.Session {
	id, _ := sess.Get(chatKey).(string)
	if id == "" {
		id = uuid.NewString()
		sess.Set(chatKey, id)
	}
	conversation := s.sessions.Get(id)
	s.metrics.Sessions(s.sessions.Len())
	return conversation
}
