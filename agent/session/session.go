package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
	statex "github.com/tanpawarit/euclidia/agent/state"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrBusy          = errors.New("a turn is already in progress")
)

type Router interface {
	Route(ctx context.Context, history []*schema.Message) (contractx.Reply, error)
}

// Session drives one conversation: it owns the canonical log and appends
// the user turn and the final reply around each routed call.
type Session struct {
	id     string
	router Router
	conv   *statex.Conversation

	turn sync.Mutex
}

func New(router Router, systemPrompt string) *Session {
	var system []*schema.Message
	if strings.TrimSpace(systemPrompt) != "" {
		system = append(system, schema.SystemMessage(systemPrompt))
	}
	return &Session{
		id:     uuid.NewString(),
		router: router,
		conv:   statex.NewConversation(system...),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Ask routes one user question. Turns are not concurrent: a second call
// while one is in flight fails with ErrBusy.
func (s *Session) Ask(ctx context.Context, question string) (contractx.Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return contractx.Reply{}, ErrEmptyQuestion
	}
	if !s.turn.TryLock() {
		return contractx.Reply{}, ErrBusy
	}
	defer s.turn.Unlock()

	logger := log.With().Str("session_id", s.id).Logger()
	ctx = logger.WithContext(ctx)

	s.conv.Append(schema.UserMessage(question))

	reply, err := s.router.Route(ctx, s.conv.Messages())
	if err != nil {
		logger.Error().Err(err).Msg("turn failed")
		return reply, err
	}
	if reply.Message != nil {
		s.conv.Append(reply.Message)
	}

	logger.Info().
		Str("capability", string(reply.Capability)).
		Int("rounds", reply.Rounds).
		Bool("failed", reply.Failure != nil).
		Int("history_len", s.conv.Len()).
		Msg("turn complete")
	return reply, nil
}

// Clear resets the conversation to the initial system instruction.
func (s *Session) Clear() {
	s.conv.Clear()
}

func (s *Session) History() []*schema.Message {
	return s.conv.Messages()
}
