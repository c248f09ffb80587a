// Package fallback relays turns that matched no scripted intent to the
// generative completion service.
package fallback

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"supportbot/internal/domain"
)

// SystemPrompt is the fixed persona instruction prepended to every request.
const SystemPrompt = "You are Moses, a helpful and professional customer support assistant."

// ApologyMessage is returned after all attempts are exhausted. The failure
// never reaches the user as a raw error.
const ApologyMessage = "I'm experiencing technical difficulties. Please try again later."

const maxAttempts = 3

// Responder wraps a Completer with retry and degradation behavior.
type Responder struct {
	completer domain.Completer
	log       zerolog.Logger
	sleep     func(time.Duration)
}

// New creates a Responder.
func New(completer domain.Completer, log zerolog.Logger) *Responder {
	return &Responder{completer: completer, log: log, sleep: time.Sleep}
}

// Respond builds a role-tagged message sequence from the conversation so far
// plus the new input and asks the completion service for a reply. Failures
// are retried up to 3 attempts with 2^attempt seconds of backoff; every
// failure is retried identically. After the last attempt it degrades to a
// fixed apology.
func (r *Responder) Respond(ctx context.Context, history []domain.Turn, input string) string {
	messages := buildPrompt(history, input)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reply, err := r.completer.Complete(ctx, messages)
		if err == nil {
			return reply
		}
		r.log.Error().Err(err).Int("attempt", attempt).Msg("completion request failed")
		if attempt == maxAttempts {
			break
		}
		r.sleep(time.Duration(math.Pow(2, float64(attempt))) * time.Second)
	}
	return ApologyMessage
}

func buildPrompt(history []domain.Turn, input string) []domain.Message {
	messages := make([]domain.Message, 0, len(history)+2)
	messages = append(messages, domain.Message{Role: "system", Content: SystemPrompt})
	for _, turn := range history {
		role := "user"
		if turn.Speaker == domain.SpeakerBot {
			role = "assistant"
		}
		messages = append(messages, domain.Message{Role: role, Content: turn.Text})
	}
	messages = append(messages, domain.Message{Role: "user", Content: input})
	return messages
}
