// Package bot wires intent matching, the dialogue state machine and the
// generative fallback into a single turn handler. A turn is a pure function
// of (prior session, input) -> (reply, new session); there is no hidden
// process-wide conversation state.
package bot

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"supportbot/internal/catalog"
	"supportbot/internal/dialogue"
	"supportbot/internal/domain"
)

// LostContextMessage is emitted when an active session's intent no longer
// resolves to any script in the catalog.
const LostContextMessage = "I'm sorry, I couldn't retrieve the context. Let's start over."

// IntentMatcher resolves free text to a catalog entry, nil meaning no match.
type IntentMatcher interface {
	Match(text string) *domain.QuestionEntry
}

// FallbackResponder produces a generative reply for unmatched turns.
type FallbackResponder interface {
	Respond(ctx context.Context, history []domain.Turn, input string) string
}

// Engine handles conversation turns.
type Engine struct {
	matcher  IntentMatcher
	catalog  *catalog.Catalog
	fallback FallbackResponder
	log      zerolog.Logger
}

// New creates an Engine.
func New(m IntentMatcher, cat *catalog.Catalog, fb FallbackResponder, log zerolog.Logger) *Engine {
	return &Engine{matcher: m, catalog: cat, fallback: fb, log: log}
}

// NewSession returns a fresh idle session.
func NewSession() domain.Session {
	return domain.Session{ID: uuid.NewString(), Step: 1}
}

// HandleTurn processes one user turn and returns the bot reply together with
// the updated session. While a script is active every turn goes to the state
// machine; otherwise the turn is matched against the catalog and falls back
// to the completion service on no match.
func (e *Engine) HandleTurn(ctx context.Context, sess domain.Session, text string) (string, domain.Session) {
	log := e.log.With().Str("session", sess.ID).Logger()
	log.Info().Str("user_input", text).Msg("handling turn")

	history := sess.Conversation
	sess.Conversation = append(sess.Conversation, domain.Turn{Speaker: domain.SpeakerUser, Text: text})

	if !sess.Active() {
		if matched := e.matcher.Match(text); matched != nil {
			sess.Intent = matched.Intent
			sess.SubIntent = matched.SubIntent
			reply, next := dialogue.Advance(matched.Responses, 1, "")
			sess.Conversation = append(sess.Conversation, domain.Turn{Speaker: domain.SpeakerBot, Text: reply})
			sess.Step = next
			log.Info().Str("bot_reply", reply).Int("next_step", next).Msg("script started")
			if dialogue.Completed(matched.Responses, next) {
				sess = dialogue.Reset(sess)
				log.Info().Msg("script completed, session reset")
			}
			return reply, sess
		}
		reply := e.fallback.Respond(ctx, history, text)
		sess.Conversation = append(sess.Conversation, domain.Turn{Speaker: domain.SpeakerBot, Text: reply})
		log.Info().Str("bot_reply", reply).Msg("fallback reply")
		return reply, sess
	}

	script, ok := e.catalog.FindScript(sess.Intent, sess.SubIntent)
	if !ok {
		log.Warn().
			Str("intent", sess.Intent).
			Str("sub_intent", sess.SubIntent).
			Msg("active intent missing from catalog")
		sess = dialogue.Reset(sess)
		return LostContextMessage, sess
	}
	reply, next := dialogue.Advance(script, sess.Step, text)
	sess.Conversation = append(sess.Conversation, domain.Turn{Speaker: domain.SpeakerBot, Text: reply})
	sess.Step = next
	log.Info().Str("bot_reply", reply).Int("next_step", next).Msg("script advanced")
	if dialogue.Completed(script, next) {
		sess = dialogue.Reset(sess)
		log.Info().Msg("script completed, session reset")
	}
	return reply, sess
}
