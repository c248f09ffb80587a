package bot

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/internal/catalog"
	"supportbot/internal/dialogue"
	"supportbot/internal/domain"
)

type stubMatcher struct {
	entry *domain.QuestionEntry
}

func (s stubMatcher) Match(string) *domain.QuestionEntry { return s.entry }

type stubFallback struct {
	calls   int
	history []domain.Turn
	input   string
	reply   string
}

func (s *stubFallback) Respond(_ context.Context, history []domain.Turn, input string) string {
	s.calls++
	s.history = history
	s.input = input
	return s.reply
}

func refundScript() []domain.ResponseStep {
	return []domain.ResponseStep{
		{Step: 1, Message: "Do you have your order number?"},
		{Step: 2, Message: "Thanks, processing your refund.", Condition: "yes"},
	}
}

func refundCatalog() *catalog.Catalog {
	return catalog.New([]domain.QuestionEntry{
		{Question: "i want a refund", Intent: "billing", SubIntent: "refund", Responses: refundScript()},
	})
}

func TestHandleTurnSeedsScriptOnMatch(t *testing.T) {
	entry := &domain.QuestionEntry{Intent: "billing", SubIntent: "refund", Responses: refundScript()}
	fb := &stubFallback{reply: "generated"}
	e := New(stubMatcher{entry: entry}, refundCatalog(), fb, zerolog.Nop())

	reply, sess := e.HandleTurn(context.Background(), NewSession(), "i want a refund")

	assert.Equal(t, "Do you have your order number?", reply)
	require.True(t, sess.Active())
	assert.Equal(t, "billing", sess.Intent)
	assert.Equal(t, 2, sess.Step)
	assert.Zero(t, fb.calls)
	require.Len(t, sess.Conversation, 2)
	assert.Equal(t, domain.SpeakerUser, sess.Conversation[0].Speaker)
	assert.Equal(t, domain.SpeakerBot, sess.Conversation[1].Speaker)
}

func TestHandleTurnFallsBackOnNoMatch(t *testing.T) {
	fb := &stubFallback{reply: "generated"}
	e := New(stubMatcher{}, refundCatalog(), fb, zerolog.Nop())

	sess := NewSession()
	sess.Conversation = []domain.Turn{{Speaker: domain.SpeakerBot, Text: "earlier"}}
	reply, sess := e.HandleTurn(context.Background(), sess, "tell me a joke")

	assert.Equal(t, "generated", reply)
	assert.False(t, sess.Active())
	assert.Equal(t, 1, fb.calls)
	assert.Equal(t, "tell me a joke", fb.input)
	// fallback sees the history before the new turn was appended
	require.Len(t, fb.history, 1)
	assert.Equal(t, "earlier", fb.history[0].Text)
}

func TestHandleTurnAdvancesActiveScript(t *testing.T) {
	fb := &stubFallback{reply: "generated"}
	e := New(stubMatcher{}, refundCatalog(), fb, zerolog.Nop())

	sess := NewSession()
	sess.Intent = "billing"
	sess.SubIntent = "refund"
	sess.Step = 2

	// unmet condition stalls without advancing
	reply, sess := e.HandleTurn(context.Background(), sess, "no")
	assert.Equal(t, dialogue.StallMessage, reply)
	assert.Equal(t, 2, sess.Step)
	require.True(t, sess.Active())

	// matched condition finishes the script and resets the whole session
	reply, sess = e.HandleTurn(context.Background(), sess, "yes here it is")
	assert.Equal(t, "Thanks, processing your refund.", reply)
	assert.False(t, sess.Active())
	assert.Equal(t, 1, sess.Step)
	assert.Empty(t, sess.Conversation, "script completion clears the transcript")
	assert.Zero(t, fb.calls, "active sessions never hit the fallback")
}

func TestHandleTurnResetsWhenIntentUnresolvable(t *testing.T) {
	fb := &stubFallback{reply: "generated"}
	e := New(stubMatcher{}, refundCatalog(), fb, zerolog.Nop())

	sess := NewSession()
	sess.Intent = "billing"
	sess.SubIntent = "gone"
	sess.Step = 2

	reply, sess := e.HandleTurn(context.Background(), sess, "hello?")
	assert.Equal(t, LostContextMessage, reply)
	assert.False(t, sess.Active())
	assert.Empty(t, sess.Conversation)
}

func TestHandleTurnResetsAfterSingleStepScript(t *testing.T) {
	script := []domain.ResponseStep{{Step: 1, Message: "All done."}}
	entry := &domain.QuestionEntry{Intent: "faq", SubIntent: "hours", Responses: script}
	e := New(stubMatcher{entry: entry}, refundCatalog(), &stubFallback{}, zerolog.Nop())

	reply, sess := e.HandleTurn(context.Background(), NewSession(), "when are you open")
	assert.Equal(t, "All done.", reply)
	assert.False(t, sess.Active(), "one-step script completes on the seeding turn")
}

func TestNewSessionIsIdle(t *testing.T) {
	sess := NewSession()
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Active())
	assert.Equal(t, 1, sess.Step)
}
