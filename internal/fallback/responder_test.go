package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/internal/domain"
)

// flakyCompleter fails a set number of times before succeeding.
type flakyCompleter struct {
	failures int
	calls    int
	lastSeen []domain.Message
}

func (f *flakyCompleter) Complete(_ context.Context, messages []domain.Message) (string, error) {
	f.calls++
	f.lastSeen = messages
	if f.calls <= f.failures {
		return "", errors.New("upstream unavailable")
	}
	return "generated reply", nil
}

func newTestResponder(c domain.Completer) (*Responder, *[]time.Duration) {
	r := New(c, zerolog.Nop())
	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }
	return r, &slept
}

func TestRespondSucceedsAfterTransientFailures(t *testing.T) {
	c := &flakyCompleter{failures: 2}
	r, slept := newTestResponder(c)

	got := r.Respond(context.Background(), nil, "help me")
	require.Equal(t, "generated reply", got)
	assert.Equal(t, 3, c.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept)
}

func TestRespondDegradesAfterExhaustion(t *testing.T) {
	c := &flakyCompleter{failures: 10}
	r, _ := newTestResponder(c)

	got := r.Respond(context.Background(), nil, "help me")
	require.Equal(t, ApologyMessage, got)
	assert.Equal(t, 3, c.calls, "exactly 3 attempts, then degrade")
}

func TestRespondBuildsRoleTaggedPrompt(t *testing.T) {
	c := &flakyCompleter{}
	r, _ := newTestResponder(c)

	history := []domain.Turn{
		{Speaker: domain.SpeakerUser, Text: "hello"},
		{Speaker: domain.SpeakerBot, Text: "hi, how can I help?"},
	}
	r.Respond(context.Background(), history, "my order is late")

	require.Len(t, c.lastSeen, 4)
	assert.Equal(t, domain.Message{Role: "system", Content: SystemPrompt}, c.lastSeen[0])
	assert.Equal(t, domain.Message{Role: "user", Content: "hello"}, c.lastSeen[1])
	assert.Equal(t, domain.Message{Role: "assistant", Content: "hi, how can I help?"}, c.lastSeen[2])
	assert.Equal(t, domain.Message{Role: "user", Content: "my order is late"}, c.lastSeen[3])
}
