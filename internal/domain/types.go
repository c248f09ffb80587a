package domain

import "context"

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Turn is a single conversation exchange entry.
type Turn struct {
	Speaker Speaker
	Text    string
}

// ResponseStep is one scripted bot message within an intent's script.
// Step numbers are matched by equality, not by slice position; storage
// order carries no meaning.
type ResponseStep struct {
	Step      int    `json:"step"`
	Message   string `json:"message"`
	Condition string `json:"condition,omitempty"`
}

// QuestionEntry maps one known question to its intent metadata and script.
// Entries are parallel to vector index positions: entry i describes the
// question embedded at index position i.
type QuestionEntry struct {
	Question  string         `json:"question"`
	Intent    string         `json:"intent"`
	SubIntent string         `json:"sub_intent"`
	Responses []ResponseStep `json:"responses"`
}

// Message is a role-tagged chat message sent to the completion service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds the state of one conversation. An empty Intent means no
// script is active and the next turn goes through intent matching.
type Session struct {
	ID           string
	Conversation []Turn
	Intent       string
	SubIntent    string
	Step         int
}

// Active reports whether a scripted intent is currently driving the session.
func (s Session) Active() bool { return s.Intent != "" }

// Embedder converts free text into a fixed-dimension vector representation.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
}

// Completer produces a generative reply for a role-tagged message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
