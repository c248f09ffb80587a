// Package dialogue implements the scripted dialogue state machine. A session
// is either idle (no intent) or inside a script; while inside, every turn is
// resolved here by walking the script's steps.
package dialogue

import (
	"strings"

	"supportbot/internal/domain"
)

// StallMessage is emitted when the current step cannot fire: either no entry
// carries the current step number, or the step's condition is not satisfied
// by the reply. The step pointer stays put so the caller can retry the same
// step with the next reply.
const StallMessage = "I'm sorry, something went wrong."

// Advance resolves one turn of an active script. It scans for the first entry
// whose step number equals step (by field value, not slice position) and
// fires it, returning the bot message and the advanced step pointer.
//
// Conditional steps fire only when userReply contains the condition as a
// case-insensitive substring. A fresh match enters with step 1 and an empty
// reply. On any non-firing outcome the returned step is unchanged.
func Advance(script []domain.ResponseStep, step int, userReply string) (string, int) {
	for _, entry := range script {
		if entry.Step != step {
			continue
		}
		if entry.Condition != "" {
			if userReply != "" && conditionMet(entry.Condition, userReply) {
				return entry.Message, step + 1
			}
			return StallMessage, step
		}
		return entry.Message, step + 1
	}
	return StallMessage, step
}

// Completed reports whether the step pointer has walked past the end of the
// script. Step count, not the highest step number, bounds the script; this
// mirrors how scripts are authored with one entry per step.
func Completed(script []domain.ResponseStep, step int) bool {
	return step > len(script)
}

// Reset returns the session to the idle state. The whole conversation is
// cleared, not just the script pointers; product may yet decide the
// transcript should survive script completion.
func Reset(s domain.Session) domain.Session {
	s.Conversation = nil
	s.Intent = ""
	s.SubIntent = ""
	s.Step = 1
	return s
}

func conditionMet(condition, reply string) bool {
	return strings.Contains(strings.ToLower(reply), strings.ToLower(condition))
}
