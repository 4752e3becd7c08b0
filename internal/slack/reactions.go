package slack

import (
	"encoding/json"
	"fmt"
)

// ReactionEvent is the payload forwarded over NATS when someone reacts
// to a review message.
type ReactionEvent struct {
	Reaction  string `json:"reaction"`
	UserID    string `json:"user_id"`
	Channel   string `json:"channel"`
	MessageTS string `json:"message_ts"`
}

// Verdict maps a reaction to a review outcome.
type Verdict string

const (
	VerdictApproved Verdict = "approved"
	VerdictRejected Verdict = "rejected"
	VerdictUnknown  Verdict = "unknown"
)

// ParseReaction converts a reaction emoji name to a verdict.
func ParseReaction(reaction string) Verdict {
	switch reaction {
	case "+1", "thumbsup":
		return VerdictApproved
	case "-1", "thumbsdown":
		return VerdictRejected
	default:
		return VerdictUnknown
	}
}

// ParseReactionEvent parses a forwarded reaction payload. The forwarder
// wraps event fields in a metadata map.
func ParseReactionEvent(data []byte) (*ReactionEvent, error) {
	var wrapper struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse reaction wrapper: %w", err)
	}

	evt := &ReactionEvent{
		Reaction:  wrapper.Metadata["text"],
		UserID:    wrapper.Metadata["user_id"],
		Channel:   wrapper.Metadata["channel_id"],
		MessageTS: wrapper.Metadata["message_ts"],
	}

	// Strip surrounding colons from emoji names.
	if len(evt.Reaction) > 2 && evt.Reaction[0] == ':' && evt.Reaction[len(evt.Reaction)-1] == ':' {
		evt.Reaction = evt.Reaction[1 : len(evt.Reaction)-1]
	}

	return evt, nil
}
