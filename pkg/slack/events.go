// Package slack handles the Slack ingress (event validation, mention
// extraction) and egress (message posting, image upload).
package slack

import (
	"regexp"
	"strings"
)

// EventPayload is the subset of the Slack Events API envelope the assistant
// consumes.
type EventPayload struct {
	Token     string      `json:"token"`
	Challenge string      `json:"challenge,omitempty"`
	Type      string      `json:"type"`
	EventID   string      `json:"event_id"`
	Event     *InnerEvent `json:"event,omitempty"`
}

// InnerEvent is the actual event inside the envelope.
type InnerEvent struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	User    string `json:"user"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

// Verdict classifies an incoming payload.
type Verdict int

const (
	// VerdictProcess means the payload is a fresh app_mention worth handling.
	VerdictProcess Verdict = iota
	// VerdictChallenge means the payload is a URL verification handshake and
	// its challenge must be echoed back.
	VerdictChallenge
	// VerdictDuplicate means the event was already processed.
	VerdictDuplicate
	// VerdictIgnore means the event is not addressed to the bot.
	VerdictIgnore
)

// Deduper reports and records already-seen event IDs.
type Deduper interface {
	IsDuplicateEvent(eventID string) bool
}

// ValidateEvent decides what to do with an incoming payload: echo a
// verification challenge, drop a redelivery, ignore anything that is not an
// app mention, or process it.
func ValidateEvent(payload *EventPayload, dedup Deduper) Verdict {
	if payload.Challenge != "" {
		return VerdictChallenge
	}
	if dedup.IsDuplicateEvent(payload.EventID) {
		return VerdictDuplicate
	}
	if payload.Event == nil || payload.Event.Type != "app_mention" {
		return VerdictIgnore
	}
	return VerdictProcess
}

var mentionPattern = regexp.MustCompile(`<@[^>]+>`)

// ExtractQuery turns the raw mention text into the user's query, replacing
// every mention tag with the bot's display name so the model sees natural
// phrasing.
func ExtractQuery(event *InnerEvent, botName string) string {
	return strings.TrimSpace(mentionPattern.ReplaceAllString(event.Text, botName))
}
