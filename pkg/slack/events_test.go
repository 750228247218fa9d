package slack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDeduper struct {
	seen map[string]bool
}

func (f *fakeDeduper) IsDuplicateEvent(eventID string) bool {
	if f.seen[eventID] {
		return true
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[eventID] = true
	return false
}

func TestValidateEventChallenge(t *testing.T) {
	payload := &EventPayload{Challenge: "chal-123", Type: "url_verification"}
	assert.Equal(t, VerdictChallenge, ValidateEvent(payload, &fakeDeduper{}))
}

func TestValidateEventDuplicate(t *testing.T) {
	dedup := &fakeDeduper{}
	payload := &EventPayload{
		EventID: "Ev123",
		Event:   &InnerEvent{Type: "app_mention", Text: "hi"},
	}
	assert.Equal(t, VerdictProcess, ValidateEvent(payload, dedup))
	assert.Equal(t, VerdictDuplicate, ValidateEvent(payload, dedup))
}

func TestValidateEventIgnoresOtherTypes(t *testing.T) {
	payload := &EventPayload{
		EventID: "Ev456",
		Event:   &InnerEvent{Type: "message", Text: "hi"},
	}
	assert.Equal(t, VerdictIgnore, ValidateEvent(payload, &fakeDeduper{}))

	assert.Equal(t, VerdictIgnore, ValidateEvent(&EventPayload{EventID: "Ev789"}, &fakeDeduper{}))
}

func TestExtractQuery(t *testing.T) {
	event := &InnerEvent{Text: "<@U12345> how many loans closed last month?"}
	assert.Equal(t, "ANALYZA how many loans closed last month?", ExtractQuery(event, "ANALYZA"))
}

func TestExtractQueryMultipleMentions(t *testing.T) {
	event := &InnerEvent{Text: "  <@U1> ping <@U2>  "}
	assert.Equal(t, "BOT ping BOT", ExtractQuery(event, "BOT"))
}

func TestExtractQueryNoMention(t *testing.T) {
	event := &InnerEvent{Text: "plain question"}
	assert.Equal(t, "plain question", ExtractQuery(event, "BOT"))
}
