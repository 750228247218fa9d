// Package prompt builds the system prompts that steer the assistant, from
// the bot identity, the requesting user and the warehouse table descriptors.
package prompt

// Profile carries the identities a system prompt is personalized with.
type Profile struct {
	BotName     string
	UserName    string
	UserRole    string
	UserContext string
}

// defaults applied when the channel could not resolve requester details
const (
	defaultUserName    = "a colleague"
	defaultUserRole    = "an analyst"
	defaultUserContext = "the company"
)

func (p Profile) withDefaults() Profile {
	if p.UserName == "" {
		p.UserName = defaultUserName
	}
	if p.UserRole == "" {
		p.UserRole = defaultUserRole
	}
	if p.UserContext == "" {
		p.UserContext = defaultUserContext
	}
	return p
}
