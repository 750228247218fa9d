package slack

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	slackapi "github.com/slack-go/slack"
)

// Client wraps the Slack Web API for the delivery paths the assistant needs.
type Client struct {
	api    *slackapi.Client
	logger *slog.Logger
}

// NewClient builds a client from the bot token.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("slack bot token is not set")
	}
	return &Client{
		api:    slackapi.New(token),
		logger: slog.Default().With("component", "slack"),
	}, nil
}

// PostMessage sends the assistant's text answer to the channel.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID, slackapi.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message to channel %s: %w", channelID, err)
	}
	c.logger.Info("Response sent", "channel", channelID)
	return nil
}

// UserDisplayName resolves a user ID to a human-readable name, falling back
// to the ID when the lookup fails so a profile hiccup never blocks a turn.
func (c *Client) UserDisplayName(ctx context.Context, userID string) string {
	info, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		c.logger.Warn("Failed to resolve user info", "user_id", userID, "error", err)
		return userID
	}
	if info.RealName != "" {
		return info.RealName
	}
	return info.Name
}

// UploadImage decodes a base64 PNG and uploads it to the channel. Data-URI
// prefixes are stripped and base64 padding repaired before decoding, since
// models occasionally hand payloads back in either shape.
func (c *Client) UploadImage(ctx context.Context, channelID, title, imageBase64 string) error {
	raw := imageBase64
	if strings.HasPrefix(raw, "data:image") {
		if idx := strings.Index(raw, ","); idx >= 0 {
			raw = raw[idx+1:]
		}
	}
	if missing := len(raw) % 4; missing != 0 {
		raw += strings.Repeat("=", 4-missing)
	}

	imageBytes, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("failed to decode chart image: %w", err)
	}

	filename := title
	if filename == "" {
		filename = "visual"
	}
	if !strings.HasSuffix(filename, ".png") {
		filename += ".png"
	}

	_, err = c.api.UploadFileV2Context(ctx, slackapi.UploadFileV2Parameters{
		Reader:   bytes.NewReader(imageBytes),
		FileSize: len(imageBytes),
		Filename: filename,
		Title:    title,
		Channel:  channelID,
	})
	if err != nil {
		return fmt.Errorf("failed to upload image to channel %s: %w", channelID, err)
	}
	c.logger.Info("Image uploaded", "channel", channelID, "title", title)
	return nil
}
