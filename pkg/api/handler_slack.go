package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/analyza-ai/analyza/pkg/models"
	"github.com/analyza-ai/analyza/pkg/orchestrator"
	"github.com/analyza-ai/analyza/pkg/prompt"
	"github.com/analyza-ai/analyza/pkg/slack"
)

// SlackEvents handles POST /slack/events. Verification challenges are echoed,
// redeliveries and foreign events are dropped, and valid mentions are
// acknowledged immediately with the turn processed in the background so the
// webhook stays inside Slack's response deadline.
func (s *Server) SlackEvents(c *gin.Context) {
	var payload slack.EventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.logger.Warn("Rejected malformed event payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch slack.ValidateEvent(&payload, s.sessions) {
	case slack.VerdictChallenge:
		c.JSON(http.StatusOK, gin.H{"challenge": payload.Challenge})
	case slack.VerdictDuplicate:
		s.logger.Info("Duplicate event ignored", "event_id", payload.EventID)
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
	case slack.VerdictIgnore:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	case slack.VerdictProcess:
		event := *payload.Event
		go s.processTurn(event)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// processTurn runs the full pipeline for one mention: resolve the requester,
// run the orchestrator over their history, persist the exchange, and deliver
// text plus any rendered chart back to the channel. Delivery failures are
// logged, never propagated; there is no caller left to tell.
func (s *Server) processTurn(event slack.InnerEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Orchestrator.RequestTimeout)
	defer cancel()

	query := slack.ExtractQuery(&event, s.cfg.Bot.Name)
	if query == "" {
		s.logger.Warn("Mention carried no query text", "channel", event.Channel, "user_id", event.User)
		return
	}

	displayName := s.slack.UserDisplayName(ctx, event.User)
	user := s.sessions.GetOrCreate(event.User, displayName)

	// one run at a time per user; a concurrent mention waits here
	unlock := user.LockRun()
	defer unlock()

	s.logger.Info("Processing mention",
		"user", displayName, "user_id", event.User, "channel", event.Channel, "query", query)

	systemPrompt := prompt.DataAnalyst(prompt.Profile{
		BotName:     s.cfg.Bot.Name,
		UserName:    user.Name,
		UserRole:    user.Role,
		UserContext: user.Context,
	})

	conversation := make(models.Conversation, 0, len(user.History())+2)
	conversation = append(conversation, models.Message{Role: models.RoleSystem, Content: systemPrompt})
	conversation = append(conversation, user.History()...)
	conversation = append(conversation, models.Message{Role: models.RoleUser, Content: query})

	result := s.orch.Run(ctx, conversation, orchestrator.NewRecursionState(s.cfg.Orchestrator.MaxDepth))

	output := result[len(result)-1].Content
	user.Append(models.RoleUser, query)
	user.Append(models.RoleAssistant, output)

	if renderable := result.LastRenderable(); renderable != nil {
		image, _ := renderable.Data["image"].(string)
		title, _ := renderable.Data["title"].(string)
		if image != "" {
			if err := s.slack.UploadImage(ctx, event.Channel, title, image); err != nil {
				s.logger.Error("Failed to upload chart", "channel", event.Channel, "error", err)
			}
		}
	}

	if err := s.slack.PostMessage(ctx, event.Channel, output); err != nil {
		s.logger.Error("Failed to deliver response", "channel", event.Channel, "error", err)
	}
}
