package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/diegoclair/slack-idea-bot/pkg/logger"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

// Slack expects an answer within 3 seconds, so work happens after the ack.
const backgroundTimeout = 30 * time.Second

var errInvalidSignature = errors.New("invalid slack signature")

type SlackHandler struct {
	ideaService    contract.IdeaService
	commandService contract.CommandService
	signingSecret  string
	running        sync.WaitGroup
}

func New(ideaService contract.IdeaService, commandService contract.CommandService, signingSecret string) *SlackHandler {
	return &SlackHandler{
		ideaService:    ideaService,
		commandService: commandService,
		signingSecret:  signingSecret,
	}
}

// Wait blocks until every request accepted so far has been processed.
func (h *SlackHandler) Wait() {
	h.running.Wait()
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	body, err := h.verify(r)
	if err != nil {
		logger.Warn("Rejected slash command", zap.Error(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	req := entity.CommandRequest{
		Text:      s.Text,
		UserID:    s.UserID,
		ChannelID: s.ChannelID,
	}

	h.background(func(ctx context.Context) {
		msg := h.commandService.Execute(ctx, req)
		h.respond(ctx, s.ResponseURL, msg)
	})

	w.WriteHeader(http.StatusOK)
}

func (h *SlackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := h.verify(r)
	if err != nil {
		logger.Warn("Rejected event", zap.Error(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(challenge.Challenge))
		return

	case slackevents.CallbackEvent:
		if alreadyAccepted(r.Header) {
			logger.Info("Skipping redelivered event",
				zap.String("retry_num", r.Header.Get("X-Slack-Retry-Num")),
				zap.String("retry_reason", r.Header.Get("X-Slack-Retry-Reason")),
			)
			break
		}
		if ev, ok := event.InnerEvent.Data.(*slackevents.MessageEvent); ok {
			h.handleMessage(ev)
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *SlackHandler) handleMessage(ev *slackevents.MessageEvent) {
	// edits and deletions carry the original message, not a new one
	if ev.SubType == "message_changed" || ev.SubType == "message_deleted" {
		return
	}

	msg := entity.IncomingMessage{
		UserID:    ev.User,
		Text:      ev.Text,
		ChannelID: ev.Channel,
		MessageTS: ev.TimeStamp,
		IsBot:     ev.BotID != "" || ev.SubType == "bot_message",
	}

	h.background(func(ctx context.Context) {
		if _, err := h.ideaService.HandleMessage(ctx, msg); err != nil {
			logger.Error("Failed to handle message",
				zap.String("channel", msg.ChannelID),
				zap.String("ts", msg.MessageTS),
				zap.Error(err),
			)
		}
	})
}

// alreadyAccepted reports whether a redelivered event was already taken in by
// this process. Retries after a failed connection or an error status were not.
func alreadyAccepted(header http.Header) bool {
	if header.Get("X-Slack-Retry-Num") == "" {
		return false
	}
	switch header.Get("X-Slack-Retry-Reason") {
	case "connection_failed", "http_error":
		return false
	}
	return true
}

// verify checks the request signature and returns the raw body.
func (h *SlackHandler) verify(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		return nil, errors.Join(errInvalidSignature, err)
	}

	if _, err := verifier.Write(body); err != nil {
		return nil, err
	}

	if err := verifier.Ensure(); err != nil {
		return nil, errors.Join(errInvalidSignature, err)
	}

	return body, nil
}

func (h *SlackHandler) background(work func(ctx context.Context)) {
	h.running.Add(1)
	go func() {
		defer h.running.Done()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		work(ctx)
	}()
}

// respond delivers a command result through the slash command's response URL.
func (h *SlackHandler) respond(ctx context.Context, responseURL string, msg *slack.Msg) {
	if responseURL == "" {
		logger.Warn("Slash command has no response url, dropping reply")
		return
	}

	webhook := &slack.WebhookMessage{
		Text:         msg.Text,
		ResponseType: msg.ResponseType,
	}
	if len(msg.Blocks.BlockSet) > 0 {
		webhook.Blocks = &msg.Blocks
	}

	if err := slack.PostWebhookContext(ctx, responseURL, webhook); err != nil {
		logger.Error("Failed to deliver command response", zap.Error(err))
	}
}
