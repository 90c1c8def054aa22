package test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/handlers"
	"github.com/diegoclair/slack-idea-bot/mocks"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const SigningSecret = "test-signing-secret"

type ServiceMocks struct {
	IdeaServiceMock    *mocks.MockIdeaService
	CommandServiceMock *mocks.MockCommandService
}

func GetHandlerTest(t *testing.T) (m ServiceMocks, handler *handlers.SlackHandler, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)
	m = ServiceMocks{
		IdeaServiceMock:    mocks.NewMockIdeaService(ctrl),
		CommandServiceMock: mocks.NewMockCommandService(ctrl),
	}

	handler = handlers.New(m.IdeaServiceMock, m.CommandServiceMock, SigningSecret)

	return
}

// CreateSlashCommandRequest creates a properly signed Slack slash command request
func CreateSlashCommandRequest(t *testing.T, text, userID, responseURL, signingSecret string) *http.Request {
	t.Helper()

	form := url.Values{
		"token":        {"test-token"},
		"team_id":      {"T123456789"},
		"team_domain":  {"test-team"},
		"channel_id":   {"C123456789"},
		"channel_name": {"ideas"},
		"user_id":      {userID},
		"user_name":    {"test-user"},
		"command":      {"/ideabot"},
		"text":         {text},
		"response_url": {responseURL},
		"trigger_id":   {"test-trigger-id"},
	}

	req := signedRequest(t, "/slack/commands", form.Encode(), signingSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// CreateEventRequest creates a properly signed Events API request
func CreateEventRequest(t *testing.T, payload any, signingSecret string) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := signedRequest(t, "/slack/events", string(body), signingSecret)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// MessageEvent builds an event_callback payload for a channel message.
func MessageEvent(message map[string]any) map[string]any {
	message["type"] = "message"
	return map[string]any{
		"token":      "test-token",
		"team_id":    "T123456789",
		"api_app_id": "A123456789",
		"type":       "event_callback",
		"event_id":   "Ev123456",
		"event_time": time.Now().Unix(),
		"event":      message,
	}
}

func signedRequest(t *testing.T, path, body, signingSecret string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	require.NoError(t, err)

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", generateSlackSignature(signingSecret, timestamp, body))

	return req
}

func generateSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	signature := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("v0=%s", signature)
}

// ResponseURL records the messages posted to a slash command response url.
type ResponseURL struct {
	*httptest.Server

	mu       sync.Mutex
	messages []slack.WebhookMessage
}

func NewResponseURL(t *testing.T) *ResponseURL {
	t.Helper()

	r := &ResponseURL{}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var msg slack.WebhookMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		r.mu.Lock()
		r.messages = append(r.messages, msg)
		r.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(r.Close)

	return r
}

func (r *ResponseURL) Messages() []slack.WebhookMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]slack.WebhookMessage(nil), r.messages...)
}
