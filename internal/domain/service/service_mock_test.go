package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/diegoclair/slack-idea-bot/mocks"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type allMocks struct {
	mockDataManager    *mocks.MockDataManager
	mockSubmissionRepo *mocks.MockSubmissionRepo
	mockFollowupRepo   *mocks.MockFollowupRepo
	mockSettingRepo    *mocks.MockSettingRepo
	mockSlackClient    *mocks.MockSlackClient
	mockRateLimiter    *mocks.MockRateLimiter
}

func newServiceTestMock(t *testing.T) (m allMocks, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)

	dm := mocks.NewMockDataManager(ctrl)

	submissionRepo := mocks.NewMockSubmissionRepo(ctrl)
	dm.EXPECT().Submission().Return(submissionRepo).AnyTimes()

	followupRepo := mocks.NewMockFollowupRepo(ctrl)
	dm.EXPECT().Followup().Return(followupRepo).AnyTimes()

	settingRepo := mocks.NewMockSettingRepo(ctrl)
	dm.EXPECT().Setting().Return(settingRepo).AnyTimes()

	m = allMocks{
		mockDataManager:    dm,
		mockSubmissionRepo: submissionRepo,
		mockFollowupRepo:   followupRepo,
		mockSettingRepo:    settingRepo,
		mockSlackClient:    mocks.NewMockSlackClient(ctrl),
		mockRateLimiter:    mocks.NewMockRateLimiter(ctrl),
	}

	// validate service creation
	instance := NewInstance(dm, m.mockSlackClient, m.mockRateLimiter, &inlineTasks{}, testOptions())
	require.NotNil(t, instance.Idea)
	require.NotNil(t, instance.Command)
	require.NotNil(t, instance.Daily)

	return
}

func testOptions() Options {
	return Options{
		BotUserID:          "UBOT",
		AdminUserID:        "UADMIN",
		TriggerWord:        "ide",
		IdeaChannelID:      "CIDEAS",
		DailyChannelID:     "CDAILY",
		DadJokeProbability: 0.3,
		DadJokeDelay:       5 * time.Second,
		ReplyDelayMin:      2 * time.Second,
		ReplyDelayMax:      8 * time.Second,
		DailySchedule:      "0 9 * * *",
		DailyTimezone:      "Asia/Jakarta",
	}
}

// fixedRandom always returns the same values.
type fixedRandom struct {
	intN   int
	int64N int64
	float  float64
}

func (r fixedRandom) IntN(n int) int {
	return min(r.intN, n-1)
}

func (r fixedRandom) Int64N(n int64) int64 {
	return min(r.int64N, n-1)
}

func (r fixedRandom) Float64() float64 {
	return r.float
}

// inlineTasks runs every task right away and records the requested delays.
type inlineTasks struct {
	delays []time.Duration
}

func (s *inlineTasks) After(delay time.Duration, task func(ctx context.Context)) {
	s.delays = append(s.delays, delay)
	task(context.Background())
}

// msgValues returns the form values a set of message options would send to Slack.
func msgValues(t *testing.T, options ...slack.MsgOption) url.Values {
	t.Helper()

	_, values, err := slack.UnsafeApplyMsgOptions("xoxb-test", "C000", "https://slack.com/api/", options...)
	require.NoError(t, err)
	return values
}
