package service

import (
	"context"
	"errors"
	"testing"

	"github.com/diegoclair/slack-idea-bot/internal/domain"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDailyService_Run(t *testing.T) {
	m, _ := newServiceTestMock(t)
	svc := newDaily(m.mockDataManager, m.mockSlackClient, fixedRandom{intN: 1}, testOptions())

	m.mockSettingRepo.EXPECT().Get(gomock.Any(), entity.SettingDailyReminderEnabled).Return(nil, nil)
	m.mockSubmissionRepo.EXPECT().Stats(gomock.Any()).Return(&entity.Stats{
		Total: 12,
		PerCategory: []entity.CategoryCount{
			{Category: "Team & Culture", Count: 7},
			{Category: "Cost Saving", Count: 5},
		},
	}, nil)
	m.mockSlackClient.EXPECT().PostMessageContext(gomock.Any(), "CDAILY", gomock.Any()).DoAndReturn(
		func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
			text := msgValues(t, options...).Get("text")
			assert.Contains(t, text, domain.DailyTemplates[1](12))
			assert.Contains(t, text, ":tada: *Team & Culture* (7)")
			return channelID, "1.2", nil
		})

	require.NoError(t, svc.Run(context.Background()))
}

func TestDailyService_RunDisabled(t *testing.T) {
	m, _ := newServiceTestMock(t)
	svc := newDaily(m.mockDataManager, m.mockSlackClient, fixedRandom{}, testOptions())

	m.mockSettingRepo.EXPECT().Get(gomock.Any(), entity.SettingDailyReminderEnabled).
		Return(&entity.Setting{Key: entity.SettingDailyReminderEnabled, Value: "false"}, nil)

	require.NoError(t, svc.Run(context.Background()))
}

func TestDailyService_RunWithoutIdeas(t *testing.T) {
	m, _ := newServiceTestMock(t)
	svc := newDaily(m.mockDataManager, m.mockSlackClient, fixedRandom{}, testOptions())

	m.mockSettingRepo.EXPECT().Get(gomock.Any(), entity.SettingDailyReminderEnabled).Return(nil, nil)
	m.mockSubmissionRepo.EXPECT().Stats(gomock.Any()).Return(&entity.Stats{}, nil)

	require.NoError(t, svc.Run(context.Background()))
}

func TestDailyService_RunAlertsAdmin(t *testing.T) {
	m, _ := newServiceTestMock(t)
	svc := newDaily(m.mockDataManager, m.mockSlackClient, fixedRandom{}, testOptions())

	m.mockSettingRepo.EXPECT().Get(gomock.Any(), entity.SettingDailyReminderEnabled).Return(nil, nil)
	m.mockSubmissionRepo.EXPECT().Stats(gomock.Any()).Return(&entity.Stats{Total: 2}, nil)
	m.mockSlackClient.EXPECT().PostMessageContext(gomock.Any(), "CDAILY", gomock.Any()).Return("", "", errors.New("not_in_channel"))
	m.mockSlackClient.EXPECT().PostMessageContext(gomock.Any(), "UADMIN", gomock.Any()).DoAndReturn(
		func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
			assert.Contains(t, msgValues(t, options...).Get("text"), "not_in_channel")
			return "D1", "1.2", nil
		})

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to post daily message")
}

func TestDailyService_RunAlertFailureIsLogged(t *testing.T) {
	m, _ := newServiceTestMock(t)
	svc := newDaily(m.mockDataManager, m.mockSlackClient, fixedRandom{}, testOptions())

	m.mockSettingRepo.EXPECT().Get(gomock.Any(), entity.SettingDailyReminderEnabled).Return(nil, errors.New("database is locked"))
	m.mockSlackClient.EXPECT().PostMessageContext(gomock.Any(), "UADMIN", gomock.Any()).Return("", "", errors.New("user_not_found"))

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestDailyService_RunWithoutAdmin(t *testing.T) {
	m, _ := newServiceTestMock(t)
	opts := testOptions()
	opts.AdminUserID = ""
	svc := newDaily(m.mockDataManager, m.mockSlackClient, fixedRandom{}, opts)

	m.mockSettingRepo.EXPECT().Get(gomock.Any(), entity.SettingDailyReminderEnabled).Return(nil, nil)
	m.mockSubmissionRepo.EXPECT().Stats(gomock.Any()).Return(nil, errors.New("disk I/O error"))

	require.Error(t, svc.Run(context.Background()))
}

func TestDailyService_PostWithoutChannel(t *testing.T) {
	m, _ := newServiceTestMock(t)
	opts := testOptions()
	opts.DailyChannelID = ""
	svc := newDaily(m.mockDataManager, m.mockSlackClient, fixedRandom{}, opts)

	posted, err := svc.Post(context.Background())
	assert.ErrorIs(t, err, ErrNoDailyChannel)
	assert.False(t, posted)
}
