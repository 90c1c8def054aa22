package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain"
	"github.com/diegoclair/slack-idea-bot/internal/domain/category"
	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/diegoclair/slack-idea-bot/pkg/logger"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

var ErrNoDailyChannel = errors.New("no daily channel configured")

const alertTimeout = 10 * time.Second

type dailyService struct {
	dm          contract.DataManager
	slackClient contract.SlackClient
	rnd         randomizer
	opts        Options
}

func newDaily(dm contract.DataManager, slackClient contract.SlackClient, rnd randomizer, opts Options) *dailyService {
	return &dailyService{
		dm:          dm,
		slackClient: slackClient,
		rnd:         rnd,
		opts:        opts,
	}
}

// Run is the scheduled job. It skips when the reminder is off and alerts the
// admin by DM when posting fails.
func (s *dailyService) Run(ctx context.Context) error {
	setting, err := s.dm.Setting().Get(ctx, entity.SettingDailyReminderEnabled)
	if err != nil {
		err = fmt.Errorf("failed to read reminder setting: %w", err)
		s.alertAdmin(ctx, err)
		return err
	}

	if !setting.Enabled() {
		logger.Info("Daily reminder is disabled, skipping")
		return nil
	}

	posted, err := s.Post(ctx)
	if err != nil {
		s.alertAdmin(ctx, err)
		return err
	}
	if !posted {
		logger.Info("No ideas yet, skipping daily reminder")
	}
	return nil
}

// Post sends the motivation message to the daily channel. It reports false
// without posting while there are no submissions.
func (s *dailyService) Post(ctx context.Context) (bool, error) {
	if s.opts.DailyChannelID == "" {
		return false, ErrNoDailyChannel
	}

	stats, err := s.dm.Submission().Stats(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load stats: %w", err)
	}
	if stats.Total == 0 {
		return false, nil
	}

	text := s.compose(stats)
	if _, _, err := s.slackClient.PostMessageContext(ctx, s.opts.DailyChannelID, slack.MsgOptionText(text, false)); err != nil {
		return false, fmt.Errorf("failed to post daily message: %w", err)
	}

	logger.Info("Daily message posted", zap.String("channel", s.opts.DailyChannelID), zap.Int("total", stats.Total))
	return true, nil
}

func (s *dailyService) compose(stats *entity.Stats) string {
	text := pick(s.rnd, domain.DailyTemplates)(stats.Total)

	if top, ok := stats.TopCategory(); ok {
		text += fmt.Sprintf("\n\nMost popular category: :%s: *%s* (%d)", category.IconFor(top.Category), top.Category, top.Count)
	}
	return text
}

// alertAdmin DMs the admin about a failed daily run. It outlives the job's context.
func (s *dailyService) alertAdmin(ctx context.Context, cause error) {
	if s.opts.AdminUserID == "" {
		logger.Warn("Daily reminder failed and no admin is configured", zap.Error(cause))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
	defer cancel()

	text := fmt.Sprintf("⚠️ The daily idea reminder failed: %v", cause)
	if _, _, err := s.slackClient.PostMessageContext(ctx, s.opts.AdminUserID, slack.MsgOptionText(text, false)); err != nil {
		logger.Error("Failed to alert admin", zap.String("admin", s.opts.AdminUserID), zap.Error(err))
	}
}
