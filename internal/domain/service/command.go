package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/diegoclair/slack-idea-bot/internal/domain/render"
	slackcmd "github.com/diegoclair/slack-idea-bot/internal/domain/slack"
	"github.com/diegoclair/slack-idea-bot/pkg/logger"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

const msgRateLimited = "You're sending commands too fast, please wait a moment and try again"

type commandService struct {
	dm          contract.DataManager
	slackClient contract.SlackClient
	limiter     contract.RateLimiter
	daily       contract.DailyService
	opts        Options
	nextRun     func() time.Time
}

func newCommand(dm contract.DataManager, slackClient contract.SlackClient, limiter contract.RateLimiter,
	daily contract.DailyService, opts Options) *commandService {
	return &commandService{
		dm:          dm,
		slackClient: slackClient,
		limiter:     limiter,
		daily:       daily,
		opts:        opts,
	}
}

// SetNextRun sets the source of the next daily post time (to avoid circular dependency with the scheduler).
func (s *commandService) SetNextRun(nextRun func() time.Time) {
	s.nextRun = nextRun
}

// Execute runs a slash command and returns the reply for the caller.
func (s *commandService) Execute(ctx context.Context, req entity.CommandRequest) *slack.Msg {
	cmd, err := slackcmd.ParseCommand(req.Text)
	if err != nil {
		return render.Error(fmt.Sprintf("%v. Try `/ideabot help`", err))
	}

	identity := "cmd:" + req.UserID
	if cmd.AdminOnly() {
		if msg := s.authorize(req.UserID); msg != nil {
			logger.Warn("Unauthorized admin command",
				zap.String("user", req.UserID),
				zap.String("command", string(cmd.Type)),
			)
			return msg
		}
		identity = "admin:" + req.UserID
	}

	if !s.limiter.Allow(identity) {
		return render.Error(msgRateLimited)
	}

	logger.Info("Running command",
		zap.String("user", req.UserID),
		zap.String("channel", req.ChannelID),
		zap.String("command", string(cmd.Type)),
	)

	switch cmd.Type {
	case slackcmd.CmdStats:
		return s.handleStats(ctx)
	case slackcmd.CmdHelp:
		return render.Ephemeral(slackcmd.GetHelpText(s.opts.TriggerWord))
	case slackcmd.CmdLeaderboard:
		return s.handleLeaderboard(ctx)
	case slackcmd.CmdMotivate:
		return s.handleMotivate(ctx)
	case slackcmd.CmdToggleReminder:
		return s.handleToggleReminder(ctx, req.UserID)
	case slackcmd.CmdReminderStatus:
		return s.handleReminderStatus(ctx)
	case slackcmd.CmdShowIdeas:
		return s.handleShowIdeas(ctx)
	default:
		return render.Error("Unknown command")
	}
}

func (s *commandService) authorize(userID string) *slack.Msg {
	if s.opts.AdminUserID == "" {
		return render.Error("Admin commands are disabled because no admin is configured")
	}
	if userID != s.opts.AdminUserID {
		return render.Error("Sorry, only the admin can use this command")
	}
	return nil
}

func (s *commandService) handleStats(ctx context.Context) *slack.Msg {
	stats, err := s.dm.Submission().Stats(ctx)
	if err != nil {
		logger.Error("Failed to load stats", zap.Error(err))
		return render.Error("Failed to load stats, please try again later")
	}
	return render.Stats(stats)
}

func (s *commandService) handleLeaderboard(ctx context.Context) *slack.Msg {
	entries, err := s.dm.Submission().Leaderboard(ctx)
	if err != nil {
		logger.Error("Failed to load leaderboard", zap.Error(err))
		return render.Error("Failed to load leaderboard, please try again later")
	}
	return render.Leaderboard(entries)
}

// handleMotivate posts the daily message right away, even when the reminder is off.
func (s *commandService) handleMotivate(ctx context.Context) *slack.Msg {
	posted, err := s.daily.Post(ctx)
	if err != nil {
		logger.Error("Failed to post motivation message", zap.Error(err))
		return render.Error("Failed to post the motivation message, please try again later")
	}
	if !posted {
		return render.Ephemeral("No ideas yet, so there is nothing to celebrate. Nothing was posted.")
	}
	return render.Ephemeral(fmt.Sprintf("✅ Motivation message posted to <#%s>", s.opts.DailyChannelID))
}

func (s *commandService) handleToggleReminder(ctx context.Context, userID string) *slack.Msg {
	setting, err := s.dm.Setting().Get(ctx, entity.SettingDailyReminderEnabled)
	if err != nil {
		logger.Error("Failed to load reminder setting", zap.Error(err))
		return render.Error("Failed to read the reminder setting, please try again later")
	}

	enabled := !setting.Enabled()
	if err := s.dm.Setting().Upsert(ctx, entity.SettingDailyReminderEnabled, strconv.FormatBool(enabled)); err != nil {
		logger.Error("Failed to save reminder setting", zap.Error(err))
		return render.Error("Failed to update the reminder setting, please try again later")
	}

	logger.Info("Daily reminder toggled", zap.Bool("enabled", enabled), zap.String("user", userID))
	s.announceToggle(ctx, userID, enabled)

	return render.ReminderToggled(enabled)
}

// announceToggle tells the daily channel about the change. Failures are only logged.
func (s *commandService) announceToggle(ctx context.Context, userID string, enabled bool) {
	if s.opts.DailyChannelID == "" {
		return
	}

	state := "turned off"
	if enabled {
		state = "turned on"
	}
	text := fmt.Sprintf("⏰ The daily idea reminder was %s by <@%s>", state, userID)

	if _, _, err := s.slackClient.PostMessageContext(ctx, s.opts.DailyChannelID, slack.MsgOptionText(text, false)); err != nil {
		logger.Warn("Failed to announce reminder toggle", zap.String("channel", s.opts.DailyChannelID), zap.Error(err))
	}
}

func (s *commandService) handleReminderStatus(ctx context.Context) *slack.Msg {
	setting, err := s.dm.Setting().Get(ctx, entity.SettingDailyReminderEnabled)
	if err != nil {
		logger.Error("Failed to load reminder setting", zap.Error(err))
		return render.Error("Failed to read the reminder setting, please try again later")
	}

	var next time.Time
	if s.nextRun != nil {
		next = s.nextRun()
	}
	return render.ReminderStatus(setting.Enabled(), s.opts.DailySchedule, s.opts.DailyTimezone, next)
}

func (s *commandService) handleShowIdeas(ctx context.Context) *slack.Msg {
	submissions, err := s.dm.Submission().List(ctx)
	if err != nil {
		logger.Error("Failed to list ideas", zap.Error(err))
		return render.Error("Failed to load ideas, please try again later")
	}

	stats, err := s.dm.Submission().Stats(ctx)
	if err != nil {
		logger.Error("Failed to load stats", zap.Error(err))
		return render.Error("Failed to load ideas, please try again later")
	}

	return render.Ideas(submissions, stats)
}
