package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain"
	"github.com/diegoclair/slack-idea-bot/internal/domain/category"
	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/diegoclair/slack-idea-bot/pkg/logger"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ideaService struct {
	dm          contract.DataManager
	slackClient contract.SlackClient
	limiter     contract.RateLimiter
	tasks       contract.TaskScheduler
	rnd         randomizer
	opts        Options
}

func newIdea(dm contract.DataManager, slackClient contract.SlackClient, limiter contract.RateLimiter,
	tasks contract.TaskScheduler, rnd randomizer, opts Options) *ideaService {
	return &ideaService{
		dm:          dm,
		slackClient: slackClient,
		limiter:     limiter,
		tasks:       tasks,
		rnd:         rnd,
		opts:        opts,
	}
}

// HandleMessage stores an idea message and schedules the bot's reactions and
// replies. Messages that are filtered out return a nil submission and no error.
func (s *ideaService) HandleMessage(ctx context.Context, msg entity.IncomingMessage) (*entity.Submission, error) {
	if !s.accepts(msg) {
		return nil, nil
	}

	if !s.limiter.Allow("msg:" + msg.UserID) {
		logger.Info("Idea dropped, user is rate limited", zap.String("user", msg.UserID))
		return nil, nil
	}

	cat := category.Categorize(msg.Text)
	submission := &entity.Submission{
		AuthorID:        msg.UserID,
		AuthorName:      s.resolveName(ctx, msg.UserID),
		Text:            msg.Text,
		Category:        cat.Label,
		SourceMessageID: msg.MessageTS,
		SourceChannelID: msg.ChannelID,
	}

	if err := s.dm.Submission().Create(ctx, submission); err != nil {
		logger.Error("Failed to store idea",
			zap.String("user", msg.UserID),
			zap.String("channel", msg.ChannelID),
			zap.String("ts", msg.MessageTS),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	logger.Info("Idea stored",
		zap.Int64("submission_id", submission.ID),
		zap.String("user", msg.UserID),
		zap.String("category", submission.Category),
	)

	s.react(ctx, msg, cat)
	s.scheduleReply(submission)

	return submission, nil
}

func (s *ideaService) accepts(msg entity.IncomingMessage) bool {
	if msg.IsBot || (s.opts.BotUserID != "" && msg.UserID == s.opts.BotUserID) {
		return false
	}

	if s.opts.IdeaChannelID != "" && msg.ChannelID != s.opts.IdeaChannelID {
		return false
	}

	return hasPrefixFold(strings.TrimSpace(msg.Text), s.opts.TriggerWord)
}

// resolveName prefers the profile display name, then the real name, then the handle.
func (s *ideaService) resolveName(ctx context.Context, userID string) string {
	user, err := s.slackClient.GetUserInfoContext(ctx, userID)
	if err != nil {
		logger.Warn("Failed to look up user, storing as anonymous", zap.String("user", userID), zap.Error(err))
		return entity.AnonymousName
	}

	for _, name := range []string{user.Profile.DisplayName, user.Profile.RealName, user.Name} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return entity.AnonymousName
}

// react adds a random reaction and the category reaction at the same time.
func (s *ideaService) react(ctx context.Context, msg entity.IncomingMessage, cat category.Category) {
	ref := slack.NewRefToMessage(msg.ChannelID, msg.MessageTS)

	var g errgroup.Group
	for _, emoji := range []string{pick(s.rnd, domain.ReactionPool), cat.Icon} {
		g.Go(func() error {
			if err := s.slackClient.AddReactionContext(ctx, emoji, ref); err != nil {
				logger.Warn("Failed to add reaction",
					zap.String("emoji", emoji),
					zap.String("channel", msg.ChannelID),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *ideaService) scheduleReply(submission *entity.Submission) {
	s.tasks.After(s.replyDelay(), func(ctx context.Context) {
		s.postFollowup(ctx, submission, entity.FollowupResponse, pick(s.rnd, domain.CannedResponses))

		if s.rnd.Float64() < s.opts.DadJokeProbability {
			s.tasks.After(s.opts.DadJokeDelay, func(ctx context.Context) {
				s.postFollowup(ctx, submission, entity.FollowupDadJoke, pick(s.rnd, domain.DadJokes))
			})
		}
	})
}

// replyDelay is uniform in [ReplyDelayMin, ReplyDelayMax].
func (s *ideaService) replyDelay() time.Duration {
	spread := s.opts.ReplyDelayMax - s.opts.ReplyDelayMin
	if spread <= 0 {
		return s.opts.ReplyDelayMin
	}
	return s.opts.ReplyDelayMin + time.Duration(s.rnd.Int64N(int64(spread)+1))
}

// postFollowup replies in the submission's thread and records the reply.
func (s *ideaService) postFollowup(ctx context.Context, submission *entity.Submission, kind entity.FollowupKind, text string) {
	_, _, err := s.slackClient.PostMessageContext(ctx, submission.SourceChannelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(submission.SourceMessageID),
	)
	if err != nil {
		logger.Error("Failed to post followup",
			zap.Int64("submission_id", submission.ID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return
	}

	followup := &entity.Followup{
		SubmissionID: submission.ID,
		Kind:         kind,
		Text:         text,
	}
	if err := s.dm.Followup().Create(ctx, followup); err != nil {
		logger.Error("Failed to record followup",
			zap.Int64("submission_id", submission.ID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
