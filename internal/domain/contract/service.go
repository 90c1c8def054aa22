//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=../../../mocks/service.go -package=mocks

package contract

import (
	"context"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/slack-go/slack"
)

type IdeaService interface {
	HandleMessage(ctx context.Context, msg entity.IncomingMessage) (*entity.Submission, error)
}

type CommandService interface {
	Execute(ctx context.Context, req entity.CommandRequest) *slack.Msg
}

type DailyService interface {
	Run(ctx context.Context) error
	Post(ctx context.Context) (bool, error)
}

// TaskScheduler runs fire-and-forget work after a delay.
type TaskScheduler interface {
	After(delay time.Duration, task func(ctx context.Context))
}

// RateLimiter reports whether an identity may act now, recording the hit when it may.
type RateLimiter interface {
	Allow(identity string) bool
}
