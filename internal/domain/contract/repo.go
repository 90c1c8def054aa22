//go:generate go run go.uber.org/mock/mockgen -source=repo.go -destination=../../../mocks/repo.go -package=mocks

package contract

import (
	"context"

	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	Submission() SubmissionRepo
	Followup() FollowupRepo
	Setting() SettingRepo
}

// SubmissionRepo defines the contract for submission repository
type SubmissionRepo interface {
	Create(ctx context.Context, submission *entity.Submission) error
	List(ctx context.Context) ([]*entity.Submission, error)
	Stats(ctx context.Context) (*entity.Stats, error)
	Leaderboard(ctx context.Context) ([]*entity.LeaderboardEntry, error)
}

// FollowupRepo defines the contract for followup repository
type FollowupRepo interface {
	Create(ctx context.Context, followup *entity.Followup) error
}

// SettingRepo defines the contract for settings repository
type SettingRepo interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	Upsert(ctx context.Context, key, value string) error
}
