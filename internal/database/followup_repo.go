package database

import (
	"context"
	"fmt"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/diegoclair/slack-idea-bot/internal/retry"
)

type followupRepo struct {
	db     dbConn
	policy retry.Policy
}

func newFollowupRepo(db dbConn, policy retry.Policy) contract.FollowupRepo {
	return &followupRepo{db: db, policy: policy}
}

func (r *followupRepo) Create(ctx context.Context, followup *entity.Followup) error {
	query := `
		INSERT INTO followups (submission_id, kind, text, created_at)
		VALUES (?, ?, ?, ?)
	`

	if followup.CreatedAt.IsZero() {
		followup.CreatedAt = time.Now().UTC()
	}

	id, err := retry.Do(ctx, r.policy, func(ctx context.Context) (int64, error) {
		result, err := r.db.ExecContext(ctx, query,
			followup.SubmissionID,
			string(followup.Kind),
			followup.Text,
			followup.CreatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to create followup: %w", err)
		}
		return result.LastInsertId()
	})
	if err != nil {
		return err
	}

	followup.ID = id
	return nil
}
