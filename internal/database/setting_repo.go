package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/diegoclair/slack-idea-bot/internal/retry"
)

type settingRepo struct {
	db     dbConn
	policy retry.Policy
}

func newSettingRepo(db dbConn, policy retry.Policy) contract.SettingRepo {
	return &settingRepo{db: db, policy: policy}
}

// Get returns nil when the key has never been set.
func (r *settingRepo) Get(ctx context.Context, key string) (*entity.Setting, error) {
	query := `SELECT key, value, updated_at FROM settings WHERE key = ?`

	return retry.Do(ctx, r.policy, func(ctx context.Context) (*entity.Setting, error) {
		setting := &entity.Setting{}
		err := r.db.QueryRowContext(ctx, query, key).Scan(
			&setting.Key,
			&setting.Value,
			&setting.UpdatedAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
		}
		return setting, nil
	})
}

func (r *settingRepo) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	return retry.Exec(ctx, r.policy, func(ctx context.Context) error {
		if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to upsert setting %s: %w", key, err)
		}
		return nil
	})
}
