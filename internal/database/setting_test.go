package database

import (
	"context"
	"testing"

	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingRepository_GetMissing(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newSettingRepo(db.conn, testPolicy)

	setting, err := repo.Get(context.Background(), entity.SettingDailyReminderEnabled)
	require.NoError(t, err)
	assert.Nil(t, setting)
	assert.True(t, setting.Enabled(), "missing toggle counts as enabled")
}

func TestSettingRepository_Upsert(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newSettingRepo(db.conn, testPolicy)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, entity.SettingDailyReminderEnabled, "false"))

	setting, err := repo.Get(ctx, entity.SettingDailyReminderEnabled)
	require.NoError(t, err)
	require.NotNil(t, setting)
	assert.Equal(t, "false", setting.Value)
	assert.False(t, setting.Enabled())
	assert.False(t, setting.UpdatedAt.IsZero())

	require.NoError(t, repo.Upsert(ctx, entity.SettingDailyReminderEnabled, "true"))

	setting, err = repo.Get(ctx, entity.SettingDailyReminderEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", setting.Value)
	assert.True(t, setting.Enabled())

	var rows int
	require.NoError(t, db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
