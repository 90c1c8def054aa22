package database

import (
	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
	"github.com/diegoclair/slack-idea-bot/internal/retry"
)

// instance implements DataManager interface
type instance struct {
	db             *DB
	submissionRepo contract.SubmissionRepo
	followupRepo   contract.FollowupRepo
	settingRepo    contract.SettingRepo
}

// NewInstance creates a new database instance with all repositories.
// Every repository call is retried according to policy.
func NewInstance(db *DB, policy retry.Policy) contract.DataManager {
	instance := &instance{
		db: db,
	}
	instance.repoInstances(policy)
	return instance
}

// repoInstances initializes all repositories
func (i *instance) repoInstances(policy retry.Policy) {
	i.submissionRepo = newSubmissionRepo(i.db.conn, policy)
	i.followupRepo = newFollowupRepo(i.db.conn, policy)
	i.settingRepo = newSettingRepo(i.db.conn, policy)
}

// Submission returns the submission repository
func (i *instance) Submission() contract.SubmissionRepo {
	return i.submissionRepo
}

// Followup returns the followup repository
func (i *instance) Followup() contract.FollowupRepo {
	return i.followupRepo
}

// Setting returns the settings repository
func (i *instance) Setting() contract.SettingRepo {
	return i.settingRepo
}
