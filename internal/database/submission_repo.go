package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/diegoclair/slack-idea-bot/internal/retry"
	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateSubmission is wrapped when a source message was already stored.
var ErrDuplicateSubmission = errors.New("submission already exists for this message")

const (
	topAuthorsLimit  = 5
	leaderboardLimit = 10
)

type submissionRepo struct {
	db     dbConn
	policy retry.Policy
}

func newSubmissionRepo(db dbConn, policy retry.Policy) contract.SubmissionRepo {
	return &submissionRepo{db: db, policy: policy}
}

func (r *submissionRepo) Create(ctx context.Context, submission *entity.Submission) error {
	query := `
		INSERT INTO submissions (author_id, author_name, text, category,
			source_message_id, source_channel_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now().UTC()
	}

	id, err := retry.Do(ctx, r.policy, func(ctx context.Context) (int64, error) {
		result, err := r.db.ExecContext(ctx, query,
			submission.AuthorID,
			submission.AuthorName,
			submission.Text,
			submission.Category,
			submission.SourceMessageID,
			submission.SourceChannelID,
			submission.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, fmt.Errorf("failed to create submission: %w: %v", ErrDuplicateSubmission, err)
			}
			return 0, fmt.Errorf("failed to create submission: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get last insert id: %w", err)
		}
		return id, nil
	})
	if err != nil {
		return err
	}

	submission.ID = id
	return nil
}

func (r *submissionRepo) List(ctx context.Context) ([]*entity.Submission, error) {
	query := `
		SELECT id, author_id, author_name, text, category,
			source_message_id, source_channel_id, created_at
		FROM submissions
		ORDER BY created_at DESC, id DESC
	`

	return retry.Do(ctx, r.policy, func(ctx context.Context) ([]*entity.Submission, error) {
		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to list submissions: %w", err)
		}
		defer rows.Close()

		var submissions []*entity.Submission
		for rows.Next() {
			submission := &entity.Submission{}
			err := rows.Scan(
				&submission.ID,
				&submission.AuthorID,
				&submission.AuthorName,
				&submission.Text,
				&submission.Category,
				&submission.SourceMessageID,
				&submission.SourceChannelID,
				&submission.CreatedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to scan submission: %w", err)
			}
			submissions = append(submissions, submission)
		}

		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate submissions: %w", err)
		}
		return submissions, nil
	})
}

func (r *submissionRepo) Stats(ctx context.Context) (*entity.Stats, error) {
	return retry.Do(ctx, r.policy, func(ctx context.Context) (*entity.Stats, error) {
		stats := &entity.Stats{
			PerCategory: []entity.CategoryCount{},
			TopAuthors:  []entity.AuthorCount{},
		}

		err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&stats.Total)
		if err != nil {
			return nil, fmt.Errorf("failed to count submissions: %w", err)
		}

		if stats.PerCategory, err = r.countByCategory(ctx); err != nil {
			return nil, err
		}

		if stats.TopAuthors, err = r.topAuthors(ctx); err != nil {
			return nil, err
		}

		return stats, nil
	})
}

func (r *submissionRepo) countByCategory(ctx context.Context) ([]entity.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) AS total
		FROM submissions
		GROUP BY category
		ORDER BY total DESC, category ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}
	defer rows.Close()

	counts := []entity.CategoryCount{}
	for rows.Next() {
		var c entity.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *submissionRepo) topAuthors(ctx context.Context) ([]entity.AuthorCount, error) {
	query := `
		SELECT author_id, MAX(author_name), COUNT(*) AS total, MAX(created_at) AS last_at
		FROM submissions
		GROUP BY author_id
		ORDER BY total DESC, last_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, topAuthorsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top authors: %w", err)
	}
	defer rows.Close()

	authors := []entity.AuthorCount{}
	for rows.Next() {
		var (
			a      entity.AuthorCount
			lastAt string
		)
		if err := rows.Scan(&a.AuthorID, &a.AuthorName, &a.Count, &lastAt); err != nil {
			return nil, fmt.Errorf("failed to scan author count: %w", err)
		}
		if a.LastSubmittedAt, err = parseTimestamp(lastAt); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (r *submissionRepo) Leaderboard(ctx context.Context) ([]*entity.LeaderboardEntry, error) {
	query := `
		SELECT s.author_id, MAX(s.author_name), COUNT(*) AS total,
			GROUP_CONCAT(DISTINCT s.category), MAX(s.created_at) AS last_at,
			AVG(COALESCE(f.followups, 0))
		FROM submissions s
		LEFT JOIN (
			SELECT submission_id, COUNT(*) AS followups
			FROM followups
			GROUP BY submission_id
		) f ON f.submission_id = s.id
		GROUP BY s.author_id
		ORDER BY total DESC, last_at DESC
		LIMIT ?
	`

	return retry.Do(ctx, r.policy, func(ctx context.Context) ([]*entity.LeaderboardEntry, error) {
		rows, err := r.db.QueryContext(ctx, query, leaderboardLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to get leaderboard: %w", err)
		}
		defer rows.Close()

		entries := []*entity.LeaderboardEntry{}
		for rows.Next() {
			var (
				entry      = &entity.LeaderboardEntry{}
				categories sql.NullString
				lastAt     string
			)
			err := rows.Scan(
				&entry.AuthorID,
				&entry.AuthorName,
				&entry.Submissions,
				&categories,
				&lastAt,
				&entry.AvgFollowups,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
			}

			if entry.LastSubmittedAt, err = parseTimestamp(lastAt); err != nil {
				return nil, err
			}
			if categories.Valid && categories.String != "" {
				entry.Categories = strings.Split(categories.String, ",")
				sort.Strings(entry.Categories)
			}
			entries = append(entries, entry)
		}

		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
		}
		return entries, nil
	})
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
