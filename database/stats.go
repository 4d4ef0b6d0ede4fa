package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// IncrementStats adds inc to the account's statistics once per project. The
// project_completions ledger absorbs replays of the same completion.
func (db *DB) IncrementStats(ctx context.Context, accountID uuid.UUID, inc models.StatsIncrement) error {
	start := time.Now()
	defer timed("IncrementStats", start, logrus.Fields{"account_id": accountID, "project_id": inc.ProjectID})

	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			INSERT INTO project_completions (project_id, account_id, hours, recorded_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (project_id) DO NOTHING
		`, inc.ProjectID, accountID, inc.HoursContributed)
		if err != nil {
			return fmt.Errorf("failed to record completion: %w", err)
		}
		if result.RowsAffected() == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO account_stats (account_id, projects_completed, hours_contributed, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (account_id) DO UPDATE SET
				projects_completed = account_stats.projects_completed + EXCLUDED.projects_completed,
				hours_contributed = account_stats.hours_contributed + EXCLUDED.hours_contributed,
				updated_at = NOW()
		`, accountID, inc.ProjectsCompleted, inc.HoursContributed)
		if err != nil {
			return fmt.Errorf("failed to increment stats: %w", err)
		}
		return nil
	})
}

// RecalculateBadges queues a badge recalculation for the badge service. A
// pending request per account is enough, so repeats only refresh it.
func (db *DB) RecalculateBadges(ctx context.Context, accountID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO badge_recalculations (account_id, requested_at)
		VALUES ($1, NOW())
		ON CONFLICT (account_id) DO UPDATE SET requested_at = NOW()
	`, accountID)
	if err != nil {
		return fmt.Errorf("failed to queue badge recalculation: %w", err)
	}
	return nil
}

func (db *DB) GetStats(ctx context.Context, accountID uuid.UUID) (*models.Stats, error) {
	stats := models.Stats{AccountID: accountID}
	err := db.Pool.QueryRow(ctx, `
		SELECT projects_completed, hours_contributed FROM account_stats WHERE account_id = $1
	`, accountID).Scan(&stats.ProjectsCompleted, &stats.HoursContributed)
	if err != nil {
		if errors.Is(translate(err), lifecycle.ErrNotFound) {
			return &stats, nil
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}
