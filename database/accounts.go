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
)

// CreateAccount provisions the internal account for an external identity.
func (db *DB) CreateAccount(ctx context.Context, externalID string, role models.Role) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, external_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, external_id, role, created_at
	`

	account, err := scanAccount(db.Pool.QueryRow(ctx, query, uuid.New(), externalID, role, time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", translate(err))
	}
	return account, nil
}

func (db *DB) GetAccountByExternalID(ctx context.Context, externalID string) (*models.Account, error) {
	query := `SELECT id, external_id, role, created_at FROM accounts WHERE external_id = $1`

	account, err := scanAccount(db.Pool.QueryRow(ctx, query, externalID))
	if err != nil {
		err = translate(err)
		if errors.Is(err, lifecycle.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ResolveActor maps an external identity onto the engine's actor.
func (db *DB) ResolveActor(ctx context.Context, externalID string) (*models.Actor, error) {
	account, err := db.GetAccountByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return account.Actor(), nil
}

// SaveProfile replaces the stored profile, skills and education entries.
func (db *DB) SaveProfile(ctx context.Context, p models.Profile) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (account_id, first_name, last_name, bio, intro, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (account_id) DO UPDATE SET
				first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
				bio = EXCLUDED.bio, intro = EXCLUDED.intro, updated_at = NOW()
		`, p.AccountID, p.FirstName, p.LastName, p.Bio, p.Intro)
		if err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM profile_skills WHERE account_id = $1`, p.AccountID); err != nil {
			return fmt.Errorf("failed to clear skills: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM profile_education WHERE account_id = $1`, p.AccountID); err != nil {
			return fmt.Errorf("failed to clear education: %w", err)
		}

		batch := &pgx.Batch{}
		for _, skill := range p.Skills {
			batch.Queue(`INSERT INTO profile_skills (account_id, skill) VALUES ($1, $2) ON CONFLICT DO NOTHING`, p.AccountID, skill)
		}
		for _, institution := range p.Education {
			batch.Queue(`INSERT INTO profile_education (account_id, institution) VALUES ($1, $2)`, p.AccountID, institution)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save profile entries: %w", err)
		}
		return nil
	})
}

// GetProfile loads the completeness-relevant part of a profile. Accounts
// without a profile row yield an empty profile.
func (db *DB) GetProfile(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT a.id,
			COALESCE(p.first_name, ''), COALESCE(p.last_name, ''),
			COALESCE(p.bio, ''), COALESCE(p.intro, ''),
			COALESCE((SELECT array_agg(s.skill ORDER BY s.skill) FROM profile_skills s WHERE s.account_id = a.id), '{}'),
			COALESCE((SELECT array_agg(e.institution ORDER BY e.institution) FROM profile_education e WHERE e.account_id = a.id), '{}')
		FROM accounts a
		LEFT JOIN profiles p ON p.account_id = a.id
		WHERE a.id = $1
	`

	var p models.Profile
	err := db.Pool.QueryRow(ctx, query, accountID).Scan(
		&p.AccountID, &p.FirstName, &p.LastName, &p.Bio, &p.Intro, &p.Skills, &p.Education,
	)
	if err != nil {
		err = translate(err)
		if errors.Is(err, lifecycle.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (db *DB) CheckProfile(ctx context.Context, accountID uuid.UUID) (models.ProfileCheck, error) {
	p, err := db.GetProfile(ctx, accountID)
	if errors.Is(err, lifecycle.ErrNotFound) {
		return (*models.Profile)(nil).Check(), nil
	}
	if err != nil {
		return models.ProfileCheck{}, err
	}
	return p.Check(), nil
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.ExternalID, &a.Role, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
