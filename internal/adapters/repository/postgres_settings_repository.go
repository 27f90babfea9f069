package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dferrante/anchorline/internal/core/domain"
)

type PostgresSettingsRepository struct {
	db *sqlx.DB
}

func NewPostgresSettingsRepository(db *sqlx.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	query := `
		SELECT user_id, weekly_goal, theme, notifications_enabled, timezone,
		       has_completed_onboarding, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1`

	var settings domain.UserSettings
	if err := r.db.GetContext(ctx, &settings, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &settings, nil
}

func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	query := `
		INSERT INTO user_settings (
			user_id, weekly_goal, theme, notifications_enabled, timezone,
			has_completed_onboarding, created_at, updated_at
		) VALUES (
			:user_id, :weekly_goal, :theme, :notifications_enabled, :timezone,
			:has_completed_onboarding, :created_at, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE
		SET weekly_goal = EXCLUDED.weekly_goal,
		    theme = EXCLUDED.theme,
		    notifications_enabled = EXCLUDED.notifications_enabled,
		    timezone = EXCLUDED.timezone,
		    has_completed_onboarding = EXCLUDED.has_completed_onboarding,
		    updated_at = NOW()`

	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("settings upsert failed: %w", err)
	}
	return nil
}
