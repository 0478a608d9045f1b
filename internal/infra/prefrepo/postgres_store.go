package prefrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

// PostgresStore implements outfit.PreferenceStore using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get implements outfit.PreferenceStore.
func (s *PostgresStore) Get(ctx context.Context, userID string) (outfit.Preferences, bool, error) {
	var (
		prefs  outfit.Preferences
		gender string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT gender, style, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`, userID).Scan(&gender, &prefs.Style, &prefs.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return outfit.Preferences{}, false, nil
	}
	if err != nil {
		return outfit.Preferences{}, false, err
	}
	prefs.Gender = outfit.Gender(gender)
	return prefs, true, nil
}

// Put upserts the user's row.
func (s *PostgresStore) Put(ctx context.Context, userID string, prefs outfit.Preferences) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, gender, style, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET gender = EXCLUDED.gender, style = EXCLUDED.style, updated_at = EXCLUDED.updated_at
	`, userID, string(prefs.Gender), prefs.Style, prefs.UpdatedAt)
	return err
}

var _ outfit.PreferenceStore = (*PostgresStore)(nil)
