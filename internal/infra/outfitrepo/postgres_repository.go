package outfitrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

// PostgresRepository implements outfit.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts one outfit row and returns its id.
func (r *PostgresRepository) Create(ctx context.Context, userID string, o outfit.Outfit) (string, error) {
	id := uuid.NewString()
	items := copyItems(o.Items)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO outfits (id, user_id, number, text, items, tip, weather_temp_c, weather_description, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
	`, id, userID, o.Number, o.Text, items, o.Tip, o.Weather.TemperatureC, o.Weather.Description, o.CreatedAt)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the row if present.
func (r *PostgresRepository) Delete(ctx context.Context, userID, outfitID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM outfits WHERE user_id = $1 AND id = $2`, userID, outfitID)
	return err
}

// ListOrderedByNumber returns the user's outfits ascending by number.
func (r *PostgresRepository) ListOrderedByNumber(ctx context.Context, userID string) ([]outfit.Outfit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, number, text, items, COALESCE(tip, ''), weather_temp_c, weather_description, created_at
		FROM outfits
		WHERE user_id = $1
		ORDER BY number ASC, created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]outfit.Outfit, 0)
	for rows.Next() {
		o, err := scanOutfit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// MaxNumber returns the highest number, 0 when the user has none.
func (r *PostgresRepository) MaxNumber(ctx context.Context, userID string) (int, error) {
	var highest int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM outfits WHERE user_id = $1`, userID).Scan(&highest)
	return highest, err
}

func scanOutfit(row pgx.Row) (outfit.Outfit, error) {
	var o outfit.Outfit
	err := row.Scan(&o.ID, &o.Number, &o.Text, &o.Items, &o.Tip, &o.Weather.TemperatureC, &o.Weather.Description, &o.CreatedAt)
	if err != nil {
		return outfit.Outfit{}, err
	}
	o.Items = copyItems(o.Items)
	return o, nil
}

var _ outfit.Repository = (*PostgresRepository)(nil)
