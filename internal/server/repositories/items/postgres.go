package items

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayrahq/ayra/internal/common"
	"github.com/ayrahq/ayra/internal/dbx"
	"github.com/ayrahq/ayra/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return nil, fmt.Errorf("error encoding tags: %w", err)
	}

	query :=
		`INSERT INTO items (user_id, title, type, content, tags, url, file_key, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		item.UserID, item.Title, item.Type, item.Content, tags, item.URL, item.FileKey, item.CategoryID,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM items WHERE user_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	query :=
		`SELECT id, user_id, title, type, content, tags, url, file_key,
		        COALESCE(category_id::text, ''), created_at
		 FROM items
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		item := &models.Item{}
		var tags []byte
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Type, &item.Content,
			&tags, &item.URL, &item.FileKey, &item.CategoryID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("error decoding tags: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateCreatedAt(ctx context.Context, userID, id string, createdAt time.Time) error {
	query :=
		`UPDATE items SET created_at = $1
		 WHERE id = $2 AND user_id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, createdAt, id, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading result: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
