package repository

import (
	"context"
	"fmt"

	"widget-share-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// CreateBatch inserts one photo row per receiver in a single transaction,
// so a fanout either lands for every recipient or for none.
func (r *PhotoRepository) CreateBatch(ctx context.Context, photos []*models.Photo) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO photos (url, sender_id, receiver_id, taken_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for _, photo := range photos {
		err := tx.QueryRow(ctx, query,
			photo.URL, photo.SenderID, photo.ReceiverID, photo.TakenAt, photo.CreatedAt,
		).Scan(&photo.ID)
		if err != nil {
			return fmt.Errorf("failed to create photo: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit photo fanout: %w", err)
	}
	return nil
}

// ListByReceiver retrieves all photos received by a user, newest first.
// Ties on taken_at break by id ascending for deterministic ordering.
func (r *PhotoRepository) ListByReceiver(ctx context.Context, userID int64) ([]*models.Photo, error) {
	query := `
		SELECT id, url, sender_id, receiver_id, taken_at, created_at
		FROM photos
		WHERE receiver_id = $1
		ORDER BY taken_at DESC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.Photo
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.URL, &photo.SenderID, &photo.ReceiverID,
			&photo.TakenAt, &photo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, &photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}
