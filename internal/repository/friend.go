package repository

import (
	"context"
	"errors"
	"fmt"

	"widget-share-backend/internal/apperr"
	"widget-share-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendRepository handles database operations for friend requests and
// friendship edges
type FriendRepository struct {
	db *pgxpool.Pool
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{db: db}
}

// CreateRequest inserts a pending friend request and fills in the generated
// id. A pending request already existing between the two users, in either
// direction, surfaces as a Conflict via the partial unique index on the
// unordered pair.
func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (from_user_id, to_user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		req.FromUserID, req.ToUserID, req.Status, req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Wrap(apperr.KindConflict, "friend request already pending", err)
		}
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

// GetRequestByID retrieves a friend request by ID
func (r *FriendRepository) GetRequestByID(ctx context.Context, id int64) (*models.FriendRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, status, created_at
		FROM friend_requests
		WHERE id = $1
	`
	var req models.FriendRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.FromUserID, &req.ToUserID, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.KindNotFound, "friend request not found", err)
		}
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}
	return &req, nil
}

// ListPendingTo retrieves all pending requests addressed to a user
func (r *FriendRepository) ListPendingTo(ctx context.Context, userID int64) ([]*models.FriendRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, status, created_at
		FROM friend_requests
		WHERE to_user_id = $1 AND status = $2
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, userID, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.FriendRequest
	for rows.Next() {
		var req models.FriendRequest
		err := rows.Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.Status, &req.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		reqs = append(reqs, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friend requests: %w", err)
	}

	return reqs, nil
}

// Accept flips a pending request to accepted and inserts the symmetric
// friendship edge in one transaction. Returns NotFound if the request is
// no longer pending.
func (r *FriendRepository) Accept(ctx context.Context, requestID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE friend_requests
		SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING from_user_id, to_user_id
	`
	var fromID, toID int64
	err = tx.QueryRow(ctx, query, models.StatusAccepted, requestID, models.StatusPending).
		Scan(&fromID, &toID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.Wrap(apperr.KindNotFound, "no pending friend request", err)
		}
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	// Canonical edge ordering: smaller id first
	a, b := fromID, toID
	if a > b {
		a, b = b, a
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO friendships (user_a_id, user_b_id, created_at)
		VALUES ($1, $2, now())
	`, a, b)
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit accept: %w", err)
	}
	return nil
}

// Decline flips a pending request to declined. Returns NotFound if the
// request is no longer pending.
func (r *FriendRepository) Decline(ctx context.Context, requestID int64) error {
	query := `
		UPDATE friend_requests
		SET status = $1
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.Exec(ctx, query, models.StatusDeclined, requestID, models.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to decline friend request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "no pending friend request")
	}
	return nil
}

// ListFriends retrieves all users connected to userID by a friendship edge
func (r *FriendRepository) ListFriends(ctx context.Context, userID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.email, u.nickname, u.password_hash, u.created_at
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.user_a_id = $1 THEN f.user_b_id ELSE f.user_a_id END
		WHERE f.user_a_id = $1 OR f.user_b_id = $1
		ORDER BY u.id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friends: %w", err)
	}

	return users, nil
}

// AreFriends checks whether a friendship edge exists between two users
func (r *FriendRepository) AreFriends(ctx context.Context, userID, otherID int64) (bool, error) {
	a, b := userID, otherID
	if a > b {
		a, b = b, a
	}
	query := `SELECT EXISTS(SELECT 1 FROM friendships WHERE user_a_id = $1 AND user_b_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, a, b).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}
