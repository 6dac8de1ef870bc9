package services

import (
	"context"
	"time"

	"widget-share-backend/internal/apperr"
	"widget-share-backend/internal/models"
)

// FriendStore is the friend-graph persistence required by the services
type FriendStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.FriendRequest, error)
	ListPendingTo(ctx context.Context, userID int64) ([]*models.FriendRequest, error)
	Accept(ctx context.Context, requestID int64) error
	Decline(ctx context.Context, requestID int64) error
	ListFriends(ctx context.Context, userID int64) ([]*models.User, error)
	AreFriends(ctx context.Context, userID, otherID int64) (bool, error)
}

// FriendService handles the friend-request lifecycle and friend listing
type FriendService struct {
	friends FriendStore
	users   UserStore
}

// NewFriendService creates a new friend service
func NewFriendService(friends FriendStore, users UserStore) *FriendService {
	return &FriendService{
		friends: friends,
		users:   users,
	}
}

// SearchByNickname looks up a user by exact nickname. An unknown nickname
// returns (nil, nil) rather than an error.
func (s *FriendService) SearchByNickname(ctx context.Context, nickname string) (*models.User, error) {
	user, err := s.users.GetByNickname(ctx, nickname)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// SendRequest creates a pending friend request from fromUserID to the user
// with the given nickname. Duplicate pending requests in either direction
// are rejected by the store's uniqueness constraint, not a prior read.
func (s *FriendService) SendRequest(ctx context.Context, fromUserID int64, toNickname string) error {
	target, err := s.users.GetByNickname(ctx, toNickname)
	if err != nil {
		return err
	}

	if target.ID == fromUserID {
		return apperr.New(apperr.KindInvalidArgument, "cannot send friend request to yourself")
	}

	already, err := s.friends.AreFriends(ctx, fromUserID, target.ID)
	if err != nil {
		return err
	}
	if already {
		return apperr.New(apperr.KindConflict, "already friends")
	}

	req := &models.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   target.ID,
		Status:     models.StatusPending,
		CreatedAt:  time.Now(),
	}
	return s.friends.CreateRequest(ctx, req)
}

// ListPendingRequests returns the pending requests addressed to userID
func (s *FriendService) ListPendingRequests(ctx context.Context, userID int64) ([]*models.FriendRequest, error) {
	return s.friends.ListPendingTo(ctx, userID)
}

// Accept accepts a pending request addressed to byUserID. The status flip
// and the friendship edge are written atomically by the store.
func (s *FriendService) Accept(ctx context.Context, requestID, byUserID int64) error {
	if err := s.authorize(ctx, requestID, byUserID); err != nil {
		return err
	}
	return s.friends.Accept(ctx, requestID)
}

// Decline declines a pending request addressed to byUserID
func (s *FriendService) Decline(ctx context.Context, requestID, byUserID int64) error {
	if err := s.authorize(ctx, requestID, byUserID); err != nil {
		return err
	}
	return s.friends.Decline(ctx, requestID)
}

func (s *FriendService) authorize(ctx context.Context, requestID, byUserID int64) error {
	req, err := s.friends.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ToUserID != byUserID {
		return apperr.New(apperr.KindForbidden, "friend request is not addressed to you")
	}
	if req.Status != models.StatusPending {
		return apperr.New(apperr.KindNotFound, "no pending friend request")
	}
	return nil
}

// ListFriends returns all users connected to userID by a friendship edge
func (s *FriendService) ListFriends(ctx context.Context, userID int64) ([]*models.User, error) {
	return s.friends.ListFriends(ctx, userID)
}
