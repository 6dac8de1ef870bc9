package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"widget-share-backend/internal/apperr"
	"widget-share-backend/internal/models"

	"github.com/google/uuid"
)

// PhotoStore is the photo persistence required by the services
type PhotoStore interface {
	CreateBatch(ctx context.Context, photos []*models.Photo) error
	ListByReceiver(ctx context.Context, userID int64) ([]*models.Photo, error)
}

// ObjectStorage stores raw photo bytes and returns dereferenceable URLs
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// PhotoService handles photo upload, fanout and history
type PhotoService struct {
	photos  PhotoStore
	friends FriendStore
	users   UserStore
	storage ObjectStorage
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos PhotoStore, friends FriendStore, users UserStore, storage ObjectStorage) *PhotoService {
	return &PhotoService{
		photos:  photos,
		friends: friends,
		users:   users,
		storage: storage,
	}
}

// Upload streams photo bytes to object storage under a fresh key and
// returns the URL. Repeated uploads of identical bytes get distinct URLs.
func (s *PhotoService) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("photos/%s%s", uuid.New().String(), extensionFor(contentType))
	url, err := s.storage.Put(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// SendToFriends fans a photo url out to the given recipients. Every
// recipient must exist and be a friend of the sender. The timestamp is
// captured once so all fanout rows share it, and the store writes the
// batch in one transaction.
func (s *PhotoService) SendToFriends(ctx context.Context, senderID int64, url string, recipientIDs []int64) error {
	if url == "" {
		return apperr.New(apperr.KindInvalidArgument, "url is required")
	}
	if len(recipientIDs) == 0 {
		return apperr.New(apperr.KindInvalidArgument, "at least one recipient is required")
	}

	for _, id := range recipientIDs {
		if id == senderID {
			return apperr.New(apperr.KindInvalidArgument, "cannot send photo to yourself")
		}
		friends, err := s.friends.AreFriends(ctx, senderID, id)
		if err != nil {
			return err
		}
		if friends {
			continue
		}
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return err
		}
		return apperr.New(apperr.KindForbidden, fmt.Sprintf("user %d is not your friend", id))
	}

	now := time.Now()
	photos := make([]*models.Photo, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		photos = append(photos, &models.Photo{
			URL:        url,
			SenderID:   senderID,
			ReceiverID: id,
			TakenAt:    now,
			CreatedAt:  now,
		})
	}

	return s.photos.CreateBatch(ctx, photos)
}

// History returns the photos received by userID, newest first
func (s *PhotoService) History(ctx context.Context, userID int64) ([]*models.Photo, error) {
	return s.photos.ListByReceiver(ctx, userID)
}
